package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/noteroute/noteroute/internal/note"
)

type fakeExtractor struct {
	name      string
	available bool
	result    *note.Extraction
	err       error
	calls     int
}

func (f *fakeExtractor) Name() string    { return f.name }
func (f *fakeExtractor) Available() bool { return f.available }

func (f *fakeExtractor) TryExtract(_ context.Context, _ Input) (*note.Extraction, error) {
	f.calls++
	return f.result, f.err
}

type fakeCache map[string]string

func (c fakeCache) Get(url string) (string, bool) {
	text, ok := c[url]
	return text, ok
}

func extractionWith(places ...string) *note.Extraction {
	ext := &note.Extraction{Places: []note.Place{}}
	for _, name := range places {
		ext.Places = append(ext.Places, note.Place{Name: name, Source: note.SourceAI})
	}
	return ext
}

func TestChain_AIWinsWhenItFindsPlaces(t *testing.T) {
	ai := &fakeExtractor{name: "ai", available: true, result: extractionWith("朝仓雕塑馆")}
	rules := &fakeExtractor{name: "rules", available: true, result: extractionWith("谷中银座")}

	chain := NewChain(ChainConfig{
		AI:              ai,
		Rules:           rules,
		UseAIFirst:      true,
		FallbackToRules: true,
		Logger:          zerolog.Nop(),
	})

	result, err := chain.ParseNote(context.Background(), "some note", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Places[0].Name != "朝仓雕塑馆" {
		t.Errorf("expected the AI result, got %+v", result.Places)
	}
	if rules.calls != 0 {
		t.Error("rule extractor should not run when AI found places")
	}
}

func TestChain_FallsBackWhenAIFindsNothing(t *testing.T) {
	tests := []struct {
		name string
		ai   *fakeExtractor
	}{
		{"ai returns zero places", &fakeExtractor{name: "ai", available: true, result: extractionWith()}},
		{"ai returns error", &fakeExtractor{name: "ai", available: true, err: errors.New("model timeout")}},
		{"ai unavailable", &fakeExtractor{name: "ai", available: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := &fakeExtractor{name: "rules", available: true, result: extractionWith("谷中银座")}

			chain := NewChain(ChainConfig{
				AI:              tt.ai,
				Rules:           rules,
				UseAIFirst:      true,
				FallbackToRules: true,
				Logger:          zerolog.Nop(),
			})

			result, err := chain.ParseNote(context.Background(), "some note", "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Places[0].Name != "谷中银座" {
				t.Errorf("expected the rule-based result, got %+v", result.Places)
			}
			if rules.calls != 1 {
				t.Errorf("rule extractor calls = %d, want 1", rules.calls)
			}
		})
	}
}

func TestChain_NoPlacesFromAnyStrategy(t *testing.T) {
	ai := &fakeExtractor{name: "ai", available: true, result: extractionWith()}
	rules := &fakeExtractor{name: "rules", available: true, result: extractionWith()}

	chain := NewChain(ChainConfig{
		AI:              ai,
		Rules:           rules,
		UseAIFirst:      true,
		FallbackToRules: true,
		Logger:          zerolog.Nop(),
	})

	result, err := chain.ParseNote(context.Background(), "some note", "")
	if !errors.Is(err, ErrNoPlaces) {
		t.Fatalf("expected ErrNoPlaces, got %v (result %+v)", err, result)
	}
	if ai.calls != 1 || rules.calls != 1 {
		t.Errorf("expected both strategies to run once, got ai=%d rules=%d", ai.calls, rules.calls)
	}
}

func TestChain_PolicyFlags(t *testing.T) {
	ai := &fakeExtractor{name: "ai", available: true}
	rules := &fakeExtractor{name: "rules", available: true}

	tests := []struct {
		name            string
		useAIFirst      bool
		fallbackToRules bool
		want            []string
	}{
		{"ai first with fallback", true, true, []string{"ai", "rules"}},
		{"ai only", true, false, []string{"ai"}},
		{"rules only", false, true, []string{"rules"}},
		{"nothing enabled", false, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := NewChain(ChainConfig{
				AI:              ai,
				Rules:           rules,
				UseAIFirst:      tt.useAIFirst,
				FallbackToRules: tt.fallbackToRules,
				Logger:          zerolog.Nop(),
			})

			got := chain.Strategies()
			if len(got) != len(tt.want) {
				t.Fatalf("strategies = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("strategy %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestChain_EmptyNote(t *testing.T) {
	rules := &fakeExtractor{name: "rules", available: true, result: extractionWith("谷中银座")}

	chain := NewChain(ChainConfig{
		Rules:           rules,
		FallbackToRules: true,
		Logger:          zerolog.Nop(),
	})

	if _, err := chain.ParseNote(context.Background(), "", ""); !errors.Is(err, ErrEmptyNote) {
		t.Fatalf("expected ErrEmptyNote, got %v", err)
	}
	if rules.calls != 0 {
		t.Error("no strategy should run for an empty note")
	}
}

func TestChain_CachedTextForURLOnlyInput(t *testing.T) {
	rules := &fakeExtractor{name: "rules", available: true, result: extractionWith("谷中银座")}
	cache := fakeCache{"https://example.com/note/1": "📍谷中银座商业街"}

	chain := NewChain(ChainConfig{
		Rules:           rules,
		FallbackToRules: true,
		Cache:           cache,
		Logger:          zerolog.Nop(),
	})

	if _, err := chain.ParseNote(context.Background(), "", "https://example.com/note/1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rules.calls != 1 {
		t.Errorf("rule extractor calls = %d, want 1", rules.calls)
	}

	if _, err := chain.ParseNote(context.Background(), "", "https://example.com/missing"); !errors.Is(err, ErrEmptyNote) {
		t.Fatalf("expected ErrEmptyNote for uncached url, got %v", err)
	}
}
