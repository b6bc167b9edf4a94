package note

import (
	"strings"
	"testing"
)

const sampleNote = `小红书
谷中一日散步路线
今天从日暮里站出发，沿着商业街慢慢逛。
📍东京都台东区谷中3丁目，很好找
先去了朝仓雕塑馆，然后走到谷中银座商业街。
p12是一家叫Museca Times的牛肉汉堡店好吃！
最后去了猫猫神社
#东京旅行 #日本旅行 #东京旅行`

func TestExtractPlaces_Strategies(t *testing.T) {
	places := ExtractPlaces(sampleNote)
	if len(places) == 0 {
		t.Fatal("expected places from sample note")
	}

	byName := make(map[string]Place, len(places))
	for _, p := range places {
		if _, dup := byName[p.Name]; dup {
			t.Errorf("duplicate name %q after merge", p.Name)
		}
		byName[p.Name] = p
	}

	// Symbol strategy: pin-marked address fragment.
	pin, ok := byName["东京都台东区谷中3丁目"]
	if !ok {
		t.Fatal("expected pin-marked address to be extracted")
	}
	if pin.Source != SourceSymbol {
		t.Errorf("expected symbol source, got %q", pin.Source)
	}
	if pin.Address != "东京都台东区谷中3丁目" {
		t.Errorf("unexpected address %q", pin.Address)
	}

	// Keyword strategy: cleaned burger shop name. The category keyword
	// was part of the stripped descriptor, so the cleaned name falls
	// back to the other category.
	burger, ok := byName["Museca Times"]
	if !ok {
		t.Fatal("expected cleaned shop name to be extracted")
	}
	if burger.Source != SourceKeyword {
		t.Errorf("expected keyword source, got %q", burger.Source)
	}
	if burger.Address != "Museca Times" {
		t.Errorf("expected name used as address, got %q", burger.Address)
	}

	// Everything gets the placeholder coordinates at this stage.
	for _, p := range places {
		if p.Coordinates != placeholderCoordinates {
			t.Errorf("place %q: expected placeholder coordinates, got %+v", p.Name, p.Coordinates)
		}
	}
}

func TestExtractPlaces_SourceRankOrdering(t *testing.T) {
	places := ExtractPlaces(sampleNote)

	last := 4
	for _, p := range places {
		pri := p.Source.Priority()
		if pri > last {
			t.Fatalf("places not in descending trust order: %q (%d) after %d", p.Name, pri, last)
		}
		last = pri
	}
}

func TestExtractPlaces_NoMatches(t *testing.T) {
	places := ExtractPlaces("完全无关的内容")
	if places == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(places) != 0 {
		t.Errorf("expected no places, got %v", places)
	}
}

func TestExtractTitle(t *testing.T) {
	title := ExtractTitle(sampleNote)
	if title != "谷中一日散步路线" {
		t.Errorf("expected title from line after platform marker, got %q", title)
	}

	if got := ExtractTitle(""); got != "" {
		t.Errorf("expected empty title for empty text, got %q", got)
	}
}

func TestExtractContent(t *testing.T) {
	content := ExtractContent(sampleNote)
	if content == "" {
		t.Fatal("expected non-empty content summary")
	}
	if strings.Contains(content, "#东京旅行") {
		t.Error("content summary should not include hashtag lines")
	}
	if len(strings.Split(content, "\n")) > 5 {
		t.Error("content summary should keep at most five lines")
	}
}

func TestBuildExtraction(t *testing.T) {
	ext := BuildExtraction(sampleNote, "https://example.com/note/1")

	if ext.MultiRoute() {
		t.Error("rule-based extraction should produce the single-route shape")
	}
	if ext.PlaceCount() == 0 {
		t.Error("expected places in extraction")
	}
	if ext.SourceURL != "https://example.com/note/1" {
		t.Errorf("unexpected source url %q", ext.SourceURL)
	}
	wantTags := []string{"东京旅行", "日本旅行"}
	if len(ext.Tags) != len(wantTags) {
		t.Fatalf("expected %d tags, got %v", len(wantTags), ext.Tags)
	}
	for i, tag := range wantTags {
		if ext.Tags[i] != tag {
			t.Errorf("tag %d: expected %q, got %q", i, tag, ext.Tags[i])
		}
	}
}

func TestBuildExtraction_FallbackTitle(t *testing.T) {
	ext := BuildExtraction("📍中央大街120号", "")
	if ext.Title != "未命名路线" {
		t.Errorf("expected fallback title, got %q", ext.Title)
	}
}
