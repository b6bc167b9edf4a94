package note

import "testing"

func TestCleanPlaceName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "image index, boilerplate, and suffix stripped",
			in:   "p12是一家叫Museca Times的牛肉汉堡店好吃！",
			want: "Museca Times",
		},
		{
			name: "plain name untouched",
			in:   "谷中银座商业街",
			want: "谷中银座商业街",
		},
		{
			name: "surrounding punctuation trimmed",
			in:   "　朝仓雕塑馆，",
			want: "朝仓雕塑馆",
		},
		{
			name: "internal whitespace collapsed",
			in:   "Museca   Times",
			want: "Museca Times",
		},
		{
			name: "nothing meaningful remains",
			in:   "p3 好吃！",
			want: "",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "image index without following filler",
			in:   "P1日暮里站",
			want: "日暮里站",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanPlaceName(tt.in); got != tt.want {
				t.Errorf("CleanPlaceName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsPlausiblePlaceName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"日暮里站", true},
		{"Museca Times", true},
		{"123-45", false},
		{"p12", false},
		{"P7abc", false},
		{"店主超好", false},
		{"小朋友们", false},
		{"站", false}, // single rune
		{"", false},
	}

	for _, tt := range tests {
		if got := IsPlausiblePlaceName(tt.in); got != tt.want {
			t.Errorf("IsPlausiblePlaceName(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsLikelyAddress(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"东京都台东区谷中3丁目", true},
		{"中央大街120号", true},
		{"7 Chome Yanaka Taito City", true},
		{"太短", false},
		{"没有任何特征词的一句话", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsLikelyAddress(tt.in); got != tt.want {
			t.Errorf("IsLikelyAddress(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
