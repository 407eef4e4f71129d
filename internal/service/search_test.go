package core

import "testing"

func TestTitleMatches(t *testing.T) {
	tests := []struct {
		name  string
		title string
		term  string
		exact bool
		want  bool
	}{
		{"empty term matches", "Annual Report", "", false, true},
		{"single word", "Annual Report 2026", "annual", false, true},
		{"all words required", "Annual Report 2026", "annual 2026", false, true},
		{"missing word fails", "Annual Report 2026", "annual budget", false, false},
		{"case insensitive", "Annual Report", "ANNUAL", false, true},
		{"exact match whole title", "Annual Report", "annual report", true, true},
		{"exact match partial fails", "Annual Report", "annual", true, false},
		{"term trimmed", "Annual Report", "  annual  ", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitleMatches(tt.title, tt.term, tt.exact); got != tt.want {
				t.Fatalf("TitleMatches(%q, %q, %v) = %v, want %v",
					tt.title, tt.term, tt.exact, got, tt.want)
			}
		})
	}
}

func TestParseExclusions(t *testing.T) {
	list := ParseExclusions("internal, draft*, ")

	if list.Empty() {
		t.Fatal("list should not be empty")
	}

	tests := []struct {
		query string
		want  bool
	}{
		{"internal", true},
		{"the internal memo", true},
		{"internally", false},
		{"draft", true},
		{"draft budget plan", true},
		{"first draft", false},
		{"annual report", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := list.Excluded(tt.query); got != tt.want {
			t.Fatalf("Excluded(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestExclusionListEmpty(t *testing.T) {
	var nilList *ExclusionList
	if !nilList.Empty() {
		t.Fatal("nil list should be empty")
	}
	if nilList.Excluded("anything") {
		t.Fatal("nil list should exclude nothing")
	}

	if !ParseExclusions("").Empty() {
		t.Fatal("blank setting should produce an empty list")
	}
	if !ParseExclusions(" , , ").Empty() {
		t.Fatal("whitespace-only setting should produce an empty list")
	}
}
