package review

import "testing"

func TestParsePass(t *testing.T) {
	for _, p := range Passes {
		got, err := ParsePass(string(p))
		if err != nil || got != p {
			t.Errorf("ParsePass(%q) = %q, %v", p, got, err)
		}
	}
	if _, err := ParsePass("thorough"); err == nil {
		t.Error("expected error for unknown pass")
	}
}

func TestPassTitle(t *testing.T) {
	if got := PassIndependent.Title(); got != "Independent" {
		t.Errorf("Title = %q", got)
	}
}

func TestSeverityValid(t *testing.T) {
	for _, s := range []Severity{SeverityError, SeverityWarning, SeveritySuggestion} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Severity("critical").Valid() {
		t.Error("critical should be invalid")
	}
}

func TestFindingLocation(t *testing.T) {
	tests := []struct {
		f    Finding
		want string
	}{
		{Finding{File: "src/a.ts", Line: 10}, "src/a.ts:10"},
		{Finding{File: "src/a.ts"}, "src/a.ts"},
		{Finding{Line: 10}, ""},
	}
	for _, tt := range tests {
		if got := tt.f.Location(); got != tt.want {
			t.Errorf("Location() = %q, want %q", got, tt.want)
		}
	}
}
