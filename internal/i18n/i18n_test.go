package i18n

import (
	"context"
	"testing"
)

func TestMatchAndTranslate(t *testing.T) {
	Init("en")

	tests := []struct {
		header string
		want   string
	}{
		{"si-LK,si;q=0.9", "si"},
		{"en-US,en;q=0.9", "en"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Match(tt.header); got != tt.want {
			t.Errorf("Match(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}

	ctx := context.Background()
	if got := T(ctx, "employee.not_found", map[string]any{"ID": 3}); got != "Employee 3 not found" {
		t.Errorf("T(en) = %q", got)
	}
	si := WithLocale(ctx, "si")
	if got := T(si, "employee.not_found", map[string]any{"ID": 3}); got != "සේවක 3 හමු නොවීය" {
		t.Errorf("T(si) = %q", got)
	}
	// Messages missing from si fall back to the default locale.
	if got := T(si, "item.deleted"); got != "Item deleted successfully" {
		t.Errorf("fallback = %q", got)
	}
	if got := T(ctx, "no.such.message"); got != "no.such.message" {
		t.Errorf("unknown id = %q", got)
	}
}
