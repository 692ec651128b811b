package api

import "testing"

func TestGenerateDuelCode(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		code := generateDuelCode()
		if !duelCodeRegex.MatchString(code) {
			t.Fatalf("generated code %q does not match the expected format", code)
		}
		seen[code] = struct{}{}
	}
	if len(seen) < 2 {
		t.Fatalf("codes should vary")
	}
}

func TestNormalizeDuelCode(t *testing.T) {
	if got := normalizeDuelCode("  ab12cd34 "); got != "AB12CD34" {
		t.Fatalf("expected AB12CD34, got %q", got)
	}
	if !duelCodeRegex.MatchString(normalizeDuelCode("ab12cd34")) {
		t.Fatalf("normalized code should validate")
	}
}
