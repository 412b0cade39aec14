package phone

import "testing"

func TestDigits(t *testing.T) {
	cases := map[string]string{
		"(416) 555-0134":  "4165550134",
		"+1 416.555.0134": "14165550134",
		"":                "",
		"call me":         "",
	}
	for input, want := range cases {
		if got := Digits(input); got != want {
			t.Errorf("Digits(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeE164(t *testing.T) {
	if got := NormalizeE164("416-967-1111"); got != "+14169671111" {
		t.Fatalf("expected +14169671111, got %q", got)
	}
	if got := NormalizeE164("  not a phone "); got != "not a phone" {
		t.Fatalf("expected trimmed passthrough, got %q", got)
	}
}

func TestFormatNational(t *testing.T) {
	if got := FormatNational("4169671111"); got != "(416) 967-1111" {
		t.Fatalf("expected national format, got %q", got)
	}
	if got := FormatNational("12"); got != "12" {
		t.Fatalf("expected passthrough for short input, got %q", got)
	}
}
