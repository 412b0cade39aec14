package sanitize

import "testing"

func TestText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "  Please call after 5pm ", want: "Please call after 5pm"},
		{name: "tags", in: "<b>Hello</b> <script>x</script>there", want: "Hello xthere"},
		{name: "encoded tags", in: "&lt;img src=x&gt;ok", want: "ok"},
		{name: "blank lines", in: "a\r\n\r\n\r\n\r\nb", want: "a\n\nb"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Text(tc.in); got != tc.want {
				t.Fatalf("Text(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo", 2); got != "hé" {
		t.Fatalf("expected rune-aware cut, got %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Fatalf("expected unchanged, got %q", got)
	}
	if got := Truncate("abc", 0); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
