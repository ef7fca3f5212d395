package service

import "testing"

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"kid@example.com", "kid@example.com"},
		{"Kid@Example.COM", "kid@example.com"},
		{"  kid@example.com \n", "kid@example.com"},
		{" MIXED.Case@Example.Com ", "mixed.case@example.com"},
	}
	for _, c := range cases {
		if got := normalizeEmail(c.in); got != c.want {
			t.Errorf("normalizeEmail(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
