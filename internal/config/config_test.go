package config

import (
	"reflect"
	"testing"
)

func TestParseOrigins(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"https://app.example.com", []string{"https://app.example.com"}},
		{" https://a.example.com , https://b.example.com ,", []string{"https://a.example.com", "https://b.example.com"}},
	}
	for _, c := range cases {
		if got := parseOrigins(c.raw); !reflect.DeepEqual(got, c.want) {
			t.Errorf("parseOrigins(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}
