package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		{"", 10, 10},
		{"   ", 10, 10},
		{"42", 0, 42},
		{" 42 ", 7, 42},
		{"-13", 1, -13},
		{"0012", 99, 12},
		{"x", 5, 5},
		{"2.5", 3, 3},
		{"999999999999999999999999", -1, -1},
	}
	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"":              "inventory",
		"bills":         "bills",
		" Bills ":       "bills",
		"../../etc":     "etc",
		"part images!":  "partimages",
		"a_b-c9":        "a_b-c9",
		"日本":            "inventory",
		"UPPER/../case": "uppercase",
	}
	for in, want := range cases {
		if got := Slug(in, "inventory"); got != want {
			t.Errorf("Slug(%q) = %q; want %q", in, got, want)
		}
	}
}
