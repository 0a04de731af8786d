package httpapi

import "testing"

func TestNormalizeBasePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"folio", "/folio"},
		{"/folio", "/folio"},
		{"/folio/", "/folio"},
		{" /folio// ", "/folio"},
	}
	for _, tc := range cases {
		if got := normalizeBasePath(tc.in); got != tc.want {
			t.Fatalf("normalizeBasePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBaseHref(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"folio", "/folio/"},
		{"/a/b/", "/a/b/"},
	}
	for _, tc := range cases {
		if got := baseHref(tc.in); got != tc.want {
			t.Fatalf("baseHref(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
