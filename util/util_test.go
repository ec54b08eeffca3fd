package util

import "testing"

func TestPtr_Copies(t *testing.T) {
	v := 2
	p := Ptr(v)
	v = 3
	if *p != 2 {
		t.Errorf("expected *p=2 after changing source, got %d", *p)
	}
	if Ptr(2) == Ptr(2) {
		t.Error("expected distinct pointers per call")
	}
}

func TestCoalesce(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"first set", []string{"reducekit", "fallback"}, "reducekit"},
		{"skips empty", []string{"", "", "v1.2.0"}, "v1.2.0"},
		{"all empty", []string{"", ""}, ""},
		{"none", nil, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Coalesce(tc.values...); got != tc.want {
				t.Errorf("Coalesce(%q) = %q, want %q", tc.values, got, tc.want)
			}
		})
	}
	if got := Coalesce(0, 0, 42); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}
