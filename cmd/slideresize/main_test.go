package main

import (
	"testing"

	slideresize "github.com/VantageDataChat/SlideResize"
)

func TestParseGridUnit(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1/32", slideresize.Inch(1.0 / 32)},
		{"1/16", slideresize.Inch(1.0 / 16)},
		{"0.125", slideresize.Inch(0.125)},
		{"1", slideresize.Inch(1)},
		{" 1 / 8 ", slideresize.Inch(0.125)},
	}
	for _, tc := range cases {
		got, err := parseGridUnit(tc.in)
		if err != nil {
			t.Errorf("parseGridUnit(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseGridUnit(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseGridUnitRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "abc", "1/0", "-1/32", "0", "-0.5"} {
		if _, err := parseGridUnit(in); err == nil {
			t.Errorf("parseGridUnit(%q) accepted", in)
		}
	}
}
