package main

import (
	"testing"

	"gitlab.com/lologarithm/rangewatch/refresh"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		st   refresh.ViewState
		want string
	}{
		{refresh.ViewState{Temperature: "72", Distance: "15", AlertText: "Object too close!", AlertVisible: true},
			"Temperature: 72 °F  Distance: 15 cm  !! Object too close! !!"},
		{refresh.ViewState{Temperature: "72", Distance: "40", AlertText: "Object too close!"},
			"Temperature: 72 °F  Distance: 40 cm"},
	}
	for _, tc := range cases {
		if got := format(tc.st); got != tc.want {
			t.Errorf("format = %q, want %q", got, tc.want)
		}
	}
}
