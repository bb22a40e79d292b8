package tui

import (
	"strings"
	"testing"
)

func TestVisibleLen(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"plain", 5},
		{"\x1b[31mred\x1b[0m", 3},
		{"\x1b[38;2;122;162;247mX\x1b[0m", 1},
		{"a\x1b[1mb\x1b[0mc", 3},
	}
	for _, tt := range tests {
		if got := visibleLen(tt.in); got != tt.want {
			t.Errorf("visibleLen(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSpliceLineAt(t *testing.T) {
	tests := []struct {
		name    string
		bg      string
		overlay string
		x       int
		want    string
	}{
		{"middle", "abcdefgh", "XY", 2, "abXYefgh"},
		{"at start", "abcdefgh", "XY", 0, "XYcdefgh"},
		{"past end pads", "ab", "XY", 4, "ab  XY"},
		{"overlay beyond end", "abc", "XYZ", 2, "abXYZ"},
		{"escapes preserved in prefix", "\x1b[31mab\x1b[0mcd", "XY", 2, "\x1b[31mabXY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := spliceLineAt(tt.bg, tt.overlay, tt.x); got != tt.want {
				t.Errorf("spliceLineAt(%q, %q, %d) = %q, want %q", tt.bg, tt.overlay, tt.x, got, tt.want)
			}
		})
	}
}

func TestOverlayAt(t *testing.T) {
	bg := strings.Join([]string{"0000", "1111", "2222"}, "\n")
	got := overlayAt(bg, "XX\nYY", 1, 1)
	want := strings.Join([]string{"0000", "1XX1", "2YY2"}, "\n")
	if got != want {
		t.Errorf("overlayAt:\n%q\nwant:\n%q", got, want)
	}

	// Rows outside the background are dropped, not appended.
	got = overlayAt(bg, "XX\nYY", 0, 2)
	want = strings.Join([]string{"0000", "1111", "XX22"}, "\n")
	if got != want {
		t.Errorf("overlayAt clipped:\n%q\nwant:\n%q", got, want)
	}
}
