package capture_test

import (
	"strings"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"memorize/internal/capture"
	"memorize/internal/highlight"
)

func pos(line, char uint32) protocol.Position {
	return protocol.Position{Line: line, Character: char}
}

func TestOffsetAt(t *testing.T) {
	text := []byte("ab\nüx\n😀y\nlast")
	tests := []struct {
		name string
		pos  protocol.Position
		want int
	}{
		{"origin", pos(0, 0), 0},
		{"first line end", pos(0, 2), 2},
		{"clamped to line end", pos(0, 9), 2},
		{"second line start", pos(1, 0), 3},
		{"after two byte rune", pos(1, 1), 5},
		{"after surrogate pair", pos(2, 2), 11},
		{"last line", pos(3, 4), 17},
		{"past last line", pos(9, 0), 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := capture.OffsetAt(text, tt.pos); got != tt.want {
				t.Errorf("OffsetAt(%v) = %d, want %d", tt.pos, got, tt.want)
			}
		})
	}
}

func TestPositionAt(t *testing.T) {
	text := []byte("ab\nüx\n😀y\nlast")
	tests := []struct {
		offset int
		want   protocol.Position
	}{
		{0, pos(0, 0)},
		{2, pos(0, 2)},
		{3, pos(1, 0)},
		{5, pos(1, 1)},
		{11, pos(2, 2)},
		{17, pos(3, 4)},
		{99, pos(3, 4)},
		{-4, pos(0, 0)},
	}
	for _, tt := range tests {
		if got := capture.PositionAt(text, tt.offset); got != tt.want {
			t.Errorf("PositionAt(%d) = %v, want %v", tt.offset, got, tt.want)
		}
	}
}

func TestLineBounds(t *testing.T) {
	text := []byte("one\ntwo\nthree")
	tests := []struct {
		offset     int
		start, end int
	}{
		{0, 0, 4},
		{5, 4, 8},
		{8, 8, 13},
		{13, 8, 13},
	}
	for _, tt := range tests {
		start, end := capture.LineBounds(text, tt.offset)
		if start != tt.start || end != tt.end {
			t.Errorf("LineBounds(%d) = (%d, %d), want (%d, %d)", tt.offset, start, end, tt.start, tt.end)
		}
	}
}

func TestFrame(t *testing.T) {
	h := highlight.New(1)
	defer h.Close()

	text := []byte("alpha\n  beta gamma\n\n")

	t.Run("selection", func(t *testing.T) {
		f, err := capture.Frame(h, nil, "/notes.txt", text, protocol.Range{Start: pos(1, 2), End: pos(1, 6)})
		if err != nil {
			t.Fatal(err)
		}
		if f.Code != "beta" || f.Line != 2 || f.Range.Start != 8 || f.Range.End != 12 {
			t.Errorf("unexpected frame %+v", f.ToRecord())
		}
		if f.Path != "/notes.txt" {
			t.Errorf("path = %q", f.Path)
		}
	})

	t.Run("reversed selection", func(t *testing.T) {
		f, err := capture.Frame(h, nil, "/notes.txt", text, protocol.Range{Start: pos(1, 6), End: pos(1, 2)})
		if err != nil {
			t.Fatal(err)
		}
		if f.Range.Start != 8 || f.Range.End != 12 {
			t.Errorf("unexpected range %+v", f.Range)
		}
	})

	t.Run("empty selection takes the line", func(t *testing.T) {
		f, err := capture.Frame(h, nil, "/notes.txt", text, protocol.Range{Start: pos(1, 4), End: pos(1, 4)})
		if err != nil {
			t.Fatal(err)
		}
		if f.Code != "  beta gamma\n" || f.Range.Start != 6 || f.Line != 2 {
			t.Errorf("unexpected frame %+v", f.ToRecord())
		}
	})

	t.Run("blank line", func(t *testing.T) {
		_, err := capture.Frame(h, nil, "/notes.txt", text, protocol.Range{Start: pos(2, 0), End: pos(2, 0)})
		if err != capture.ErrEmptySelection {
			t.Errorf("expected ErrEmptySelection, got %v", err)
		}
	})

	t.Run("go source is highlighted", func(t *testing.T) {
		src := []byte("package p\n\nfunc f() {}\n")
		f, err := capture.Frame(h, nil, "/p.go", src, protocol.Range{Start: pos(2, 0), End: pos(2, 0)})
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(f.Code, `<span class="keyword">func</span>`) || f.Line != 3 {
			t.Errorf("unexpected frame %+v", f.ToRecord())
		}
	})
}
