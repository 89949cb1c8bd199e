package capture

import (
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// OffsetAt converts an LSP position (UTF-16 columns) into a byte offset.
// Positions past the end of a line clamp to the line end, positions past the
// last line clamp to the end of the text.
func OffsetAt(text []byte, pos protocol.Position) int {
	offset := 0
	for line := uint32(0); line < pos.Line; line++ {
		i := indexByte(text[offset:], '\n')
		if i < 0 {
			return len(text)
		}
		offset += i + 1
	}

	var units uint32
	for offset < len(text) && units < pos.Character {
		r, size := utf8.DecodeRune(text[offset:])
		if r == '\n' {
			break
		}
		units += uint32(utf16.RuneLen(r))
		offset += size
	}
	return offset
}

// PositionAt converts a byte offset into an LSP position.
func PositionAt(text []byte, offset int) protocol.Position {
	if offset > len(text) {
		offset = len(text)
	}
	if offset < 0 {
		offset = 0
	}

	var pos protocol.Position
	for i := 0; i < offset; {
		r, size := utf8.DecodeRune(text[i:])
		if r == '\n' {
			pos.Line++
			pos.Character = 0
		} else {
			pos.Character += uint32(utf16.RuneLen(r))
		}
		i += size
	}
	return pos
}

// LineBounds returns the byte range of the full line containing offset,
// including its trailing newline.
func LineBounds(text []byte, offset int) (int, int) {
	start := offset
	for start > 0 && text[start-1] != '\n' {
		start--
	}
	end := offset
	for end < len(text) && text[end] != '\n' {
		end++
	}
	if end < len(text) {
		end++
	}
	return start, end
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}
