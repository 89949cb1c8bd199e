// Package capture builds stack frames from an editor selection.
package capture

import (
	"bytes"
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"memorize/internal/highlight"
	"memorize/internal/stack"
)

// ErrEmptySelection is returned when the selection holds only whitespace.
var ErrEmptySelection = fmt.Errorf("nothing to memorize in selection")

// Frame captures the selection sel of text. An empty selection stands for
// the whole line it sits on.
func Frame(
	h *highlight.Highlighter,
	view stack.ViewRef,
	path string,
	text []byte,
	sel protocol.Range,
) (*stack.Frame, error) {
	start, end := OffsetAt(text, sel.Start), OffsetAt(text, sel.End)
	if start > end {
		start, end = end, start
	}
	if start == end {
		start, end = LineBounds(text, start)
	}

	if len(bytes.TrimSpace(text[start:end])) == 0 {
		return nil, ErrEmptySelection
	}

	code, err := h.HTML(path, text, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to render selection: %w", err)
	}

	line := int(PositionAt(text, start).Line) + 1
	return stack.NewFrame(view, path, code, stack.Position{Start: start, End: end}, line), nil
}
