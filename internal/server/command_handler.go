package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"memorize/internal/capture"
	"memorize/internal/documents"
	"memorize/internal/scheduler"
	"memorize/internal/stack"
	"memorize/internal/windows"
)

var (
	// ErrUnknownCommand is returned for commands the server does not provide.
	ErrUnknownCommand = fmt.Errorf("unknown command")

	// ErrBadArguments is returned when command arguments cannot be decoded.
	ErrBadArguments = fmt.Errorf("bad arguments")

	// ErrNotInitialized is returned for commands received before initialize.
	ErrNotInitialized = fmt.Errorf("server not initialized")
)

type commandFunc func(s *Server, ctx *glsp.Context, wm *windows.Manager, args []any) (any, error)

var commands = map[string]commandFunc{
	"memorize.addFrame":    (*Server).addFrame,
	"memorize.showStack":   (*Server).showStack,
	"memorize.hideStack":   (*Server).hideStack,
	"memorize.clearStack":  (*Server).clearStack,
	"memorize.jumpToFrame": (*Server).jumpToFrame,
	"memorize.nextFrame":   (*Server).nextFrame,
	"memorize.prevFrame":   (*Server).prevFrame,
	"memorize.deleteFrame": (*Server).deleteFrame,
	"memorize.newStack":    (*Server).newStack,
	"memorize.selectStack": (*Server).selectStack,
	"memorize.listFrames":  (*Server).listFrames,
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Server) workspaceExecuteCommand(
	context *glsp.Context,
	params *protocol.ExecuteCommandParams,
) (any, error) {
	cmd, ok := commands[params.Command]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, params.Command)
	}

	s.mu.Lock()
	registry, window := s.registry, s.window
	s.mu.Unlock()
	if registry == nil {
		return nil, ErrNotInitialized
	}

	wm, err := registry.Find(window)
	if err != nil {
		s.showMessage(context, protocol.MessageTypeError, "Memorize: no window found")
		return nil, err
	}

	log.Debugf("command %s %v", params.Command, params.Arguments)
	return cmd(s, context, wm, params.Arguments)
}

// FrameList is the reply of memorize.listFrames.
type FrameList struct {
	Stack  int            `json:"stack"`
	Stacks int            `json:"stacks"`
	Index  int            `json:"index"`
	Frames []stack.Record `json:"frames"`
}

func (s *Server) addFrame(ctx *glsp.Context, wm *windows.Manager, args []any) (any, error) {
	var uri protocol.DocumentUri
	var sel protocol.Range
	if err := decodeArgs(args, &uri, &sel); err != nil {
		return nil, err
	}

	doc, ok := s.docs.Get(uri)
	if !ok {
		path, err := documents.URIToPath(uri)
		if err != nil {
			return nil, err
		}
		if doc, err = s.docs.Resolve(path); err != nil {
			return nil, err
		}
	}

	frame, err := capture.Frame(s.highlighter, doc, doc.Path, doc.Text(), sel)
	if errors.Is(err, capture.ErrEmptySelection) {
		s.showMessage(ctx, protocol.MessageTypeWarning, "Memorize: nothing selected")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	idx, err := wm.AddFrame(frame)
	if err != nil {
		log.Errorf("%s", err)
	}
	s.showMessage(ctx, protocol.MessageTypeInfo, fmt.Sprintf("memorized new frame: %d", idx))
	if _, err := s.showStack(ctx, wm, nil); err != nil {
		return idx, err
	}
	return idx, nil
}

func (s *Server) showStack(ctx *glsp.Context, wm *windows.Manager, args []any) (any, error) {
	wm.Show()
	if err := s.writePanel(wm); err != nil {
		return nil, err
	}
	ctx.Notify("window/showDocument", protocol.ShowDocumentParams{
		URI:      documents.PathToURI(s.config.PanelPath()),
		External: &protocol.True,
	})
	return nil, nil
}

func (s *Server) hideStack(ctx *glsp.Context, wm *windows.Manager, args []any) (any, error) {
	wm.Hide()
	return nil, nil
}

func (s *Server) clearStack(ctx *glsp.Context, wm *windows.Manager, args []any) (any, error) {
	if err := wm.ClearStack(); err != nil {
		return nil, err
	}
	s.showMessage(ctx, protocol.MessageTypeInfo, "Current stack cleared")
	return nil, nil
}

func (s *Server) jumpToFrame(ctx *glsp.Context, wm *windows.Manager, args []any) (any, error) {
	var idx int
	if err := decodeArgs(args, &idx); err != nil {
		return nil, err
	}
	s.showMessage(ctx, protocol.MessageTypeInfo, fmt.Sprintf("Jumping to frame: %d", idx))
	return s.showFrame(ctx, wm, wm.JumpToFrame(idx))
}

func (s *Server) nextFrame(ctx *glsp.Context, wm *windows.Manager, args []any) (any, error) {
	return s.showFrame(ctx, wm, wm.NextFrame())
}

func (s *Server) prevFrame(ctx *glsp.Context, wm *windows.Manager, args []any) (any, error) {
	return s.showFrame(ctx, wm, wm.PrevFrame())
}

// deleteFrame removes the frame at the optional index argument, or the
// current frame without one.
func (s *Server) deleteFrame(ctx *glsp.Context, wm *windows.Manager, args []any) (any, error) {
	var (
		ok  bool
		err error
		msg string
	)
	if len(args) == 0 || args[0] == nil {
		ok, err = wm.DeleteCurrentFrame()
		msg = "The stack is empty."
	} else {
		var idx int
		if err := decodeArgs(args, &idx); err != nil {
			return nil, err
		}
		ok, err = wm.DeleteFrame(idx)
		msg = fmt.Sprintf("Index `%d` does not exist in the stack.", idx)
	}
	if err != nil {
		return ok, err
	}
	if !ok {
		s.showMessage(ctx, protocol.MessageTypeWarning, msg)
		return false, nil
	}
	s.refreshPanel(wm)
	return true, nil
}

func (s *Server) newStack(ctx *glsp.Context, wm *windows.Manager, args []any) (any, error) {
	idx := wm.NewStack()
	s.refreshPanel(wm)
	return idx, nil
}

func (s *Server) selectStack(ctx *glsp.Context, wm *windows.Manager, args []any) (any, error) {
	var idx int
	if err := decodeArgs(args, &idx); err != nil {
		return nil, err
	}
	idx = wm.SelectStack(idx)
	s.refreshPanel(wm)
	return idx, nil
}

func (s *Server) listFrames(ctx *glsp.Context, wm *windows.Manager, args []any) (any, error) {
	cs := wm.Stack()
	return FrameList{
		Stack:  wm.StackIndex(),
		Stacks: wm.StackCount(),
		Index:  cs.Index(),
		Frames: cs.ToRecords(),
	}, nil
}

// showFrame brings frame's source into view, re-resolving the document when
// the frame lost it.
func (s *Server) showFrame(ctx *glsp.Context, wm *windows.Manager, frame *stack.Frame) (any, error) {
	if frame == nil {
		return nil, nil
	}

	if !frame.HasLiveView() {
		doc, err := s.docs.Resolve(frame.Path)
		if err != nil {
			s.showMessage(ctx, protocol.MessageTypeError, fmt.Sprintf("Memorize: cannot open %s", frame.Path))
			return nil, err
		}
		frame.SetView(doc)
	}
	doc, ok := frame.View().(*documents.Document)
	if !ok {
		return nil, fmt.Errorf("frame of %s has a foreign view %T", frame.Path, frame.View())
	}

	text := doc.Text()
	sel := protocol.Range{
		Start: capture.PositionAt(text, frame.Range.Start),
		End:   capture.PositionAt(text, frame.Range.End),
	}
	ctx.Notify("window/showDocument", protocol.ShowDocumentParams{
		URI:       doc.URI,
		TakeFocus: &protocol.True,
		Selection: &sel,
	})

	s.refreshPanel(wm)
	return sel, nil
}

// refreshPanel re-renders the panel off the request goroutine if it is shown.
func (s *Server) refreshPanel(wm *windows.Manager) {
	if !wm.Shown() {
		return
	}
	s.scheduler.ScheduleHighPriorityTask(scheduler.Task{
		Name:    "render panel",
		Execute: func() error { return s.writePanel(wm) },
	})
}

func (s *Server) writePanel(wm *windows.Manager) error {
	content, _, err := wm.Render()
	if err != nil {
		return fmt.Errorf("failed to render stack: %w", err)
	}
	path := s.config.PanelPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create panel directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write panel: %w", err)
	}
	return nil
}

// decodeArgs decodes positional command arguments into targets. Missing
// trailing arguments are an error.
func decodeArgs(args []any, targets ...any) error {
	if len(args) < len(targets) {
		return fmt.Errorf("%w: want %d arguments, got %d", ErrBadArguments, len(targets), len(args))
	}
	for i, target := range targets {
		data, err := json.Marshal(args[i])
		if err != nil {
			return fmt.Errorf("%w: argument %d: %v", ErrBadArguments, i, err)
		}
		if err := json.Unmarshal(data, target); err != nil {
			return fmt.Errorf("%w: argument %d: %v", ErrBadArguments, i, err)
		}
	}
	return nil
}
