package stack

// Position is a pair of offsets into a source file.
type Position struct {
	Start int
	End   int
}

// ViewRef is a handle to a live editor view of a frame's source.
// The stack never owns or dereferences it.
type ViewRef interface {
	IsValid() bool
}

// Frame is a single bookmarked source location.
type Frame struct {
	Path  string
	Code  string
	Range Position
	Line  int

	view ViewRef
}

// Record is the persisted form of a Frame. Range is stored under "loc".
type Record struct {
	Path string `json:"path"`
	Code string `json:"code"`
	Loc  [2]int `json:"loc"`
	Line int    `json:"line"`
}

// NewFrame creates a frame. view may be nil.
func NewFrame(view ViewRef, path, code string, loc Position, line int) *Frame {
	return &Frame{
		Path:  path,
		Code:  code,
		Range: loc,
		Line:  line,
		view:  view,
	}
}

// View returns the transient view handle, or nil.
func (f *Frame) View() ViewRef {
	return f.view
}

// SetView replaces the transient view handle.
func (f *Frame) SetView(view ViewRef) {
	f.view = view
}

// HasLiveView reports whether the frame carries a view that is still usable.
func (f *Frame) HasLiveView() bool {
	return f.view != nil && f.view.IsValid()
}

func (f *Frame) ToRecord() Record {
	return Record{
		Path: f.Path,
		Code: f.Code,
		Loc:  [2]int{f.Range.Start, f.Range.End},
		Line: f.Line,
	}
}

// FromRecord rebuilds a frame from its record. Fields missing from the
// decoded record are zero, which are also the documented defaults.
func FromRecord(r Record) *Frame {
	return NewFrame(nil, r.Path, r.Code, Position{Start: r.Loc[0], End: r.Loc[1]}, r.Line)
}
