package stack

// CallStack is an ordered list of frames with a single cursor.
// The cursor is -1 exactly when the stack is empty.
//
// A CallStack is not safe for concurrent use.
type CallStack struct {
	frames []*Frame
	idx    int
}

func NewCallStack() *CallStack {
	return &CallStack{idx: -1}
}

// FromRecords rehydrates a stack. The cursor ends on the last frame.
func FromRecords(records []Record) *CallStack {
	s := NewCallStack()
	for _, r := range records {
		s.AddFrame(FromRecord(r))
	}
	return s
}

// Index returns the cursor.
func (s *CallStack) Index() int {
	return s.idx
}

func (s *CallStack) Len() int {
	return len(s.frames)
}

// Frames returns the frames in order. The slice must not be modified.
func (s *CallStack) Frames() []*Frame {
	return s.frames
}

// CurrentFrame returns the frame under the cursor, or nil.
func (s *CallStack) CurrentFrame() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[s.idx]
}

// AddFrame appends a frame and moves the cursor onto it.
func (s *CallStack) AddFrame(frame *Frame) int {
	s.frames = append(s.frames, frame)
	s.SetFrame(len(s.frames) - 1)
	return s.idx
}

// SetFrame moves the cursor to idx and returns the frame there.
// Indexes past the end wrap to the first frame, negative ones to the last.
func (s *CallStack) SetFrame(idx int) *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	switch {
	case idx >= len(s.frames):
		s.idx = 0
	case idx < 0:
		s.idx = len(s.frames) - 1
	default:
		s.idx = idx
	}
	return s.frames[s.idx]
}

func (s *CallStack) NextFrame() *Frame {
	return s.SetFrame(s.idx + 1)
}

func (s *CallStack) PrevFrame() *Frame {
	return s.SetFrame(s.idx - 1)
}

// DeleteCurrentFrame removes the frame under the cursor.
// It returns false if the stack is empty.
func (s *CallStack) DeleteCurrentFrame() bool {
	if len(s.frames) == 0 {
		return false
	}
	return s.DeleteFrame(s.idx)
}

// DeleteFrame removes the frame at idx, returning false if idx is out of
// range. If the cursor no longer points into the shortened stack it moves
// to the new last frame; otherwise it keeps its index.
func (s *CallStack) DeleteFrame(idx int) bool {
	if !s.isValidIndex(idx) {
		return false
	}

	s.frames = append(s.frames[:idx], s.frames[idx+1:]...)

	if len(s.frames) == 0 {
		s.idx = -1
	} else if !s.isValidIndex(s.idx) {
		s.idx = len(s.frames) - 1
	}
	return true
}

// Clear drops all frames.
func (s *CallStack) Clear() {
	s.frames = nil
	s.idx = -1
}

func (s *CallStack) ToRecords() []Record {
	records := make([]Record, 0, len(s.frames))
	for _, f := range s.frames {
		records = append(records, f.ToRecord())
	}
	return records
}

func (s *CallStack) isValidIndex(idx int) bool {
	return idx >= 0 && idx < len(s.frames)
}
