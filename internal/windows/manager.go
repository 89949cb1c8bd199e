package windows

import (
	"fmt"
	"sync"

	"github.com/tliron/commonlog"

	"memorize/internal/stack"
	"memorize/internal/store"
)

var log = commonlog.GetLogger("memorize.windows")

// Manager owns the stacks of one window and which of them is active.
type Manager struct {
	id    string
	store store.Store

	mu       sync.Mutex
	stacks   []*stack.CallStack
	stackIdx int
	shown    bool
	dirty    bool
}

// NewManager creates a manager and loads the window's persisted stacks.
// A window without saved state starts with one empty stack.
func NewManager(id string, st store.Store) (*Manager, error) {
	m := &Manager{id: id, store: st, stackIdx: -1}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) ID() string {
	return m.id
}

func (m *Manager) load() error {
	saved, err := m.store.Load(m.id)
	if err != nil {
		return fmt.Errorf("failed to load stacks of %s: %w", m.id, err)
	}
	for _, records := range saved {
		m.addStack(stack.FromRecords(records))
	}
	if len(m.stacks) == 0 {
		m.addStack(stack.NewCallStack())
	}
	log.Debugf("window %s: loaded %d stacks", m.id, len(saved))
	return nil
}

func (m *Manager) addStack(s *stack.CallStack) {
	m.stacks = append(m.stacks, s)
	m.stackIdx = len(m.stacks) - 1
}

// AddStack appends s and makes it active.
func (m *Manager) AddStack(s *stack.CallStack) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addStack(s)
	m.dirty = true
	return m.stackIdx
}

// NewStack appends an empty stack and makes it active.
func (m *Manager) NewStack() int {
	return m.AddStack(stack.NewCallStack())
}

// SelectStack activates the stack at idx, wrapping like CallStack.SetFrame.
func (m *Manager) SelectStack(idx int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case idx >= len(m.stacks):
		m.stackIdx = 0
	case idx < 0:
		m.stackIdx = len(m.stacks) - 1
	default:
		m.stackIdx = idx
	}
	m.dirty = true
	return m.stackIdx
}

func (m *Manager) StackCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stacks)
}

func (m *Manager) StackIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stackIdx
}

// Stack returns the active stack. Callers must go through the manager to
// mutate it.
func (m *Manager) Stack() *stack.CallStack {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stacks[m.stackIdx]
}

// AddFrame pushes frame on the active stack and saves.
func (m *Manager) AddFrame(frame *stack.Frame) (int, error) {
	m.mu.Lock()
	idx := m.stacks[m.stackIdx].AddFrame(frame)
	m.dirty = true
	m.mu.Unlock()
	return idx, m.Save()
}

func (m *Manager) NextFrame() *stack.Frame {
	return m.navigate(func(s *stack.CallStack) *stack.Frame { return s.NextFrame() })
}

func (m *Manager) PrevFrame() *stack.Frame {
	return m.navigate(func(s *stack.CallStack) *stack.Frame { return s.PrevFrame() })
}

// JumpToFrame moves the cursor of the active stack to idx.
func (m *Manager) JumpToFrame(idx int) *stack.Frame {
	return m.navigate(func(s *stack.CallStack) *stack.Frame { return s.SetFrame(idx) })
}

// CurrentFrame returns the frame under the active stack's cursor.
func (m *Manager) CurrentFrame() *stack.Frame {
	return m.navigate(func(s *stack.CallStack) *stack.Frame { return s.CurrentFrame() })
}

func (m *Manager) navigate(fn func(*stack.CallStack) *stack.Frame) *stack.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	frame := fn(m.stacks[m.stackIdx])
	m.dirty = true
	return frame
}

// DeleteFrame removes the frame at idx of the active stack and saves on
// success.
func (m *Manager) DeleteFrame(idx int) (bool, error) {
	return m.delete(func(s *stack.CallStack) bool { return s.DeleteFrame(idx) })
}

// DeleteCurrentFrame removes the active stack's current frame.
func (m *Manager) DeleteCurrentFrame() (bool, error) {
	return m.delete(func(s *stack.CallStack) bool { return s.DeleteCurrentFrame() })
}

func (m *Manager) delete(fn func(*stack.CallStack) bool) (bool, error) {
	m.mu.Lock()
	ok := fn(m.stacks[m.stackIdx])
	if ok {
		m.dirty = true
	}
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, m.Save()
}

// ClearStack empties the active stack, hides the panel and saves.
func (m *Manager) ClearStack() error {
	m.mu.Lock()
	m.stacks[m.stackIdx].Clear()
	m.shown = false
	m.dirty = true
	m.mu.Unlock()
	return m.Save()
}

// Save persists every non-empty stack.
func (m *Manager) Save() error {
	m.mu.Lock()
	stacks := make([][]stack.Record, 0, len(m.stacks))
	for _, s := range m.stacks {
		if records := s.ToRecords(); len(records) > 0 {
			stacks = append(stacks, records)
		}
	}
	m.mu.Unlock()

	if err := m.store.Save(m.id, stacks); err != nil {
		return fmt.Errorf("failed to save stacks of %s: %w", m.id, err)
	}
	return nil
}

// Show marks the panel visible.
func (m *Manager) Show() {
	m.mu.Lock()
	m.shown = true
	m.dirty = true
	m.mu.Unlock()
}

// Hide marks the panel hidden.
func (m *Manager) Hide() {
	m.mu.Lock()
	m.shown = false
	m.mu.Unlock()
}

func (m *Manager) Shown() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shown
}

// Render returns the panel for the active stack. changed is false when
// nothing happened since the last call.
func (m *Manager) Render() (content string, changed bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	changed = m.dirty
	m.dirty = false
	content, err = Render(m.stacks[m.stackIdx], m.stackIdx, len(m.stacks))
	return content, changed, err
}
