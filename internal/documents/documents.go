package documents

import (
	"fmt"
	"net/url"
	"os"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"memorize/internal/capture"
)

// Document is a text buffer known to the server, either opened by the
// client or read from disk to serve a jump.
type Document struct {
	URI  protocol.DocumentUri
	Path string

	mu       sync.RWMutex
	text     []byte
	valid    bool
	detached bool
}

// IsValid reports whether the document still reflects a live buffer.
func (d *Document) IsValid() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.valid
}

// Detached reports whether the document was read from disk rather than
// opened by the client.
func (d *Document) Detached() bool {
	return d.detached
}

// Text returns a copy of the current content.
func (d *Document) Text() []byte {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]byte(nil), d.text...)
}

func (d *Document) invalidate() {
	d.mu.Lock()
	d.valid = false
	d.mu.Unlock()
}

// Manager tracks documents per URI.
type Manager struct {
	mu       sync.Mutex
	docs     map[protocol.DocumentUri]*Document
	detached map[string]*Document
}

func NewManager() *Manager {
	return &Manager{
		docs:     make(map[protocol.DocumentUri]*Document),
		detached: make(map[string]*Document),
	}
}

// Open registers a document opened by the client. A detached copy of the
// same file becomes invalid.
func (m *Manager) Open(uri protocol.DocumentUri, text string) (*Document, error) {
	path, err := URIToPath(uri)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.docs[uri]; ok {
		old.invalidate()
	}
	if d, ok := m.detached[path]; ok {
		d.invalidate()
		delete(m.detached, path)
	}

	doc := &Document{URI: uri, Path: path, text: []byte(text), valid: true}
	m.docs[uri] = doc
	return doc, nil
}

// Change applies content changes in order.
func (m *Manager) Change(uri protocol.DocumentUri, changes []any) error {
	m.mu.Lock()
	doc, ok := m.docs[uri]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("no document loaded for %s", uri)
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()

	for _, raw := range changes {
		switch change := raw.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			doc.text = []byte(change.Text)
		case protocol.TextDocumentContentChangeEvent:
			if change.Range == nil {
				doc.text = []byte(change.Text)
				continue
			}
			start := capture.OffsetAt(doc.text, change.Range.Start)
			end := capture.OffsetAt(doc.text, change.Range.End)
			if start > end {
				start, end = end, start
			}
			text := make([]byte, 0, len(doc.text)-(end-start)+len(change.Text))
			text = append(text, doc.text[:start]...)
			text = append(text, change.Text...)
			text = append(text, doc.text[end:]...)
			doc.text = text
		default:
			return fmt.Errorf("unexpected change event type %T", raw)
		}
	}
	return nil
}

// Close forgets a client document; frames holding it must re-resolve.
func (m *Manager) Close(uri protocol.DocumentUri) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if doc, ok := m.docs[uri]; ok {
		doc.invalidate()
		delete(m.docs, uri)
	}
}

func (m *Manager) Get(uri protocol.DocumentUri) (*Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[uri]
	return doc, ok
}

// Resolve returns the open document for path, or reads it from disk.
func (m *Manager) Resolve(path string) (*Document, error) {
	uri := PathToURI(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	if doc, ok := m.docs[uri]; ok {
		return doc, nil
	}
	if doc, ok := m.detached[path]; ok && doc.IsValid() {
		return doc, nil
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc := &Document{URI: uri, Path: path, text: text, valid: true, detached: true}
	m.detached[path] = doc
	return doc, nil
}

// CloseAll invalidates every document.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for uri, doc := range m.docs {
		doc.invalidate()
		delete(m.docs, uri)
	}
	for path, doc := range m.detached {
		doc.invalidate()
		delete(m.detached, path)
	}
}

func URIToPath(uri protocol.DocumentUri) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("failed to parse uri: %w", err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported uri scheme %q", u.Scheme)
	}
	return u.Path, nil
}

func PathToURI(path string) protocol.DocumentUri {
	u := url.URL{Scheme: "file", Path: path}
	return u.String()
}
