package server

import (
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"memorize/internal/config"
	"memorize/internal/documents"
	"memorize/internal/highlight"
	"memorize/internal/scheduler"
	"memorize/internal/store"
	"memorize/internal/windows"
)

const lsName = "memorize"

var (
	version = "0.1.0"
	log     = commonlog.GetLogger("memorize.server")
)

// defaultWindow identifies the window when the client sends no root.
const defaultWindow = "default"

type Server struct {
	base    config.Config
	handler *protocol.Handler

	mu          sync.Mutex
	config      config.Config
	window      string
	store       store.Store
	registry    *windows.Registry
	docs        *documents.Manager
	highlighter *highlight.Highlighter
	scheduler   *scheduler.Scheduler
	closed      bool
}

// New creates the language server state. base is overlaid with the client's
// initialization options on initialize.
func New(base config.Config) *Server {
	s := &Server{
		base: base,
		docs: documents.NewManager(),
	}
	s.handler = &protocol.Handler{
		Initialize:              s.initialize,
		Initialized:             s.initialized,
		Shutdown:                s.shutdown,
		Exit:                    s.exit,
		SetTrace:                s.setTrace,
		TextDocumentDidOpen:     s.textDocumentDidOpen,
		TextDocumentDidChange:   s.textDocumentDidChange,
		TextDocumentDidClose:    s.textDocumentDidClose,
		WorkspaceExecuteCommand: s.workspaceExecuteCommand,
	}
	return s
}

// NewServer wires a Server into a glsp server.
func NewServer(base config.Config) (*server.Server, error) {
	s := New(base)
	return server.NewServer(s.handler, lsName, false), nil
}

// Close saves every window and releases all resources. It is safe to call
// more than once.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.registry == nil {
		s.closed = true
		return nil
	}
	s.closed = true

	s.scheduler.StopScheduler()
	err := s.registry.Close()
	if cerr := s.store.Close(); err == nil {
		err = cerr
	}
	s.highlighter.Close()
	s.docs.CloseAll()
	return err
}

func (s *Server) showMessage(ctx *glsp.Context, kind protocol.MessageType, message string) {
	ctx.Notify("window/showMessage", protocol.ShowMessageParams{
		Type:    kind,
		Message: message,
	})
}
