package server

import (
	"fmt"
	"os"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"memorize/internal/config"
	"memorize/internal/highlight"
	"memorize/internal/scheduler"
	"memorize/internal/store"
	"memorize/internal/windows"
)

func (s *Server) initialize(
	context *glsp.Context,
	params *protocol.InitializeParams,
) (any, error) {
	cfg, err := config.Load(s.base, params.InitializationOptions)
	if err != nil {
		return nil, fmt.Errorf("invalid initialization options: %w", err)
	}
	log.Infof("config: %+v", cfg)

	if err := os.MkdirAll(cfg.StateDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}

	window := defaultWindow
	if params.RootURI != nil && *params.RootURI != "" {
		window = *params.RootURI
	}

	registry := windows.NewRegistry(st)
	if _, err := registry.AddWindow(window); err != nil {
		st.Close()
		return nil, err
	}

	sched := scheduler.NewScheduler(16)
	sched.RunScheduler()
	sched.SchedulePeriodicTask(time.Duration(cfg.SaveInterval), scheduler.Task{
		Name:    "save stacks",
		Execute: registry.SaveAll,
	})

	s.mu.Lock()
	s.config = cfg
	s.window = window
	s.store = st
	s.registry = registry
	s.highlighter = highlight.New(cfg.HighlightPoolSize)
	s.scheduler = sched
	s.mu.Unlock()

	capabilities := s.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: commandNames(),
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(
	context *glsp.Context,
	params *protocol.InitializedParams,
) error {
	log.Infof("client initialized, window %s", s.window)
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	log.Info("shutting down")
	protocol.SetTraceValue(protocol.TraceValueOff)
	return s.Close()
}

func (s *Server) exit(context *glsp.Context) error {
	return s.Close()
}

func (s *Server) setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	log.Infof("trace set to: %s", params.Value)
	return nil
}
