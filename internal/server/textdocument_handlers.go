package server

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentDidOpen(
	context *glsp.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	_, err := s.docs.Open(params.TextDocument.URI, params.TextDocument.Text)
	if err != nil {
		log.Debugf("not tracking %s: %s", params.TextDocument.URI, err)
	}
	return nil
}

func (s *Server) textDocumentDidChange(
	context *glsp.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	if _, ok := s.docs.Get(params.TextDocument.URI); !ok {
		return nil
	}
	return s.docs.Change(params.TextDocument.URI, params.ContentChanges)
}

func (s *Server) textDocumentDidClose(
	context *glsp.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	s.docs.Close(params.TextDocument.URI)
	return nil
}
