// Package lspserver wires this repository's graph, merge, and lint
// components onto a github.com/tliron/glsp protocol.Handler. The LSP
// transport and JSON-RPC framing is glsp's own concern, handled as an
// external collaborator rather than reimplemented here.
package lspserver

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/Strum355/vscode-mc-shader/internal/diagnostics"
	"github.com/Strum355/vscode-mc-shader/internal/graph"
	"github.com/Strum355/vscode-mc-shader/internal/lint"
	"github.com/Strum355/vscode-mc-shader/internal/logging"
	"github.com/Strum355/vscode-mc-shader/internal/maintainer"
	"github.com/Strum355/vscode-mc-shader/internal/uri"
	"github.com/Strum355/vscode-mc-shader/internal/validator"
	"github.com/Strum355/vscode-mc-shader/internal/workspace"
)

const serverName = "mc-glsl-language-server"

var log = logging.For("lspserver")

// Server owns this binary's graph state and exposes it through the LSP
// protocol surface. It is not safe for concurrent use outside of glsp's
// own single-goroutine dispatch of notifications and requests.
type Server struct {
	store         *graph.Store
	maintainer    *maintainer.Maintainer
	orchestrator  *lint.Orchestrator
	workspaceRoot string

	glsp *glspserver.Server
}

// New constructs a Server backed by a fresh graph store and the given
// validator adapter, with its glsp server already built around the
// protocol.Handler; call RunStdio to serve it over stdio.
func New(validatorAdapter validator.Adapter) *Server {
	store := graph.NewStore()
	s := &Server{
		store:        store,
		maintainer:   nil, // bound to a root in Initialize, once the workspace path is known
		orchestrator: lint.New(store, validatorAdapter),
	}
	handler := s.handler()
	s.glsp = glspserver.NewServer(&handler, serverName, false)
	return s
}

// RunStdio runs the server over standard input/output until the client
// disconnects or sends shutdown+exit.
func (s *Server) RunStdio() error {
	return s.glsp.RunStdio()
}

// handler builds the protocol.Handler this server exposes. Every LSP
// request this server has no opinion on (completion, hover,
// signatureHelp, gotoDefinition, references, documentHighlight,
// documentSymbols, workspaceSymbols, codeAction, codeLens, the
// formatting family, rename) is deliberately left unset: glsp's
// dispatcher answers an unset method with a JSON-RPC MethodNotFound
// error on its own, which is the same "not available" response the
// original's exhaustive LanguageServerHandling impl gave each of those
// by hand.
func (s *Server) handler() protocol.Handler {
	return protocol.Handler{
		Initialize:               s.initialize,
		Initialized:              s.initialized,
		Shutdown:                 s.shutdown,
		TextDocumentDidOpen:      s.didOpen,
		TextDocumentDidSave:      s.didSave,
		TextDocumentDocumentLink: s.documentLink,
		WorkspaceExecuteCommand:  s.executeCommand,
	}
}

func (s *Server) initialize(glspCtx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	root := rootPath(params)
	s.workspaceRoot = root
	s.maintainer = maintainer.New(s.store, root)

	capabilities := protocol.ServerCapabilities{
		TextDocumentSync: protocol.TextDocumentSyncKindFull,
		DocumentLinkProvider: &protocol.DocumentLinkOptions{
			ResolveProvider: boolPtr(false),
		},
		ExecuteCommandProvider: &protocol.ExecuteCommandOptions{
			Commands: []string{CommandGraphDot, CommandVirtualMerge},
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name: serverName,
		},
	}, nil
}

func (s *Server) initialized(glspCtx *glsp.Context, params *protocol.InitializedParams) error {
	s.notifyStatus(glspCtx, statusLoading, "scanning workspace", iconLoading)

	seeded, err := s.seedWorkspace()
	if err != nil {
		log.Errorf("workspace scan failed: %v", err)
		s.notifyStatus(glspCtx, statusReady, "workspace scan failed", iconError)
		return nil
	}

	log.Infof("seeded graph with %d files", seeded)
	s.notifyStatus(glspCtx, statusReady, "ready", iconReady)
	return nil
}

// seedWorkspace performs the one-shot initial walk: every shader-relevant
// file under the workspace root is scanned into the graph before the
// server reports itself ready. Returns the number of files scanned.
func (s *Server) seedWorkspace() (int, error) {
	files, err := workspace.Discover(s.workspaceRoot)
	if err != nil {
		return 0, err
	}
	for _, f := range files {
		if _, err := s.maintainer.AddFile(f); err != nil {
			log.Warningf("scanning %s: %v", f, err)
		}
	}
	return len(files), nil
}

func (s *Server) shutdown(glspCtx *glsp.Context) error {
	return nil
}

func (s *Server) didOpen(glspCtx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return s.handleChangedDocument(glspCtx, params.TextDocument.URI)
}

func (s *Server) didSave(glspCtx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	return s.handleChangedDocument(glspCtx, params.TextDocument.URI)
}

func (s *Server) handleChangedDocument(glspCtx *glsp.Context, docURI string) error {
	result, ok := s.relintDocument(docURI)
	if !ok {
		return nil
	}
	for fileURI, ds := range result {
		glspCtx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         fileURI,
			Diagnostics: toProtocolDiagnostics(ds),
		})
	}
	return nil
}

// relintDocument re-scans and lints the file named by docURI, returning its
// fresh per-URI diagnostic map. The second result is false when the
// document was skipped (outside the workspace root, an unresolvable URI,
// or a scan/lint failure already logged) and no notification should be
// sent.
func (s *Server) relintDocument(docURI string) (map[string][]diagnostics.Diagnostic, bool) {
	path, err := uri.ToPath(docURI)
	if err != nil {
		log.Warningf("bad document URI %q: %v", docURI, err)
		return nil, false
	}
	if !s.withinWorkspace(path) {
		// Silently ignore documents outside the configured workspace root,
		// matching the original's path.starts_with(&self.root) guard.
		return nil, false
	}

	if _, ok := s.store.FindNode(path); !ok {
		if _, err := s.maintainer.AddFile(path); err != nil {
			log.Warningf("adding %s: %v", path, err)
			return nil, false
		}
	} else if err := s.maintainer.UpdateFile(path); err != nil {
		log.Warningf("updating %s: %v", path, err)
		return nil, false
	}

	result, err := s.orchestrator.Lint(context.Background(), path)
	if err != nil {
		log.Warningf("lint %s: %v", path, err)
		return nil, false
	}
	return result, true
}

func (s *Server) withinWorkspace(path string) bool {
	if s.workspaceRoot == "" {
		return true
	}
	rel, err := filepath.Rel(s.workspaceRoot, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (s *Server) documentLink(glspCtx *glsp.Context, params *protocol.DocumentLinkParams) ([]protocol.DocumentLink, error) {
	path, err := uri.ToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	id, ok := s.store.FindNode(path)
	if !ok {
		return nil, nil
	}

	var links []protocol.DocumentLink
	for _, cm := range s.store.ChildMeta(id) {
		target := uri.FromPath(cm.Path)
		links = append(links, protocol.DocumentLink{
			Range: protocol.Range{
				Start: protocol.Position{Line: protocol.UInteger(cm.Position.Line), Character: protocol.UInteger(cm.Position.StartCol)},
				End:   protocol.Position{Line: protocol.UInteger(cm.Position.Line), Character: protocol.UInteger(cm.Position.EndCol)},
			},
			Target: &target,
		})
	}
	return links, nil
}

// maxLineCharacter is the intentional over-range end column used so a
// diagnostic highlights the full origin line without the server needing to
// know its exact width.
const maxLineCharacter protocol.UInteger = 1000

func toProtocolDiagnostics(ds []diagnostics.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(ds))
	for _, d := range ds {
		sev := protocol.DiagnosticSeverity(d.Severity)
		source := d.Source
		line := protocol.UInteger(0)
		if d.Line > 0 {
			line = protocol.UInteger(d.Line)
		}
		out = append(out, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: 0},
				End:   protocol.Position{Line: line, Character: maxLineCharacter},
			},
			Severity: &sev,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return out
}

func rootPath(params *protocol.InitializeParams) string {
	if params.RootURI != nil {
		if p, err := uri.ToPath(*params.RootURI); err == nil {
			return p
		}
	}
	if params.RootPath != nil {
		return *params.RootPath
	}
	return ""
}

func boolPtr(b bool) *bool { return &b }
