// Package lspsrv implements the ColloML language server: it runs
// driver.Check on every open/changed document and publishes the
// resulting diagnostics, and exposes driver.Program.Introspect as
// document symbols. Grounded on
// kanso-lang-kanso/internal/lsp/{handler,diagnostics}.go's
// content-map + glsp.Handler shape, adapted from a parser-only AST
// cache to a full Check result per document; see DESIGN.md.
package lspsrv

import (
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"colloml/internal/diag"
	"colloml/internal/driver"
	"colloml/internal/eval"
	"colloml/internal/hostenv"
)

// Handler implements the glsp.Handler callbacks the server wires up.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
	schema  *hostenv.Schema
}

// NewHandler builds a Handler that checks documents against schema (a
// possibly-empty host schema loaded from the --schema file at
// startup).
func NewHandler(schema *hostenv.Schema) *Handler {
	if schema == nil {
		schema = hostenv.NewSchema()
	}
	return &Handler{content: make(map[string]string), schema: schema}
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			DocumentSymbolProvider: true,
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	h.storeAndCheck(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	if full, ok := params.ContentChanges[len(params.ContentChanges)-1].(protocol.TextDocumentContentChangeEventWhole); ok {
		h.storeAndCheck(ctx, params.TextDocument.URI, full.Text)
	}
	return nil
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	h.mu.Lock()
	delete(h.content, path)
	h.mu.Unlock()
	return nil
}

func (h *Handler) TextDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	h.mu.RLock()
	source := h.content[path]
	h.mu.RUnlock()

	prog, _ := driver.CheckModule(source, h.schema, eval.DefaultOptions())
	if prog == nil {
		return []protocol.DocumentSymbol{}, nil
	}
	var out []protocol.DocumentSymbol
	for _, sym := range prog.Introspect() {
		out = append(out, protocol.DocumentSymbol{
			Name: sym.Module + "." + sym.Name,
			Kind: protocol.SymbolKindFunction,
			Range: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 0},
				End:   protocol.Position{Line: 0, Character: 0},
			},
			SelectionRange: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 0},
				End:   protocol.Position{Line: 0, Character: 0},
			},
		})
	}
	return out, nil
}

func (h *Handler) storeAndCheck(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	path, err := uriToPath(uri)
	if err != nil {
		return
	}
	h.mu.Lock()
	h.content[path] = text
	h.mu.Unlock()

	_, diags := driver.CheckModule(text, h.schema, eval.DefaultOptions())
	sendDiagnostics(ctx, uri, diags)
}

func sendDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, diags []diag.Diagnostic) {
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(d.Span.Start.Line - 1), Character: uint32(d.Span.Start.Column - 1)},
				End:   protocol.Position{Line: uint32(d.Span.End.Line - 1), Character: uint32(d.Span.End.Column - 1)},
			},
			Severity: ptrSeverity(severityOf(d.Level)),
			Source:   ptrString("colloml"),
			Message:  fmt.Sprintf("[%s] %s", d.Code, d.Message),
		})
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: out,
	})
}

func severityOf(l diag.Level) protocol.DiagnosticSeverity {
	switch l {
	case diag.Warning:
		return protocol.DiagnosticSeverityWarning
	case diag.Note:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityError
	}
}

func uriToPath(rawURI protocol.DocumentUri) (string, error) {
	u, err := url.Parse(string(rawURI))
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func ptrBool(b bool) *bool                                   { return &b }
func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }
func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity     { return &s }
func ptrString(s string) *string                              { return &s }
