// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"colloml/internal/hostenv"
	"colloml/internal/lspsrv"
)

const lsName = "colloml"

var version = "0.0.1"

func main() {
	schemaPath := flag.String("schema", "", "host schema YAML file")
	flag.Parse()

	commonlog.Configure(1, nil)

	schema, err := loadSchema(*schemaPath)
	if err != nil {
		log.Println("colloml-lsp: loading schema:", err)
		os.Exit(1)
	}

	h := lspsrv.NewHandler(schema)
	handler := protocol.Handler{
		Initialize:              h.Initialize,
		Initialized:             h.Initialized,
		Shutdown:                h.Shutdown,
		TextDocumentDidOpen:     h.TextDocumentDidOpen,
		TextDocumentDidChange:   h.TextDocumentDidChange,
		TextDocumentDidClose:    h.TextDocumentDidClose,
		TextDocumentDocumentSymbol: h.TextDocumentDocumentSymbol,
	}

	s := server.NewServer(&handler, lsName, false)
	log.Println("Starting colloml LSP server...")
	if err := s.RunStdio(); err != nil {
		log.Println("Error starting colloml LSP server:", err)
		os.Exit(1)
	}
}

func loadSchema(path string) (*hostenv.Schema, error) {
	if path == "" {
		return hostenv.NewSchema(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := hostenv.LoadConfig(raw)
	if err != nil {
		return nil, err
	}
	return cfg.Schema()
}
