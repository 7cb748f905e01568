package specparser

import (
	"embed"
	"fmt"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
	tstypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

//go:embed queries/typescript/*.scm
var queryFS embed.FS

// tsxLanguage is used for every source file, TS or JS, TSX or JSX: the TSX
// dialect grammar is a superset that also parses plain JS/JSX well enough
// for specifier extraction, the same shortcut the pack's CEM project takes
// for "one dialect covers everything" parsing (queries.languages.tsx).
var tsxLanguage = ts.NewLanguage(tstypescript.LanguageTSX())

// parserPool recycles *ts.Parser instances instead of constructing a new one
// per file, mirroring queries.RetrieveTypeScriptParser/PutTypeScriptParser
// in the pack's CEM project.
var parserPool = sync.Pool{
	New: func() any {
		p := ts.NewParser()
		if err := p.SetLanguage(tsxLanguage); err != nil {
			panic(fmt.Sprintf("specparser: failed to set TSX language: %v", err))
		}
		return p
	},
}

func retrieveParser() *ts.Parser {
	return parserPool.Get().(*ts.Parser)
}

func releaseParser(p *ts.Parser) {
	parserPool.Put(p)
}

// specifierQuery is compiled once at package init and shared (read-only)
// across every QueryCursor — cursors, not queries, are per-call state in
// go-tree-sitter.
var specifierQuery = mustCompileQuery()

func mustCompileQuery() *ts.Query {
	src, err := queryFS.ReadFile("queries/typescript/specifiers.scm")
	if err != nil {
		panic(fmt.Sprintf("specparser: embedded query missing: %v", err))
	}
	q, qerr := ts.NewQuery(tsxLanguage, string(src))
	if qerr != nil {
		panic(fmt.Sprintf("specparser: embedded query failed to compile: %v", qerr))
	}
	return q
}
