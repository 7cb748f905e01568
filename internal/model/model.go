// Package model holds the data types shared across the collector, resolver,
// parser and graph engine: the vocabulary described by the data model.
package model

import "fmt"

// SpecifierKind classifies how a module specifier was written in source.
type SpecifierKind int

const (
	// Static is a top-level `import ... from "s"` / `import "s"`, or a
	// `require("s")` call with a literal argument.
	Static SpecifierKind = iota
	// Dynamic is `import("s")` with a literal string argument.
	Dynamic
	// ReExport is `export * from "s"` or `export { x } from "s"`.
	ReExport
	// TypeOnly is `import type { ... } from "s"` / `export type ... from "s"`.
	TypeOnly
)

func (k SpecifierKind) String() string {
	switch k {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	case ReExport:
		return "re-export"
	case TypeOnly:
		return "type-only"
	default:
		return "unknown"
	}
}

// Specifier is one module reference extracted from a source file.
type Specifier struct {
	Raw      string
	Kind     SpecifierKind
	Referrer string // FileId of the file that contains this specifier
	Line     int    // 1-based
	Column   int    // 1-based
}

// TargetKind classifies how a specifier resolved.
type TargetKind int

const (
	// Internal means the specifier resolved to a project file.
	Internal TargetKind = iota
	// External means the specifier is a bare import into an installed package.
	External
	// Foreign means the specifier resolved to a non-code asset (css, svg, json, ...).
	Foreign
	// Unresolved means no candidate existed on disk.
	Unresolved
)

// ResolvedTarget is the outcome of running a Specifier through the Resolver.
type ResolvedTarget struct {
	Kind TargetKind

	// FileID is set when Kind == Internal.
	FileID string

	// PackageName is set when Kind == External, e.g. "lodash" or "@scope/pkg".
	PackageName string

	// ForeignPath/ForeignExt are set when Kind == Foreign.
	ForeignPath string
	ForeignExt  string

	// UnresolvedReason is set when Kind == Unresolved.
	UnresolvedReason string
}

func (t ResolvedTarget) String() string {
	switch t.Kind {
	case Internal:
		return fmt.Sprintf("internal(%s)", t.FileID)
	case External:
		return fmt.Sprintf("external(%s)", t.PackageName)
	case Foreign:
		return fmt.Sprintf("foreign(%s%s)", t.ForeignPath, t.ForeignExt)
	default:
		return fmt.Sprintf("unresolved(%s)", t.UnresolvedReason)
	}
}

// ParseState is the lifecycle of a ModuleCacheEntry. It transitions
// monotonically: NotStarted -> InProgress -> (Done | Failed).
type ParseState int

const (
	NotStarted ParseState = iota
	InProgress
	Done
	Failed
)

// Issue is a non-fatal problem recorded during analysis: a parse failure, an
// unreadable downstream file, an unresolved specifier, a foreign asset, or a
// plugin that declined to contribute. Issues never abort analysis.
type Issue struct {
	File   string
	Kind   string // "parse" | "io" | "unresolved" | "foreign" | "plugin"
	Detail string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Kind, i.File, i.Detail)
}
