// Package report formats the Graph Engine's result into the external report
// structure from §6, in text (pterm) and JSON form.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// Mode selects which view of the reachable/unused computation a report
// expresses — both are produced from the same reachable set, never a second
// traversal (§10.6).
type Mode string

const (
	ModeUnused    Mode = "unused"
	ModeReachable Mode = "reachable"
)

// Unused is the report structure from §6.
type Unused struct {
	UnusedFiles []string `json:"unusedFiles"`
	TotalFiles  int      `json:"totalFiles"`
	UnusedCount int      `json:"unusedCount"`
}

// Reachable is the "reachability variant" from §6.
type Reachable struct {
	ReachableFiles []string `json:"reachableFiles"`
}

// WriteJSON encodes v (an Unused or Reachable report) as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteText prints u as a colored list, unused files in red, using pterm
// instead of raw ANSI escapes (§10.8).
func WriteText(w io.Writer, u Unused) {
	fmt.Fprintln(w, pterm.Bold.Sprint("=== Unused Files ==="))

	if u.UnusedCount == 0 {
		fmt.Fprintln(w, pterm.Green("✓ no unused files"))
		return
	}

	for _, f := range u.UnusedFiles {
		fmt.Fprintln(w, pterm.Red(f))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s / %d files unused\n", pterm.Red(fmt.Sprintf("%d", u.UnusedCount)), u.TotalFiles)
}

// WriteReachableText prints r as a plain gray list — the reachability
// variant has no risk coloring since every entry is, by definition, in good
// standing.
func WriteReachableText(w io.Writer, r Reachable) {
	fmt.Fprintln(w, pterm.Bold.Sprint("=== Reachable Files ==="))
	for _, f := range r.ReachableFiles {
		fmt.Fprintln(w, pterm.Gray(f))
	}
}
