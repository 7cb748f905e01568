package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteJSONUnused(t *testing.T) {
	var buf bytes.Buffer
	u := Unused{UnusedFiles: []string{"a.ts", "b.ts"}, TotalFiles: 5, UnusedCount: 2}
	require.NoError(t, WriteJSON(&buf, u))

	var decoded Unused
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, u, decoded)
}

func TestWriteTextNoUnusedFiles(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, Unused{TotalFiles: 3})
	require.Contains(t, buf.String(), "no unused files")
}

func TestWriteTextListsUnusedFiles(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, Unused{UnusedFiles: []string{"dead.ts"}, TotalFiles: 4, UnusedCount: 1})
	require.Contains(t, buf.String(), "dead.ts")
	require.Contains(t, buf.String(), "1")
}
