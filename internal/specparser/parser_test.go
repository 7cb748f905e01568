package specparser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/1homsi/unusedjs/internal/model"
)

func TestParseStaticImport(t *testing.T) {
	specs, err := Parse("a.ts", []byte(`import { b } from "./b";`))
	require.NoError(t, err)
	require.Len(t, specs, 1)
	require.Equal(t, "./b", specs[0].Raw)
	require.Equal(t, model.Static, specs[0].Kind)
}

func TestParseTypeOnlyImport(t *testing.T) {
	specs, err := Parse("a.ts", []byte(`import type { B } from "./b";`))
	require.NoError(t, err)
	require.Len(t, specs, 1)
	require.Equal(t, model.TypeOnly, specs[0].Kind)
}

func TestParseReExportStar(t *testing.T) {
	specs, err := Parse("a.ts", []byte(`export * from "./barrel";`))
	require.NoError(t, err)
	require.Len(t, specs, 1)
	require.Equal(t, model.ReExport, specs[0].Kind)
}

func TestParseExportTypeOnly(t *testing.T) {
	specs, err := Parse("a.ts", []byte(`export type { B } from "./b";`))
	require.NoError(t, err)
	require.Len(t, specs, 1)
	require.Equal(t, model.TypeOnly, specs[0].Kind)
}

func TestParseDynamicImportLiteral(t *testing.T) {
	specs, err := Parse("a.ts", []byte(`const m = import("./lazy");`))
	require.NoError(t, err)
	require.Len(t, specs, 1)
	require.Equal(t, "./lazy", specs[0].Raw)
	require.Equal(t, model.Dynamic, specs[0].Kind)
}

func TestParseDynamicImportNonLiteralIgnored(t *testing.T) {
	specs, err := Parse("a.ts", []byte("const m = import(`./${name}`);"))
	require.NoError(t, err)
	require.Len(t, specs, 0)
}

func TestParseRequire(t *testing.T) {
	specs, err := Parse("a.ts", []byte(`const b = require("./b");`))
	require.NoError(t, err)
	require.Len(t, specs, 1)
	require.Equal(t, model.Static, specs[0].Kind)
}

func TestParseNoSpecifiers(t *testing.T) {
	specs, err := Parse("a.ts", []byte(`export const x = 1;`))
	require.NoError(t, err)
	require.Len(t, specs, 0)
}

func TestParseMultipleSpecifiersInOneFile(t *testing.T) {
	src := `
import a from "./a";
import("./lazy");
export * from "./barrel";
const c = require("./c");
`
	specs, err := Parse("index.ts", []byte(src))
	require.NoError(t, err)
	require.Len(t, specs, 4)
}
