package testutil

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/owlsym/internal/ir"
)

// AssertGolden compares a symbol table, rendered as indented canonical
// JSON, against testdata/golden/{name}.golden in the calling package.
//
// To regenerate golden files, run:
//
//	go test ./internal/... -update
func AssertGolden(t *testing.T, name string, st *ir.SymbolTable) {
	t.Helper()

	data, err := st.Encode(true)
	if err != nil {
		t.Fatalf("encode symbol table: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
