package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for content hashes. The version suffix allows the
// encoding to change without colliding with older hashes.
const (
	DomainExpression = "owlsym/expression/v1"
	DomainTable      = "owlsym/table/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data) as hex.
// The null byte keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// hashInput is the canonical JSON of v with every string and key in NFC,
// so values that differ only in Unicode composition hash alike. Keys that
// would collide after normalization keep their original form.
func hashInput(v Value) ([]byte, error) {
	return MarshalCanonical(nfc(v))
}

func nfc(v Value) Value {
	switch val := v.(type) {
	case Str:
		return Str(norm.NFC.String(string(val)))
	case Array:
		out := make(Array, len(val))
		for i, elem := range val {
			out[i] = nfc(elem)
		}
		return out
	case Object:
		forms := make(map[string]int, len(val))
		for k := range val {
			forms[norm.NFC.String(k)]++
		}
		out := make(Object, len(val))
		for k, elem := range val {
			nk := norm.NFC.String(k)
			if forms[nk] > 1 {
				nk = k
			}
			out[nk] = nfc(elem)
		}
		return out
	default:
		return v
	}
}

// ExpressionHash identifies an expression by content, up to Unicode
// composition of its strings.
func ExpressionHash(e Expression) (string, error) {
	canonical, err := hashInput(e.Record())
	if err != nil {
		return "", fmt.Errorf("ExpressionHash: %w", err)
	}
	return hashWithDomain(DomainExpression, canonical), nil
}

// TableHash identifies a whole symbol table by content. The index store
// uses it to make re-indexing the same extraction idempotent.
func TableHash(st *SymbolTable) (string, error) {
	canonical, err := hashInput(st.Record())
	if err != nil {
		return "", fmt.Errorf("TableHash: %w", err)
	}
	return hashWithDomain(DomainTable, canonical), nil
}
