// Package normalize cleans participant identifiers before they are used as
// storage keys or embedded in export file names
//
// Pipeline order for Participant
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFKC normalization
// 3 Remove format chars (zero widths, BOM)
// 4 Width fold fullwidth to ASCII
// 5 Collapse whitespace to single spaces and trim
//
// FileSafe additionally decomposes, strips combining marks and replaces
// every rune outside [A-Za-z0-9_-] with an underscore
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// NoID stands in for a blank participant id in file names
const NoID = "noid"

// pools of fresh transformer chains, a chain is not safe for concurrent use
var (
	idChain = sync.Pool{
		New: func() any {
			return transform.Chain(
				norm.NFKC,
				runes.Remove(runes.In(unicode.Cf)),
				width.Fold,
			)
		},
	}
	fileChain = sync.Pool{
		New: func() any {
			return transform.Chain(
				norm.NFKD,
				runes.Remove(runes.In(unicode.Mn)), // strip combining marks so é keeps its e
				runes.Remove(runes.In(unicode.Cf)),
				width.Fold,
			)
		},
	}
)

// Participant returns the canonical form of a participant id
// Case is preserved, P001 and p001 stay distinct
func Participant(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")
	return collapseSpaces(apply(&idChain, s))
}

// FileSafe maps a participant id onto [A-Za-z0-9_-]
// Blank input yields NoID
func FileSafe(s string) string {
	s = Participant(s)
	if s == "" {
		return NoID
	}
	s = apply(&fileChain, s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isWordRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func apply(pool *sync.Pool, s string) string {
	tr := pool.Get().(transform.Transformer)
	out, _, _ := transform.String(tr, s)
	tr.Reset()
	pool.Put(tr)
	return out
}

func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	}
	return false
}

// collapseSpaces converts whitespace runs to one ASCII space and trims the edges
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
