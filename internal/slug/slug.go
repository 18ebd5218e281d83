// Package slug derives URL-safe identifiers from free-text titles.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Fallback prefixes per entity type, used when a title yields no slug
// characters at all.
const (
	PrefixPoem = "wiersz"
	PrefixSlam = "slam"
	PrefixTag  = "tag"
)

var (
	// Matches runs of anything outside the slug alphabet.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches multiple hyphens.
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Letters that NFKD cannot decompose to an ASCII base. Polish ł is the
// important one; the rest cover the odd borrowed title.
var foldTable = map[rune]string{
	'ł': "l", 'Ł': "L",
	'ß': "ss",
	'ø': "o", 'Ø': "O",
	'đ': "d", 'Đ': "D",
	'æ': "ae", 'Æ': "AE",
	'œ': "oe", 'Œ': "OE",
}

// Make converts a title to a lowercase hyphenated slug.
//
//	"Miłość i wojna"  → "milosc-i-wojna"
//	"Sen / Jawa"      → "sen-jawa"
//	"🎉🎉🎉"          → "" (callers use WithFallback)
//
// The result matches [a-z0-9-]* with no leading or trailing hyphen.
func Make(title string) string {
	s := transliterate(title)

	s = strings.ToLower(s)

	// Replace non-alphanumeric runs with single hyphens.
	s = nonAlphanumeric.ReplaceAllString(s, "-")

	// Collapse multiple hyphens.
	s = multipleHyphens.ReplaceAllString(s, "-")

	// Trim leading/trailing hyphens.
	return strings.Trim(s, "-")
}

// WithFallback is Make with a non-empty guarantee: if the title yields no
// slug characters, the result is "<prefix>-<unix-time>".
func WithFallback(title, prefix string) string {
	if s := Make(title); s != "" {
		return s
	}
	return prefix + "-" + strconv.FormatInt(time.Now().Unix(), 10)
}

// transliterate reduces text to ASCII on a best-effort basis: fold letters
// without an ASCII decomposition, then NFKD-decompose and drop everything
// outside ASCII (combining marks included).
func transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if folded, ok := foldTable[r]; ok {
			b.WriteString(folded)
			continue
		}
		b.WriteRune(r)
	}

	decomposed := norm.NFKD.String(b.String())

	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, decomposed)
}
