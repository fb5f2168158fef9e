package compiler

import (
	"strings"
	"unicode"
)

// safeNames maps the characters Ruby allows in method names, but Java does
// not allow in identifiers, to their spelled-out forms.
var safeNames = map[rune]string{
	'+': "$plus",
	'-': "$minus",
	'*': "$times",
	'/': "$div",
	'<': "$less",
	'>': "$greater",
	'=': "$equal",
	'&': "$tilde",
	'!': "$bang",
	'%': "$percent",
	'^': "$up",
	'?': "$qmark",
	'|': "$bar",
	'[': "$lbrack",
	']': "$rbrack",
}

// SafeName turns a Ruby method name into a Java identifier. Characters
// without a spelled-out form are kept as is.
//
// SafeName must be applied to a name at most once.
func SafeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if safe, ok := safeNames[r]; ok {
			b.WriteString(safe)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsIdentifier reports whether name is usable as a Java identifier. Keywords
// are not checked.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
