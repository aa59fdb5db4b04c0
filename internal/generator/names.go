package generator

import (
	"go/token"
	"unicode"
	"unicode/utf8"
)

const (
	receiver  = "b"
	argument  = "v"
	buildName = "Build"
)

// Identifiers a generated Build body relies on. Slots double as local
// variable names there, so a slot may not shadow any of them.
var reservedLocals = map[string]struct{}{
	receiver: {}, argument: {}, "ok": {}, "missing": {}, "fmt": {}, "strings": {},
	"append": {}, "cap": {}, "clear": {}, "close": {}, "complex": {}, "copy": {}, "delete": {},
	"imag": {}, "len": {}, "make": {}, "max": {}, "min": {}, "new": {}, "panic": {},
	"print": {}, "println": {}, "real": {}, "recover": {},
	"any": {}, "bool": {}, "byte": {}, "comparable": {}, "complex64": {}, "complex128": {},
	"error": {}, "float32": {}, "float64": {}, "int": {}, "int8": {}, "int16": {}, "int32": {},
	"int64": {}, "rune": {}, "string": {}, "uint": {}, "uint8": {}, "uint16": {}, "uint32": {},
	"uint64": {}, "uintptr": {}, "true": {}, "false": {}, "iota": {}, "nil": {},
}

// ExportName upper-cases the first rune: tag → Tag.
func ExportName(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// lowerName lower-cases a leading initialism as a unit:
// Name → name, ID → id, IDs → ids, URLPath → urlPath.
func lowerName(s string) string {
	runes := []rune(s)
	upper := 0
	for upper < len(runes) && unicode.IsUpper(runes[upper]) {
		upper++
	}
	if upper == 0 {
		return s
	}
	plural := upper == len(runes)-1 && runes[upper] == 's'
	if upper > 1 && upper < len(runes) && !plural {
		upper--
	}
	for i := 0; i < upper; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// slotName is the unexported builder field (and Build local) for a field.
func slotName(field, target string) string {
	s := lowerName(field)
	_, reserved := reservedLocals[s]
	if reserved || token.IsKeyword(s) || s == target || s == lowerName(target) {
		s += "Value"
	}
	return s
}

func extractorName(field string) string {
	return "extract" + ExportName(field)
}
