// Package doc renders element documentation trees. Both writers implement
// eli.DocNode, so any Info can serialize itself into either format.
package doc

import (
	"strings"
	"unicode"

	"github.com/specialistvlad/eligo/internal/eli"
)

// WriteLibrary adds a "library" child to root describing every element lib
// has in the given catalogs.
func WriteLibrary(root eli.DocNode, lib string, catalogs []eli.Catalog) {
	node := root.AddChild("Library")
	node.SetAttribute("Name", lib)
	for _, c := range catalogs {
		for _, info := range c.Elements(lib) {
			info.Serialize(node.AddChild(c.Name()))
		}
	}
}

// snake converts an attribute or block name such as "EnableLevel" to the
// identifier form "enable_level".
func snake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
