package factory

import "strings"

// ParseLoadName splits "library.element" at the first dot. A name without a
// dot names both the library and the element.
func ParseLoadName(name string) (lib, elem string) {
	lib, elem, found := strings.Cut(name, ".")
	if !found {
		return name, name
	}
	return lib, elem
}

// checkPort reports whether port matches the declared pattern def. A def of
// "*" matches every name. Elsewhere "%d" and "%(name)d" consume a run of
// digits, possibly empty. A malformed directive matches nothing.
func checkPort(def, port string) bool {
	if def == "*" {
		return true
	}
	for def != "" {
		if rest, ok, directive := digitsDirective(def); directive {
			if !ok {
				return false
			}
			def = rest
			port = strings.TrimLeftFunc(port, isDigit)
			continue
		}
		if port == "" || def[0] != port[0] {
			return false
		}
		def, port = def[1:], port[1:]
	}
	return port == ""
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// digitsDirective reports whether def starts with "%d" or "%(", and if so
// whether the directive is well formed and what follows it.
func digitsDirective(def string) (rest string, ok, directive bool) {
	switch {
	case strings.HasPrefix(def, "%d"):
		return def[2:], true, true
	case strings.HasPrefix(def, "%("):
		end := strings.IndexByte(def, ')')
		if end < 0 || end+1 >= len(def) || def[end+1] != 'd' {
			return "", false, true
		}
		return def[end+2:], true, true
	}
	return "", false, false
}
