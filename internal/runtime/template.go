package runtime

import (
	"fmt"
	"strings"

	"github.com/aretw0/pageflow/pkg/domain"
)

// Placeholders resolves the recognized placeholder names of a page to their
// substitution values. Page defaults override catalog defaults; an empty page
// default inherits the catalog one.
func Placeholders(page domain.Page, uctx domain.UserContext, defaults map[string]string) map[string]string {
	values := make(map[string]string, len(defaults)+len(page.Placeholders))
	for name, def := range defaults {
		values[name] = def
	}
	for name, def := range page.Placeholders {
		if def != "" {
			values[name] = def
		} else if _, ok := values[name]; !ok {
			values[name] = ""
		}
	}
	for name := range values {
		if v, ok := uctx[name]; ok && v != nil {
			if s := fmt.Sprint(v); s != "" {
				values[name] = s
			}
		}
	}
	return values
}

// Substitute replaces every {name} token whose name is a key of values.
// Unknown tokens are kept verbatim and substituted text is never scanned again.
func Substitute(tmpl string, values map[string]string) string {
	if len(values) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}

	var b strings.Builder
	b.Grow(len(tmpl))
	rest := tmpl
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open+1:], '}')
		if end < 0 {
			b.WriteString(rest)
			break
		}
		name := rest[open+1 : open+1+end]
		val, known := values[name]
		if !known || !isIdent(name) {
			// Keep the brace and continue right after it so "{{name}" still finds "{name}".
			b.WriteString(rest[:open+1])
			rest = rest[open+1:]
			continue
		}
		b.WriteString(rest[:open])
		b.WriteString(val)
		rest = rest[open+end+2:]
	}
	return b.String()
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
