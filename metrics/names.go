package metrics

import (
	"strings"
	"unicode"
)

// MetricName turns an arbitrary memoizer name into a valid Prometheus name
// component: snake_case ASCII letters, digits and single underscores, never starting
// with a digit. Type names such as "*pkg.UserLoader[int]" become "pkg_user_loader_int".
func MetricName(s string) string {
	out := toSnake(s)
	if out == "" {
		return ""
	}
	if unicode.IsDigit(rune(out[0])) {
		out = "_" + out
	}
	return out
}

func toSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	lastUnderscore := false
	underscore := func() {
		if !lastUnderscore && b.Len() > 0 {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}

	for i, r := range runes {
		switch {
		case r > unicode.MaxASCII:
			underscore()

		case unicode.IsUpper(r):
			if b.Len() > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || nextLower {
					underscore()
				}
			}
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false

		case unicode.IsLower(r):
			b.WriteRune(r)
			lastUnderscore = false

		case unicode.IsDigit(r):
			if b.Len() > 0 && !unicode.IsDigit(runes[i-1]) {
				underscore()
			}
			b.WriteRune(r)
			lastUnderscore = false

		default:
			underscore()
		}
	}

	return strings.Trim(b.String(), "_")
}
