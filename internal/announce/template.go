package announce

import (
	"fmt"
	"net/url"
	"strings"
)

// URL template placeholders recognized by ResolveURL.
const (
	placeholderVersion  = "__VERSION__"
	placeholderLanguage = "__LANGUAGE__"
)

// RuntimeContext carries the values substituted into the URL template.
type RuntimeContext struct {
	// Version is the host application's version string.
	Version string

	// Language is the user's preferred language tag (the first entry
	// of the host's ranked locale preference list).
	Language string
}

// ResolveURL substitutes the recognized placeholders into template and
// verifies the result parses as a URL. Substitution is literal text
// replacement, one pass per placeholder, never recursive. An empty
// template returns ErrNoTemplate before any substitution is attempted.
func ResolveURL(template string, rc RuntimeContext) (string, error) {
	if template == "" {
		return "", ErrNoTemplate
	}

	// A single simultaneous pass: substituted values are never rescanned,
	// so a version string containing __LANGUAGE__ stays literal.
	resolved := strings.NewReplacer(
		placeholderVersion, rc.Version,
		placeholderLanguage, rc.Language,
	).Replace(template)

	u, err := url.Parse(resolved)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, resolved)
	}

	return resolved, nil
}
