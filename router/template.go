package router

import (
	"errors"
	"strings"
)

const (
	separator   = "/"
	markerOpen  = '{'
	markerClose = '}'
)

var (
	ErrEmptyTemplate   = errors.New("path template cannot be empty")
	ErrInvalidTemplate = errors.New("invalid template")
)

// template is a route path split into segments. Dynamic segments (path parameters) are
// stored with their name, static ones hold the literal.
type template struct {
	raw      string
	segments []segment
}

type segment struct {
	value   string
	dynamic bool
}

func parseTemplate(raw string) (template, error) {
	if len(raw) == 0 {
		return template{}, ErrEmptyTemplate
	}

	parts := strings.Split(raw, separator)
	tmpl := template{
		raw:      raw,
		segments: make([]segment, len(parts)),
	}

	for i, part := range parts {
		if len(part) == 0 || part[0] != markerOpen {
			tmpl.segments[i] = segment{value: part}
			continue
		}

		if len(part) < 3 || part[len(part)-1] != markerClose {
			return template{}, ErrInvalidTemplate
		}

		tmpl.segments[i] = segment{
			value:   part[1 : len(part)-1],
			dynamic: true,
		}
	}

	return tmpl, nil
}

// Match reports whether the path segments fit the template: both must consist of the
// same number of segments, and every static segment must be equal to the corresponding
// path segment. Dynamic ones match anything.
func (t template) Match(parts []string) bool {
	if len(parts) != len(t.segments) {
		return false
	}

	for i, seg := range t.segments {
		if !seg.dynamic && seg.value != parts[i] {
			return false
		}
	}

	return true
}

// Params zips dynamic segments with the corresponding path segments. The parts must
// match the template.
func (t template) Params(parts []string) map[string]string {
	params := make(map[string]string)

	for i, seg := range t.segments {
		if seg.dynamic {
			params[seg.value] = parts[i]
		}
	}

	return params
}

func splitPath(path string) []string {
	return strings.Split(path, separator)
}

// Match reports whether the path matches the route template. Malformed templates never
// match.
func Match(tmpl, path string) bool {
	t, err := parseTemplate(tmpl)
	return err == nil && t.Match(splitPath(path))
}

// PathParams extracts path parameters from the path according to the template. Nil is
// returned if the path doesn't match.
func PathParams(tmpl, path string) map[string]string {
	t, err := parseTemplate(tmpl)
	if err != nil {
		return nil
	}

	parts := splitPath(path)
	if !t.Match(parts) {
		return nil
	}

	return t.Params(parts)
}
