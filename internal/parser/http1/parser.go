package http1

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/indigo-web/sparrow/http"
	"github.com/indigo-web/sparrow/http/method"
	"github.com/indigo-web/sparrow/http/status"
)

const crlf = "\r\n"

var (
	ErrBadEncoding     = status.BadRequest("request is not a valid UTF-8 text")
	ErrMissingVerb     = status.BadRequest("missing verb")
	ErrMissingResource = status.BadRequest("missing resource")
	ErrMissingProtocol = status.BadRequest("missing protocol")
	// ErrShortBody is returned when fewer bytes are available than the Content-Length
	// declares. Readers may use it as a hint to wait for more data.
	ErrShortBody = status.BadRequest("body is shorter than the declared content length")
)

// Parse builds a request out of the raw data. The data may be padded with trailing
// NUL bytes, as it's usually a fixed-size read buffer. The first failing step
// short-circuits the rest, so either a complete request or an error is returned.
func Parse(data []byte) (*http.Request, error) {
	data = bytes.TrimRight(data, "\x00")
	if !utf8.Valid(data) {
		return nil, ErrBadEncoding
	}

	startLine, rest, _ := strings.Cut(string(data), crlf)
	request, err := parseStartLine(startLine)
	if err != nil {
		return nil, err
	}

	body, hasSeparator := parseHeaders(request, rest)

	rawLength, found := request.Headers.Get("content-length")
	if !found {
		return request, nil
	}

	length, err := parseContentLength(rawLength)
	if err != nil {
		return nil, err
	}

	if !hasSeparator || len(body) < length {
		return nil, ErrShortBody
	}

	return request.WithBody(body[:length]), nil
}

func parseStartLine(line string) (*http.Request, error) {
	var tokens [3]string
	for i, token := range strings.SplitN(line, " ", len(tokens)+1) {
		if i == len(tokens) {
			break
		}

		tokens[i] = token
	}

	verb, resource, protocol := tokens[0], tokens[1], tokens[2]
	switch {
	case len(verb) == 0:
		return nil, ErrMissingVerb
	case len(resource) == 0:
		return nil, ErrMissingResource
	case len(protocol) == 0:
		return nil, ErrMissingProtocol
	}

	m := method.Parse(verb)
	if m == method.Unknown {
		return nil, status.BadRequest("unknown verb: " + verb)
	}

	path, rawQuery, _ := strings.Cut(resource, "?")
	request := http.NewRequest(m, path)
	request.Proto = protocol
	parseQuery(request.Query, rawQuery)

	return request, nil
}

// parseQuery fills the query with pairs. Pairs without = are stored with an empty
// value, empty pairs are skipped. The last duplicate wins.
func parseQuery(into http.Query, raw string) {
	for len(raw) > 0 {
		var pair string
		pair, raw, _ = strings.Cut(raw, "&")
		if len(pair) == 0 {
			continue
		}

		key, value, _ := strings.Cut(pair, "=")
		into[key] = value
	}
}

// parseHeaders consumes header lines until the first blank one. Lines without colon
// are skipped. The rest of the text after the blank line is returned as the body; if
// there was no blank line, hasSeparator is false.
func parseHeaders(request *http.Request, text string) (body string, hasSeparator bool) {
	for len(text) > 0 {
		var (
			line  string
			found bool
		)

		line, text, found = strings.Cut(text, crlf)
		if len(strings.TrimSpace(line)) == 0 {
			if !found {
				// the data ended with a line consisting of whitespaces only, without
				// the closing CRLF. That's not a complete separator
				return "", false
			}

			return text, true
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		request.Headers.Add(strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value))
	}

	return "", false
}

func parseContentLength(raw string) (int, error) {
	length, err := strconv.ParseUint(raw, 10, 31)
	if err != nil {
		return 0, status.BadRequest("content length " + strconv.Quote(raw) + " is not a valid integer")
	}

	return int(length), nil
}
