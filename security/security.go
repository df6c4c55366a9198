// Package security implements per-route authentication policies. A policy is
// configured once per server and shared read-only by all the workers.
package security

import (
	"encoding/base64"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/indigo-web/sparrow/http"
	"github.com/indigo-web/sparrow/http/status"
)

const (
	authorizationHeader = "authorization"
	basicScheme         = "Basic"
	DefaultRealm        = "default"
)

var (
	ErrMissingHeader      = status.Unauthorized("missing authorization header")
	ErrMalformedHeader    = status.Unauthorized("malformed authorization header")
	ErrWrongProtocol      = status.Unauthorized("wrong protocol")
	ErrInvalidCredentials = status.Unauthorized("invalid credentials")

	errNotUTF8 = errors.New("credentials are not a valid UTF-8 text")
)

// Protocol is a closed set of authentication policies: None and Basic.
type Protocol interface {
	// Check returns nil if the request passes the policy, otherwise an error of
	// status.KindUnauthorized.
	Check(request *http.Request) error
	protocol()
}

// Challenger is implemented by protocols which advertise themselves to the client on
// failed authentication, via the WWW-Authenticate header.
type Challenger interface {
	Challenge() string
}

// Validator decides whether the credentials are valid. It must be safe for concurrent use.
type Validator func(username, password string) bool

// None lets every request in.
type None struct{}

func (None) Check(*http.Request) error {
	return nil
}

func (None) protocol() {}

// Basic is the HTTP Basic authentication scheme. The credentials are decoded using the
// URL-safe base64 alphabet, padding is optional.
type Basic struct {
	Validator Validator
	// Realm is advertised in the challenge. DefaultRealm is used if empty.
	Realm string
}

func (b Basic) Check(request *http.Request) error {
	value, found := request.Header(authorizationHeader)
	if !found {
		return ErrMissingHeader
	}

	scheme, credentials, ok := strings.Cut(value, " ")
	if !ok || strings.Contains(credentials, " ") {
		return ErrMalformedHeader
	}

	if scheme != basicScheme {
		return ErrWrongProtocol
	}

	username, password, err := decodeCredentials(credentials)
	if err != nil {
		return status.Wrap(status.KindUnauthorized, "malformed credentials", err)
	}

	if b.Validator == nil || !b.Validator(username, password) {
		return ErrInvalidCredentials
	}

	return nil
}

func (b Basic) Challenge() string {
	realm := b.Realm
	if len(realm) == 0 {
		realm = DefaultRealm
	}

	return basicScheme + ` realm="` + realm + `"`
}

func (Basic) protocol() {}

func decodeCredentials(encoded string) (username, password string, err error) {
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil {
		return "", "", err
	}

	if !utf8.Valid(decoded) {
		return "", "", errNotUTF8
	}

	username, password, found := strings.Cut(string(decoded), ":")
	if !found {
		return "", "", nil
	}

	return username, password, nil
}

// Authorization renders the Authorization header value for the credentials, the way
// Basic expects it.
func Authorization(username, password string) string {
	return basicScheme + " " + base64.URLEncoding.EncodeToString([]byte(username+":"+password))
}
