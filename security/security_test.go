package security

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/indigo-web/sparrow/http"
	"github.com/indigo-web/sparrow/http/method"
	"github.com/indigo-web/sparrow/http/status"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func requestWithAuth(value string) *http.Request {
	request := http.NewRequest(method.GET, "/rappel/1")
	request.Headers.Add("authorization", value)
	return request
}

func TestNone(t *testing.T) {
	require.NoError(t, None{}.Check(http.NewRequest(method.GET, "/")))
}

func TestBasic(t *testing.T) {
	accept := Basic{Validator: Static("toto", "tata")}

	t.Run("good credentials", func(t *testing.T) {
		require.NoError(t, accept.Check(requestWithAuth("Basic dG90bzp0YXRh")))
	})

	t.Run("validator receives decoded credentials", func(t *testing.T) {
		var gotUser, gotPass string
		basic := Basic{Validator: func(username, password string) bool {
			gotUser, gotPass = username, password
			return true
		}}

		require.NoError(t, basic.Check(requestWithAuth("Basic dG90bzp0YXRh")))
		require.Equal(t, "toto", gotUser)
		require.Equal(t, "tata", gotPass)
	})

	t.Run("bad credentials", func(t *testing.T) {
		err := accept.Check(requestWithAuth("Basic dG90bzp0YXR1YWE="))
		require.ErrorIs(t, err, ErrInvalidCredentials)
		require.Equal(t, status.Unauthorized, status.CodeOf(err))
		require.Equal(t, "invalid credentials", status.Detail(err))
	})

	t.Run("idempotent", func(t *testing.T) {
		for _, header := range []string{"Basic dG90bzp0YXRh", "Basic dG90bzp0YXR1YWE="} {
			request := requestWithAuth(header)
			first := accept.Check(request)
			second := accept.Check(request)
			require.Equal(t, first == nil, second == nil)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		err := accept.Check(http.NewRequest(method.GET, "/"))
		require.ErrorIs(t, err, ErrMissingHeader)
	})

	t.Run("wrong protocol", func(t *testing.T) {
		for _, header := range []string{"Bearer dG90bzp0YXRh", "basic dG90bzp0YXRh", "BASIC dG90bzp0YXRh"} {
			err := accept.Check(requestWithAuth(header))
			require.ErrorIs(t, err, ErrWrongProtocol, header)
			require.Equal(t, "wrong protocol", status.Detail(err))
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		for _, header := range []string{"Basic", "Basic a b", "dG90bzp0YXRh"} {
			err := accept.Check(requestWithAuth(header))
			require.ErrorIs(t, err, ErrMalformedHeader, header)
		}
	})

	t.Run("not a base64", func(t *testing.T) {
		err := accept.Check(requestWithAuth("Basic !!!!"))
		require.ErrorIs(t, err, status.ErrUnauthorized)
		var corrupted base64.CorruptInputError
		require.True(t, errors.As(err, &corrupted))
	})

	t.Run("not a utf-8", func(t *testing.T) {
		credentials := base64.URLEncoding.EncodeToString([]byte{0xff, 0xfe, ':', 'a'})
		err := accept.Check(requestWithAuth("Basic " + credentials))
		require.ErrorIs(t, err, status.ErrUnauthorized)
		require.ErrorIs(t, err, errNotUTF8)
	})

	t.Run("no colon means empty credentials", func(t *testing.T) {
		var called bool
		basic := Basic{Validator: func(username, password string) bool {
			called = true
			return len(username) == 0 && len(password) == 0
		}}

		credentials := base64.URLEncoding.EncodeToString([]byte("totototo"))
		require.NoError(t, basic.Check(requestWithAuth("Basic "+credentials)))
		require.True(t, called)
	})

	t.Run("unpadded and url-safe", func(t *testing.T) {
		basic := Basic{Validator: Static("a?>", "b")}
		credentials := base64.RawURLEncoding.EncodeToString([]byte("a?>:b"))
		require.NoError(t, basic.Check(requestWithAuth("Basic "+credentials)))
	})

	t.Run("nil validator rejects", func(t *testing.T) {
		require.ErrorIs(t, Basic{}.Check(requestWithAuth("Basic dG90bzp0YXRh")), ErrInvalidCredentials)
	})

	t.Run("challenge", func(t *testing.T) {
		require.Equal(t, `Basic realm="default"`, Basic{}.Challenge())
		require.Equal(t, `Basic realm="admin"`, Basic{Realm: "admin"}.Challenge())
	})

	t.Run("authorization round trip", func(t *testing.T) {
		require.Equal(t, "Basic dG90bzp0YXRh", Authorization("toto", "tata"))
		require.NoError(t, accept.Check(requestWithAuth(Authorization("toto", "tata"))))
	})
}

func TestValidators(t *testing.T) {
	t.Run("static", func(t *testing.T) {
		validator := Static("toto", "tata")
		require.True(t, validator("toto", "tata"))
		require.False(t, validator("toto", "tat"))
		require.False(t, validator("", ""))
	})

	t.Run("bcrypt", func(t *testing.T) {
		hash, err := bcrypt.GenerateFromPassword([]byte("tata"), bcrypt.MinCost)
		require.NoError(t, err)

		hashes := map[string][]byte{"toto": hash}
		validator := Bcrypt(hashes)
		delete(hashes, "toto")

		require.True(t, validator("toto", "tata"))
		require.False(t, validator("toto", "toto"))
		require.False(t, validator("titi", "tata"))
	})

	t.Run("any", func(t *testing.T) {
		validator := Any(Static("a", "1"), Static("b", "2"))
		require.True(t, validator("a", "1"))
		require.True(t, validator("b", "2"))
		require.False(t, validator("a", "2"))
		require.False(t, Any()("a", "1"))
	})
}
