package http

import (
	"testing"

	"github.com/indigo-web/sparrow/http/method"
	"github.com/stretchr/testify/require"
)

func TestRequest(t *testing.T) {
	request := NewRequest(method.POST, "/items")
	request.Headers.Add("content-length", "2")
	request.WithBody("hi")

	value, found := request.Header("Content-Length")
	require.True(t, found)
	require.Equal(t, "2", value)
	require.True(t, request.HasBody)
	require.Equal(t, "hi", request.Body)
	require.NotNil(t, request.Query)
}
