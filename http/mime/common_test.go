package mime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComplies(t *testing.T) {
	require.True(t, Complies(JSON, "application/json"))
	require.True(t, Complies(JSON, "Application/JSON; charset=utf-8"))
	require.True(t, Complies(JSON, ""))
	require.False(t, Complies(JSON, "text/plain"))
}
