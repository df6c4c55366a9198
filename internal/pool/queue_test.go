package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueue(t *testing.T) {
	t.Run("fifo", func(t *testing.T) {
		q := newQueue[int](2)
		for i := range 5 {
			q.Push(i)
		}

		require.Equal(t, 5, q.Len())
		for i := range 5 {
			require.Equal(t, i, q.Pop())
		}

		require.True(t, q.Empty())
	})

	t.Run("interleaved", func(t *testing.T) {
		q := newQueue[int](4)
		next, want := 0, 0

		for round := range 100 {
			for range round % 7 {
				q.Push(next)
				next++
			}

			for range round % 5 {
				if q.Empty() {
					break
				}

				require.Equal(t, want, q.Pop())
				want++
			}
		}

		for !q.Empty() {
			require.Equal(t, want, q.Pop())
			want++
		}

		require.Equal(t, next, want)
	})
}
