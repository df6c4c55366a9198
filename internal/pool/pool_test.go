package pool

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestPool(t *testing.T) {
	t.Run("every task runs exactly once", func(t *testing.T) {
		const tasks = 1000
		p := New(5, WithLogger(discard))
		var runs [tasks]atomic.Int32

		for i := range tasks {
			require.NoError(t, p.Submit(func() {
				runs[i].Add(1)
			}))
		}

		p.Close()
		p.Wait()

		for i := range runs {
			require.Equal(t, int32(1), runs[i].Load(), "task %d", i)
		}

		require.Equal(t, Stats{Submitted: tasks, Completed: tasks}, p.Stats())
	})

	t.Run("fifo with a single worker", func(t *testing.T) {
		p := New(1, WithLogger(discard))
		var order []int

		for i := range 50 {
			require.NoError(t, p.Submit(func() {
				order = append(order, i)
			}))
		}

		p.Close()
		p.Wait()

		require.Len(t, order, 50)
		for i, got := range order {
			require.Equal(t, i, got)
		}
	})

	t.Run("submit after close", func(t *testing.T) {
		p := New(2, WithLogger(discard))
		p.Close()
		p.Close()
		require.ErrorIs(t, p.Submit(func() {}), ErrClosed)
		p.Wait()
		require.Zero(t, p.Stats().Submitted)
	})

	t.Run("queued tasks are drained on close", func(t *testing.T) {
		p := New(1, WithLogger(discard))
		release := make(chan struct{})
		var done atomic.Int32

		require.NoError(t, p.Submit(func() {
			<-release
			done.Add(1)
		}))
		for range 10 {
			require.NoError(t, p.Submit(func() {
				done.Add(1)
			}))
		}

		p.Close()
		close(release)
		p.Wait()
		require.Equal(t, int32(11), done.Load())
	})

	t.Run("panic does not kill the worker", func(t *testing.T) {
		p := New(1, WithLogger(discard))
		var ran atomic.Bool

		require.NoError(t, p.Submit(func() {
			panic("boom")
		}))
		require.NoError(t, p.Submit(func() {
			ran.Store(true)
		}))

		p.Close()
		p.Wait()

		require.True(t, ran.Load())
		require.Equal(t, Stats{Submitted: 2, Completed: 1, Panicked: 1}, p.Stats())
	})

	t.Run("workers run concurrently", func(t *testing.T) {
		const workers = 4
		p := New(workers, WithLogger(discard))
		var started sync.WaitGroup
		started.Add(workers)
		release := make(chan struct{})

		for range workers {
			require.NoError(t, p.Submit(func() {
				started.Done()
				<-release
			}))
		}

		waited := make(chan struct{})
		go func() {
			started.Wait()
			close(waited)
		}()

		select {
		case <-waited:
		case <-time.After(5 * time.Second):
			require.FailNow(t, "tasks were not run in parallel")
		}

		close(release)
		p.Close()
		p.Wait()
	})

	t.Run("non-positive size", func(t *testing.T) {
		p := New(0, WithLogger(discard))
		var ran atomic.Bool
		require.NoError(t, p.Submit(func() {
			ran.Store(true)
		}))
		p.Close()
		p.Wait()
		require.True(t, ran.Load())
	})
}

func BenchmarkPool(b *testing.B) {
	p := New(5, WithLogger(discard))
	var wg sync.WaitGroup
	task := func() {
		wg.Done()
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		wg.Add(1)
		_ = p.Submit(task)
	}

	wg.Wait()
	b.StopTimer()
	p.Close()
	p.Wait()
}
