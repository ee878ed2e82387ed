package inflight

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAcquireAndRelease(t *testing.T) {
	g := NewGuard()

	release, err := g.Acquire("job:1")
	require.NoError(t, err)
	require.True(t, g.Busy("job:1"))

	release()
	require.False(t, g.Busy("job:1"))

	// The key is reusable after release.
	release2, err := g.Acquire("job:1")
	require.NoError(t, err)
	release2()
}

func TestSecondAcquireRejected(t *testing.T) {
	g := NewGuard()

	release, err := g.Acquire("job:1")
	require.NoError(t, err)
	defer release()

	_, err = g.Acquire("job:1")
	require.ErrorIs(t, err, ErrMutationInFlight)

	// A different key is unaffected.
	release2, err := g.Acquire("job:2")
	require.NoError(t, err)
	release2()
}

func TestReleaseIsIdempotent(t *testing.T) {
	g := NewGuard()

	release, err := g.Acquire("entry:9")
	require.NoError(t, err)
	release()
	release()
	require.False(t, g.Busy("entry:9"))
}

func TestConcurrentAcquireAdmitsExactlyOne(t *testing.T) {
	g := NewGuard()

	const workers = 32
	var wg sync.WaitGroup
	admitted := make(chan func(), workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if release, err := g.Acquire("house:7"); err == nil {
				admitted <- release
			}
		}()
	}
	wg.Wait()
	close(admitted)

	var releases []func()
	for r := range admitted {
		releases = append(releases, r)
	}
	require.Len(t, releases, 1)
	releases[0]()
	require.False(t, g.Busy("house:7"))
}
