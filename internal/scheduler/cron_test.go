package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/amaumene/catalogr/internal/controllers"
	"github.com/amaumene/catalogr/internal/models"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu       sync.Mutex
	calls    []string
	finished []string
	block    chan struct{}
}

func (f *fakeRunner) Sources() []string {
	return []string{controllers.SourceMovies, controllers.SourceShows, "yts"}
}

func (f *fakeRunner) Run(ctx context.Context, source string) (controllers.RunStats, error) {
	f.mu.Lock()
	f.calls = append(f.calls, source)
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
		}
	}

	f.mu.Lock()
	f.finished = append(f.finished, source)
	f.mu.Unlock()
	return controllers.RunStats{Processed: 1}, nil
}

func (f *fakeRunner) callsFor(source string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == source {
			n++
		}
	}
	return n
}

func TestStart_RunsInitialTraktPass(t *testing.T) {
	logger, _ := test.NewNullLogger()
	runner := &fakeRunner{}
	s := NewScheduler(runner, logger)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return runner.callsFor(controllers.SourceMovies) == 1 && runner.callsFor(controllers.SourceShows) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, runner.callsFor("yts"))
	assert.Len(t, s.cron.Entries(), 3)
}

func TestTrigger(t *testing.T) {
	logger, _ := test.NewNullLogger()
	runner := &fakeRunner{}
	s := NewScheduler(runner, logger)
	defer s.Stop()

	require.NoError(t, s.Trigger("yts"))
	assert.Eventually(t, func() bool { return runner.callsFor("yts") == 1 }, 2*time.Second, 10*time.Millisecond)

	err := s.Trigger("piratebay")
	assert.ErrorIs(t, err, models.ErrUnknownSource)
}

func TestTrigger_SkipsWhileRunning(t *testing.T) {
	logger, _ := test.NewNullLogger()
	runner := &fakeRunner{block: make(chan struct{})}
	s := NewScheduler(runner, logger)
	defer s.Stop()

	require.NoError(t, s.Trigger("yts"))
	assert.Eventually(t, func() bool { return runner.callsFor("yts") == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Trigger("yts"))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, runner.callsFor("yts"))

	close(runner.block)
}

func TestStop_CancelsRunningJob(t *testing.T) {
	logger, _ := test.NewNullLogger()
	runner := &fakeRunner{block: make(chan struct{})}
	s := NewScheduler(runner, logger)

	require.NoError(t, s.Trigger(controllers.SourceShows))
	assert.Eventually(t, func() bool { return runner.callsFor(controllers.SourceShows) == 1 }, 2*time.Second, 10*time.Millisecond)

	s.Stop()
	assert.Error(t, s.ctx.Err())
	runner.mu.Lock()
	assert.Equal(t, []string{controllers.SourceShows}, runner.finished, "Stop waits for triggered runs")
	runner.mu.Unlock()
	assert.ErrorIs(t, s.Trigger(controllers.SourceMovies), ErrStopped)

	// jobs after stop do nothing
	s.runSource(controllers.SourceMovies)
	assert.Zero(t, runner.callsFor(controllers.SourceMovies))
}
