package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCycleExecutesStagesInOrder(t *testing.T) {
	t.Parallel()

	ingest := &countingIngest{}
	enrich := &countingStage{}
	trend := &countingStage{}
	link := &countingStage{}

	s := NewScheduler(SchedulerDeps{
		Ingestor: ingest,
		Enricher: enrich,
		Trender:  trend,
		Linker:   link,
	})

	s.RunCycle(context.Background())

	assert.EqualValues(t, 1, ingest.runs.Load())
	assert.EqualValues(t, 1, enrich.runs.Load())
	assert.EqualValues(t, 1, trend.runs.Load())
	assert.EqualValues(t, 0, link.runs.Load(), "linker runs on its own interval, not in the cycle")

	s.RunLinker(context.Background())
	assert.EqualValues(t, 1, link.runs.Load())
}

func TestRunCycleSkipsWhileRunning(t *testing.T) {
	t.Parallel()

	ingest := &countingIngest{}
	ingest.started = make(chan struct{})
	ingest.release = make(chan struct{})

	s := NewScheduler(SchedulerDeps{Ingestor: ingest})

	done := make(chan struct{})
	go func() {
		s.RunCycle(context.Background())
		close(done)
	}()

	<-ingest.started

	// The first cycle is still inside the ingest stage: this call must
	// return immediately without running anything.
	s.RunCycle(context.Background())
	assert.EqualValues(t, 1, ingest.runs.Load())

	close(ingest.release)
	<-done
}

func TestSchedulerStartRunsOnceImmediately(t *testing.T) {
	t.Parallel()

	ingest := &countingIngest{}
	enrich := &countingStage{}
	trend := &countingStage{}
	link := &countingStage{}

	s := NewScheduler(SchedulerDeps{
		Ingestor:       ingest,
		Enricher:       enrich,
		Trender:        trend,
		Linker:         link,
		CycleInterval:  time.Hour,
		LinkerInterval: time.Hour,
	})

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()), "double start is a no-op")
	s.Stop()

	assert.EqualValues(t, 1, ingest.runs.Load())
	assert.EqualValues(t, 1, enrich.runs.Load())
	assert.EqualValues(t, 1, trend.runs.Load())
	assert.EqualValues(t, 1, link.runs.Load())
}

func TestSchedulerTicks(t *testing.T) {
	t.Parallel()

	ingest := &countingIngest{}

	s := NewScheduler(SchedulerDeps{
		Ingestor:       ingest,
		CycleInterval:  10 * time.Millisecond,
		LinkerInterval: time.Hour,
	})

	require.NoError(t, s.Start(context.Background()))
	time.Sleep(55 * time.Millisecond)
	s.Stop()

	assert.GreaterOrEqual(t, ingest.runs.Load(), int64(2), "startup run plus at least one tick")
}
