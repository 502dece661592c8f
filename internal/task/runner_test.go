package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/packtask/internal/errors"
	"github.com/opmodel/packtask/internal/testutil"
)

func group(tasks ...*Task) *Group {
	g := &Group{Name: "test", Tasks: Set{}}
	for _, t := range tasks {
		g.Tasks[t.Name] = t
	}
	return g
}

func TestRunner_Series(t *testing.T) {
	log := testutil.NewLogBuffer("run")
	r := NewRunner(log.Logger)

	var order []string
	require.NoError(t, r.Add(group(
		&Task{Name: "a", Fn: func(func()) error { order = append(order, "a"); return nil }},
		&Task{Name: "b", Async: true, Fn: func(done func()) error {
			go func() {
				time.Sleep(10 * time.Millisecond)
				order = append(order, "b")
				done()
			}()
			return nil
		}},
		&Task{Name: "c", Fn: func(func()) error { order = append(order, "c"); return nil }},
	)))

	require.NoError(t, r.Run(context.Background(), "a", "b", "c", "a"))
	assert.Equal(t, []string{"a", "b", "c", "a"}, order)
}

func TestRunner_UnknownTask(t *testing.T) {
	r := NewRunner(testutil.NewLogBuffer("run").Logger)
	ran := false
	require.NoError(t, r.Add(group(&Task{Name: "a", Fn: func(func()) error { ran = true; return nil }})))

	err := r.Run(context.Background(), "a", "missing")
	assert.ErrorIs(t, err, oerrors.ErrNotFound)
	assert.False(t, ran, "names are checked before anything runs")
}

func TestRunner_DuplicateNames(t *testing.T) {
	r := NewRunner(testutil.NewLogBuffer("run").Logger)
	require.NoError(t, r.Add(group(&Task{Name: "a"})))

	err := r.Add(group(&Task{Name: "a"}))
	assert.ErrorIs(t, err, oerrors.ErrValidation)
	assert.Len(t, r.Groups(), 1)
}

func TestRunner_TaskError(t *testing.T) {
	r := NewRunner(testutil.NewLogBuffer("run").Logger)
	ranAfter := false
	require.NoError(t, r.Add(group(
		&Task{Name: "bad", Fn: func(func()) error { return errors.New("boom") }},
		&Task{Name: "after", Fn: func(func()) error { ranAfter = true; return nil }},
	)))

	err := r.Run(context.Background(), "bad", "after")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.False(t, ranAfter)
}

func TestRunner_DoneTwiceWarns(t *testing.T) {
	log := testutil.NewLogBuffer("run")
	r := NewRunner(log.Logger)
	require.NoError(t, r.Add(group(&Task{Name: "twice", Async: true, Fn: func(done func()) error {
		done()
		done()
		return nil
	}})))

	require.NoError(t, r.Run(context.Background(), "twice"))
	assert.Equal(t, 1, log.Count("completed more than once"))
}

func TestRunner_InterruptRunsStopTask(t *testing.T) {
	log := testutil.NewLogBuffer("run")
	r := NewRunner(log.Logger, WithStopGrace(time.Second))

	var watchDone func()
	stopped := false
	require.NoError(t, r.Add(group(
		&Task{Name: "watch", Async: true, Stop: "unwatch", Fn: func(done func()) error {
			watchDone = done
			return nil
		}},
		&Task{Name: "unwatch", Fn: func(func()) error {
			stopped = true
			go watchDone()
			return nil
		}},
	)))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := r.Run(ctx, "watch")
	assert.ErrorIs(t, err, oerrors.ErrInterrupted)
	assert.True(t, stopped)
	assert.Equal(t, 1, log.Count("stopping watch"))
}

func TestRunner_InterruptGraceExpires(t *testing.T) {
	log := testutil.NewLogBuffer("run")
	r := NewRunner(log.Logger, WithStopGrace(10*time.Millisecond))
	require.NoError(t, r.Add(group(
		&Task{Name: "watch", Async: true, Stop: "unwatch", Fn: func(func()) error { return nil }},
		&Task{Name: "unwatch", Fn: func(func()) error { return nil }},
	)))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := r.Run(ctx, "watch")
	assert.ErrorIs(t, err, oerrors.ErrInterrupted)
	assert.Equal(t, 1, log.Count("did not finish"))
}

func TestRunner_CancelledBeforeStart(t *testing.T) {
	r := NewRunner(testutil.NewLogBuffer("run").Logger)
	ran := false
	require.NoError(t, r.Add(group(&Task{Name: "a", Fn: func(func()) error { ran = true; return nil }})))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := r.Run(ctx, "a")
	assert.ErrorIs(t, err, oerrors.ErrInterrupted)
	assert.False(t, ran)
}
