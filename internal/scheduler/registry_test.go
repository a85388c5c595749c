// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/omenu/internal/testutil"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(testutil.TestLogger(), time.Second)
}

func TestRegistry_Register(t *testing.T) {
	r := newTestRegistry(t)
	noop := func(context.Context) error { return nil }

	require.NoError(t, r.Register("b", "second", "@hourly", noop))
	require.NoError(t, r.Register("a", "first", "*/5 * * * *", noop))

	assert.Error(t, r.Register("a", "dup", "@hourly", noop), "duplicate name")
	assert.Error(t, r.Register("c", "bad", "not a schedule", noop), "invalid schedule")

	jobs := r.List()
	require.Len(t, jobs, 2)
	assert.Equal(t, "a", jobs[0].Name)
	assert.Equal(t, "first", jobs[0].Description)
	assert.Equal(t, "*/5 * * * *", jobs[0].Schedule)
	assert.False(t, jobs[0].IsOverridden)
}

func TestRegistry_TriggerNow(t *testing.T) {
	r := newTestRegistry(t)

	calls := 0
	var deadline bool
	require.NoError(t, r.Register("count", "", "@daily", func(ctx context.Context) error {
		calls++
		_, deadline = ctx.Deadline()
		return nil
	}))
	boom := errors.New("boom")
	require.NoError(t, r.Register("fail", "", "@daily", func(context.Context) error { return boom }))

	require.NoError(t, r.TriggerNow(context.Background(), "count"))
	assert.Equal(t, 1, calls)
	assert.True(t, deadline, "job context should carry the registry timeout")

	err := r.TriggerNow(context.Background(), "fail")
	assert.ErrorIs(t, err, boom)
	for _, j := range r.List() {
		if j.Name == "fail" {
			assert.Equal(t, "boom", j.LastError)
		}
	}

	err = r.TriggerNow(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestRegistry_UpdateSchedule(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register("job", "", "@hourly", func(context.Context) error { return nil }))

	require.NoError(t, r.UpdateSchedule("job", "0 4 * * *"))
	jobs := r.List()
	require.Len(t, jobs, 1)
	assert.Equal(t, "0 4 * * *", jobs[0].Schedule)
	assert.Equal(t, "@hourly", jobs[0].DefaultSchedule)
	assert.True(t, jobs[0].IsOverridden)

	assert.Error(t, r.UpdateSchedule("job", "bogus"))
	assert.Equal(t, "0 4 * * *", r.List()[0].Schedule)

	assert.ErrorIs(t, r.UpdateSchedule("missing", "@hourly"), ErrJobNotFound)
}

func TestRegistry_RunsOnSchedule(t *testing.T) {
	r := newTestRegistry(t)

	done := make(chan struct{}, 1)
	require.NoError(t, r.Register("tick", "", "@every 1s", func(context.Context) error {
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	}))
	r.Start()
	defer r.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}
}
