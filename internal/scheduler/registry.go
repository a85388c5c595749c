// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrJobNotFound is returned for names that were never registered.
var ErrJobNotFound = errors.New("job not found")

// JobFunc is the body of a scheduled job.
type JobFunc func(ctx context.Context) error

// registeredJob holds a job and its cron entry.
type registeredJob struct {
	name            string
	description     string
	defaultSchedule string
	schedule        string
	entryID         cron.EntryID
	run             JobFunc
	lastErr         error
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DefaultSchedule string    `json:"default_schedule"`
	Schedule        string    `json:"schedule"`
	IsOverridden    bool      `json:"is_overridden"`
	LastRun         time.Time `json:"last_run,omitzero"`
	NextRun         time.Time `json:"next_run,omitzero"`
	LastError       string    `json:"last_error,omitempty"`
}

// Registry runs named jobs on one cron instance.
type Registry struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration

	mu   sync.RWMutex
	jobs map[string]*registeredJob
}

// NewRegistry creates a registry. Each run gets a context bounded by
// timeout.
func NewRegistry(logger *slog.Logger, timeout time.Duration) *Registry {
	return &Registry{
		cron:    cron.New(cron.WithParser(parser)),
		logger:  logger,
		timeout: timeout,
		jobs:    make(map[string]*registeredJob),
	}
}

// Register adds a job under name with the given schedule.
func (r *Registry) Register(name, description, schedule string, run JobFunc) error {
	if err := ValidateSchedule(schedule); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[name]; ok {
		return fmt.Errorf("job %s already registered", name)
	}
	job := &registeredJob{
		name:            name,
		description:     description,
		defaultSchedule: schedule,
		schedule:        schedule,
		run:             run,
	}
	id, err := r.cron.AddFunc(schedule, func() { _ = r.execute(context.Background(), job) })
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", name, err)
	}
	job.entryID = id
	r.jobs[name] = job

	r.logger.Debug("registered scheduled job", "name", name, "schedule", schedule)
	return nil
}

// execute runs one job and records the outcome.
func (r *Registry) execute(ctx context.Context, job *registeredJob) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	err := job.run(ctx)
	elapsed := time.Since(start)

	r.mu.Lock()
	job.lastErr = err
	r.mu.Unlock()

	if err != nil {
		r.logger.Error("scheduled job failed", "job", job.name, "duration", elapsed, "error", err)
		return err
	}
	r.logger.Debug("scheduled job finished", "job", job.name, "duration", elapsed)
	return nil
}

// List returns all registered jobs sorted by name.
func (r *Registry) List() []JobInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]JobInfo, 0, len(r.jobs))
	for _, job := range r.jobs {
		entry := r.cron.Entry(job.entryID)
		info := JobInfo{
			Name:            job.name,
			Description:     job.description,
			DefaultSchedule: job.defaultSchedule,
			Schedule:        job.schedule,
			IsOverridden:    job.schedule != job.defaultSchedule,
			LastRun:         entry.Prev,
			NextRun:         entry.Next,
		}
		if job.lastErr != nil {
			info.LastError = job.lastErr.Error()
		}
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// TriggerNow runs a job immediately on the caller's goroutine.
func (r *Registry) TriggerNow(ctx context.Context, name string) error {
	r.mu.RLock()
	job, ok := r.jobs[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	r.logger.Info("manually triggering job", "name", name)
	return r.execute(ctx, job)
}

// UpdateSchedule moves a job to a new schedule. The old entry stays when
// the new one cannot be added.
func (r *Registry) UpdateSchedule(name, schedule string) error {
	if err := ValidateSchedule(schedule); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	id, err := r.cron.AddFunc(schedule, func() { _ = r.execute(context.Background(), job) })
	if err != nil {
		return fmt.Errorf("rescheduling %s: %w", name, err)
	}
	r.cron.Remove(job.entryID)
	job.entryID = id
	job.schedule = schedule

	r.logger.Info("updated job schedule", "name", name, "schedule", schedule)
	return nil
}

// Start starts the cron loop.
func (r *Registry) Start() {
	r.cron.Start()
}

// Stop stops the cron loop and waits for running jobs.
func (r *Registry) Stop() {
	<-r.cron.Stop().Done()
}
