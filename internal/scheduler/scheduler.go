// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic maintenance jobs of the menu
// service: the translation coverage audit and event log pruning.
package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/schema"
	"github.com/olegiv/omenu/internal/service"
)

// Job names.
const (
	JobCoverageAudit = "translation-coverage"
	JobPruneEvents   = "prune-events"
)

// Defaults for Options.
const (
	DefaultCoverageSchedule = "@hourly"
	DefaultPruneSchedule    = "30 3 * * *"
	DefaultEventRetention   = 30 * 24 * time.Hour
	defaultJobTimeout       = 5 * time.Minute
)

// Options configures the scheduled jobs. Zero values take the defaults.
type Options struct {
	CoverageSchedule string
	PruneSchedule    string
	EventRetention   time.Duration
}

// Scheduler owns the maintenance jobs.
type Scheduler struct {
	db       *sql.DB
	caps     schema.Capabilities
	events   *service.EventService
	registry *Registry
	logger   *slog.Logger
	opts     Options
}

// New creates a scheduler. Jobs are registered by Start.
func New(db *sql.DB, caps schema.Capabilities, events *service.EventService, logger *slog.Logger, opts Options) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.CoverageSchedule == "" {
		opts.CoverageSchedule = DefaultCoverageSchedule
	}
	if opts.PruneSchedule == "" {
		opts.PruneSchedule = DefaultPruneSchedule
	}
	if opts.EventRetention <= 0 {
		opts.EventRetention = DefaultEventRetention
	}
	return &Scheduler{
		db:       db,
		caps:     caps,
		events:   events,
		registry: NewRegistry(logger, defaultJobTimeout),
		logger:   logger,
		opts:     opts,
	}
}

// Registry exposes the job registry for listing and manual runs.
func (s *Scheduler) Registry() *Registry {
	return s.registry
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if err := s.registry.Register(JobCoverageAudit,
		"Report languages with missing name translations",
		s.opts.CoverageSchedule,
		func(ctx context.Context) error {
			_, err := s.RunCoverageAudit(ctx)
			return err
		}); err != nil {
		return err
	}
	if err := s.registry.Register(JobPruneEvents,
		fmt.Sprintf("Delete events older than %s", s.opts.EventRetention),
		s.opts.PruneSchedule,
		func(ctx context.Context) error {
			_, err := s.PruneEvents(ctx)
			return err
		}); err != nil {
		return err
	}

	s.registry.Start()
	s.logger.Info("scheduler started", "jobs", len(s.registry.List()))
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.registry.Stop()
	s.logger.Info("scheduler stopped")
}

// RunCoverageAudit counts missing name translations in both tables and
// logs a warning for every language with gaps. The gaps are returned.
func (s *Scheduler) RunCoverageAudit(ctx context.Context) ([]model.TranslationCoverage, error) {
	var gaps []model.TranslationCoverage
	for _, table := range schema.Tables {
		cov, err := schema.Coverage(ctx, s.db, s.caps, table)
		if err != nil {
			return nil, err
		}
		for _, c := range cov {
			if c.Missing == 0 {
				continue
			}
			gaps = append(gaps, c)
			s.logger.Warn("translation coverage gap",
				"table", c.Table,
				"language", c.Language,
				"missing", c.Missing,
				"total", c.Total)
		}
	}
	if len(gaps) == 0 {
		s.logger.Info("translation coverage complete")
	}
	return gaps, nil
}

// PruneEvents deletes events older than the retention period.
func (s *Scheduler) PruneEvents(ctx context.Context) (int64, error) {
	n, err := s.events.DeleteOldEvents(ctx, s.opts.EventRetention)
	if err != nil {
		return 0, fmt.Errorf("pruning events: %w", err)
	}
	if n > 0 {
		s.logger.Info("pruned old events", "deleted", n, "retention", s.opts.EventRetention)
	}
	return n, nil
}
