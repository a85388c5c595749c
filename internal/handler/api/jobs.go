// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/omenu/internal/scheduler"
)

func (h *Handler) requireJobs(w http.ResponseWriter) bool {
	if h.jobs == nil {
		WriteError(w, http.StatusServiceUnavailable, "scheduler_disabled", "Scheduler is not running", nil)
		return false
	}
	return true
}

// ListJobs handles GET /api/admin/jobs
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	if !h.requireJobs(w) {
		return
	}
	WriteSuccess(w, h.jobs.List(), nil)
}

// RunJob handles POST /api/admin/jobs/{name}/run. The job runs on the
// request goroutine and the response carries its updated state.
func (h *Handler) RunJob(w http.ResponseWriter, r *http.Request) {
	if !h.requireJobs(w) {
		return
	}
	name := chi.URLParam(r, "name")

	if err := h.jobs.TriggerNow(r.Context(), name); err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			WriteNotFound(w, "Job not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "job_failed", "Job "+name+" failed", nil)
		return
	}

	for _, job := range h.jobs.List() {
		if job.Name == name {
			WriteSuccess(w, job, nil)
			return
		}
	}
	WriteNotFound(w, "Job not found")
}
