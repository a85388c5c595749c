// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version holds the build information stamped into omenu binaries.
package version

import "fmt"

// DevVersion is reported when no version was injected at build time.
const DevVersion = "dev"

// Info is filled from -ldflags in main.
type Info struct {
	Version   string `json:"version"`              // git tag, e.g. "v1.2.3"
	GitCommit string `json:"git_commit,omitempty"` // short hash
	BuildTime string `json:"build_time,omitempty"` // RFC3339
}

// String returns the version, or DevVersion when it is empty.
func (i Info) String() string {
	if i.Version == "" {
		return DevVersion
	}
	return i.Version
}

// Long renders version, commit and build time for --version output.
func (i Info) Long() string {
	commit, built := i.GitCommit, i.BuildTime
	if commit == "" {
		commit = "unknown"
	}
	if built == "" {
		built = "unknown"
	}
	return fmt.Sprintf("%s (commit %s, built %s)", i.String(), commit, built)
}
