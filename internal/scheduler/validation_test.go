// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"strings"
	"testing"
)

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr string
	}{
		{"every minute", "* * * * *", ""},
		{"hourly at 5", "5 * * * *", ""},
		{"descriptor", "@hourly", ""},
		{"every", "@every 30m", ""},
		{"nightly", "0 3 * * *", ""},
		{"empty", "", "required"},
		{"six fields", "0 0 3 * * *", "invalid cron expression"},
		{"garbage", "sometimes", "invalid cron expression"},
		{"out of range", "61 * * * *", "invalid cron expression"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchedule(tt.expr)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateSchedule(%q) = %v", tt.expr, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateSchedule(%q) = %v, want error containing %q", tt.expr, err, tt.wantErr)
			}
		})
	}
}
