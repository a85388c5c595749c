// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "errors"

var (
	// ErrNotFound is returned when the addressed entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when an entity with the same id exists.
	ErrConflict = errors.New("already exists")
	// ErrCategoryNotEmpty is returned when deleting a category that still has items.
	ErrCategoryNotEmpty = errors.New("category still has menu items")
	// ErrSchemaOutdated is returned for writes that need the per-language
	// columns on a database that has not been evolved yet.
	ErrSchemaOutdated = errors.New("database schema has not been evolved")
)
