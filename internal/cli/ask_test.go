// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/uplink-tui/internal/config"
)

// =============================================================================
// ATTACHMENT LOADING
// =============================================================================

// writeTempFile creates a file of the given size under the test's temp dir.
func writeTempFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0o644))
	return path
}

func TestLoadAttachments(t *testing.T) {
	cfg := config.Default()
	cfg.Media.MaxAttachmentMB = 1

	a := writeTempFile(t, "a.png", 64)
	b := writeTempFile(t, "b.png", 128)

	atts, err := loadAttachments(Args{Files: []string{a, b}, Quiet: true}, cfg)
	require.NoError(t, err)
	require.Len(t, atts, 2)
	assert.Equal(t, "a.png", atts[0].Name)
	assert.Equal(t, "b.png", atts[1].Name)
}

func TestLoadAttachmentsEnforcesTotalBudget(t *testing.T) {
	cfg := config.Default()
	cfg.Media.MaxAttachmentMB = 1

	// Each file fits on its own; together they blow the 1 MiB budget.
	a := writeTempFile(t, "a.png", 600<<10)
	b := writeTempFile(t, "b.png", 600<<10)

	_, err := loadAttachments(Args{Files: []string{a, b}, Quiet: true}, cfg)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "total attachments")
}

func TestLoadAttachmentsMissingFile(t *testing.T) {
	cfg := config.Default()

	_, err := loadAttachments(Args{
		Files: []string{filepath.Join(t.TempDir(), "nope.txt")},
		Quiet: true,
	}, cfg)
	assert.Error(t, err)
}
