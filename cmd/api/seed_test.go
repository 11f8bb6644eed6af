package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/staff"
	"github.com/cmlabs-hris/staff-ledger/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staff.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSeedDirectory(t *testing.T) {
	ctx := context.Background()
	dir := memory.NewDirectory(memory.Open())

	path := writeSeed(t, `[
		{"id": "S1", "display_name": "Sarah", "contact_handle": "sarah@school.test"},
		{"id": "S2", "display_name": "Paul", "contact_handle": "paul@school.test",
		 "entitlement": {"annual": 20, "casual": 5, "medical": 10, "other": 1}}
	]`)

	n, err := seedDirectory(ctx, dir, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	s1, err := dir.GetStaff(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, staff.DefaultEntitlement, s1.Allocation())

	s2, err := dir.GetStaff(ctx, "S2")
	require.NoError(t, err)
	assert.Equal(t, 20.0, s2.Allocation().Annual)
}

func TestSeedDirectory_Errors(t *testing.T) {
	ctx := context.Background()
	dir := memory.NewDirectory(memory.Open())

	_, err := seedDirectory(ctx, dir, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = seedDirectory(ctx, dir, writeSeed(t, `{"id": "S1"}`))
	assert.Error(t, err)

	n, err := seedDirectory(ctx, dir, writeSeed(t, `[{"id": "S1"}, {"display_name": "nobody"}]`))
	assert.Error(t, err)
	assert.Equal(t, 1, n)
}
