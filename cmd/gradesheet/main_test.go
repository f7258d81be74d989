package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/gradesheet/internal/pkg/apperrors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gradesheet version "+Version)
}

func TestIngestCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grades.csv")
	require.NoError(t, os.WriteFile(path, []byte("ID,Name,MaxMarks,ObtainedMarks\nS1,Ann,100,90\nS2,Bob,80,60\n"), 0o600))

	out, err := execute(t, "ingest", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Ingested 2 students from grades.csv into memory storage")
}

func TestIngestCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("ID,Name,MaxMarks,ObtainedMarks\nS1,Ann,-5,1\n"), 0o600))

	_, err := execute(t, "ingest", bad)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRow)

	_, err = execute(t, "ingest", filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, apperrors.ErrNoFileProvided)

	_, err = execute(t, "ingest")
	assert.Error(t, err)
}

func TestMigrateCommand_Memory(t *testing.T) {
	out, err := execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "memory storage schema is up to date")
}
