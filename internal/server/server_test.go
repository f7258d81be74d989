package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/gradesheet/internal/config"
)

func TestNewServer_MemoryStorage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("DB_DRIVER", config.DriverMemory)

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	srv, err := NewServer(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// never started, so only storage is closed
	assert.NoError(t, srv.Shutdown(context.Background()))
}

func TestNewServer_ArchiveDirectoryFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("DB_DRIVER", config.DriverMemory)
	t.Setenv("SERVER_ARCHIVE_UPLOADS", "true")

	// a regular file where the archive directory should be
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	t.Setenv("SERVER_STORAGE_PATH", filepath.Join(blocker, "uploads"))

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	_, err = NewServer(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
