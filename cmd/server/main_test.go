package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/damon-houk/currency-converter/internal/infrastructure/config"
	"github.com/damon-houk/currency-converter/internal/infrastructure/db"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"><rect width="1" height="1"/></svg>`

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	background := filepath.Join(t.TempDir(), "bg.svg")
	require.NoError(t, os.WriteFile(background, []byte(tinySVG), 0o644))

	return &config.Config{
		Port:            "0",
		UpstreamBaseURL: "http://127.0.0.1:1",
		UpstreamTimeout: time.Second,
		LogLevel:        "ERROR",
		BackgroundImage: background,
		DefaultFrom:     "USD",
		DefaultTo:       "INR",
		JournalPath:     filepath.Join(t.TempDir(), "journal"),
	}
}

func restoreDefaultLogger(t *testing.T) {
	original := logger.GetDefaultLogger()
	t.Cleanup(func() { logger.SetDefaultLogger(original) })
}

// assertJournalClosed reopens the journal directory, which badger refuses
// while another handle still holds its lock
func assertJournalClosed(t *testing.T, path string) {
	t.Helper()

	reopened, err := db.OpenBadger(path)
	require.NoError(t, err)
	assert.NoError(t, reopened.Close())
}

func TestRunClosesJournalWhenStartupFails(t *testing.T) {
	restoreDefaultLogger(t)
	cfg := testConfig(t)
	cfg.BackgroundImage = filepath.Join(t.TempDir(), "missing.png")

	serveCalled := false
	err := run(cfg, &bytes.Buffer{}, func(string, http.Handler) error {
		serveCalled = true
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "background image")
	assert.False(t, serveCalled)
	assertJournalClosed(t, cfg.JournalPath)
}

func TestRunClosesJournalWhenServeFails(t *testing.T) {
	restoreDefaultLogger(t)
	cfg := testConfig(t)
	errServe := errors.New("address already in use")

	var servedAddr string
	err := run(cfg, &bytes.Buffer{}, func(addr string, h http.Handler) error {
		servedAddr = addr

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)

		return errServe
	})

	assert.ErrorIs(t, err, errServe)
	assert.Equal(t, ":0", servedAddr)
	assertJournalClosed(t, cfg.JournalPath)
}

func TestRunWithoutJournal(t *testing.T) {
	restoreDefaultLogger(t)
	cfg := testConfig(t)
	cfg.JournalPath = ""

	err := run(cfg, &bytes.Buffer{}, func(addr string, h http.Handler) error {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/history", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
		return nil
	})

	assert.NoError(t, err)
}
