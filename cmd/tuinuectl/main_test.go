package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeSessionFile(t *testing.T, token string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	payload := `{"token":"` + token + `","role":"donor","user_id":1}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))
	return path
}

func TestRun_StartupRevalidation(t *testing.T) {
	t.Run("revoked persisted token is cleared before an unguarded command", func(t *testing.T) {
		verifyCalls := 0
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/verify-token", r.URL.Path)
			verifyCalls++
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Token has been revoked"}`))
		}))
		defer backend.Close()

		sessionFile := writeSessionFile(t, "tok-revoked")
		t.Setenv("TUINUE_API_URL", backend.URL+"/api")
		t.Setenv("TUINUE_SESSION_FILE", sessionFile)
		t.Setenv("TUINUE_LOG_LEVEL", "disabled")

		require.NoError(t, run([]string{"whoami"}))
		require.Equal(t, 1, verifyCalls)
		_, err := os.Stat(sessionFile)
		require.ErrorIs(t, err, os.ErrNotExist, "revoked session must be cleared at startup")
	})

	t.Run("accepted persisted token survives", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"valid":true}`))
		}))
		defer backend.Close()

		sessionFile := writeSessionFile(t, "tok-live")
		t.Setenv("TUINUE_API_URL", backend.URL+"/api")
		t.Setenv("TUINUE_SESSION_FILE", sessionFile)
		t.Setenv("TUINUE_LOG_LEVEL", "disabled")

		require.NoError(t, run([]string{"whoami"}))
		_, err := os.Stat(sessionFile)
		require.NoError(t, err, "valid session must survive the startup check")
	})
}
