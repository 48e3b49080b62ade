package api

import (
	"net/http"
	"testing"

	"github.com/datadash/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestSessionHandler_HandleCreateSession(t *testing.T) {
	env := newTestEnv(t)

	snap := env.createSession(t)
	assert.NotEmpty(t, snap.SessionID)
	assert.Equal(t, models.ScreenHome, snap.Screen)
	assert.Equal(t, []models.ScreenAction{{Label: "Login", Target: models.ScreenLogin}}, snap.Actions)
	assert.False(t, snap.Busy)
	assert.Empty(t, snap.Files)

	t.Run("limit reached", func(t *testing.T) {
		env.createSession(t)
		rec := env.doJSON(http.MethodPost, "/api/sessions", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeAPIError(t, rec).Code)
	})
}

func TestSessionHandler_HandleGetSession(t *testing.T) {
	env := newTestEnv(t)
	created := env.createSession(t)

	rec := env.doJSON(http.MethodGet, "/api/sessions/"+created.SessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decodeSnapshot(t, rec))

	rec = env.doJSON(http.MethodGet, "/api/sessions/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeAPIError(t, rec).Code)
}

func TestSessionHandler_HandleGetSessionMsgpack(t *testing.T) {
	env := newTestEnv(t)
	created := env.createSession(t)

	rec := env.doJSON(http.MethodGet, "/api/sessions/"+created.SessionID+"/msgpack", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, MIMEApplicationMsgpack, rec.Header().Get(echo.HeaderContentType))

	var snap models.Snapshot
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, created.SessionID, snap.SessionID)
	assert.Equal(t, models.ScreenHome, snap.Screen)
}

func TestSessionHandler_HandleNavigate(t *testing.T) {
	tests := []struct {
		name        string
		body        interface{}
		wantStatus  int
		wantScreen  models.Screen
		wantActions int
		errCode     string
	}{
		{
			name:        "home to login",
			body:        map[string]string{"screen": "login"},
			wantStatus:  http.StatusOK,
			wantScreen:  models.ScreenLogin,
			wantActions: 2,
		},
		{
			name:        "case and whitespace are ignored",
			body:        map[string]string{"screen": "  Dashboard "},
			wantStatus:  http.StatusOK,
			wantScreen:  models.ScreenDashboard,
			wantActions: 0,
		},
		{
			name:       "unknown screen",
			body:       map[string]string{"screen": "settings"},
			wantStatus: http.StatusBadRequest,
			errCode:    "VALIDATION_ERROR",
		},
		{
			name:       "malformed body",
			body:       "not an object",
			wantStatus: http.StatusBadRequest,
			errCode:    "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			created := env.createSession(t)

			rec := env.doJSON(http.MethodPut, "/api/sessions/"+created.SessionID+"/screen", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.errCode != "" {
				assert.Equal(t, tt.errCode, decodeAPIError(t, rec).Code)
				return
			}
			snap := decodeSnapshot(t, rec)
			assert.Equal(t, tt.wantScreen, snap.Screen)
			assert.Len(t, snap.Actions, tt.wantActions)
		})
	}
}

func TestSessionHandler_FlowThroughScreens(t *testing.T) {
	env := newTestEnv(t)
	snap := env.createSession(t)
	path := "/api/sessions/" + snap.SessionID + "/screen"

	// Follow the targets offered by each screen
	for _, want := range []models.Screen{models.ScreenLogin, models.ScreenDashboard} {
		var next models.Screen
		for _, a := range snap.Actions {
			if a.Target != "" {
				next = a.Target
				break
			}
		}
		require.Equal(t, want, next)

		rec := env.doJSON(http.MethodPut, path, map[string]string{"screen": string(next)})
		require.Equal(t, http.StatusOK, rec.Code)
		snap = decodeSnapshot(t, rec)
	}

	assert.Equal(t, models.ScreenDashboard, snap.Screen)
	assert.Empty(t, snap.Actions)
}
