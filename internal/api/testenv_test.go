package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/datadash/backend/internal/models"
	"github.com/datadash/backend/internal/session"
	"github.com/datadash/backend/internal/storage"
	"github.com/datadash/backend/internal/testutil"
	"github.com/datadash/backend/internal/upload"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// testEnv wires the full route table against in-memory dependencies and a
// virtual clock.
type testEnv struct {
	e        *echo.Echo
	sessions *session.Manager
	store    *storage.MemoryStore
	sched    *testutil.FakeScheduler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		store: storage.NewMemoryStore(),
		sched: testutil.NewFakeScheduler(),
	}
	ids := upload.NewSequenceGenerator("file")
	env.sessions = session.NewManager(session.Options{
		MaxSessions: 2,
		NewUploads: func(onChange func()) *upload.Manager {
			return upload.NewManager(upload.Options{
				Scheduler: env.sched,
				IDs:       ids,
				Store:     env.store,
				OnChange:  onChange,
			})
		},
	})

	env.e = echo.New()
	SetupMiddleware(env.e, MiddlewareConfig{}, nil)
	RegisterRoutes(env.e, NewHandlers(&Dependencies{
		Sessions: env.sessions,
		Payloads: env.store,
		Version:  "test",
	}))
	return env
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doJSON(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return env.do(req)
}

func (env *testEnv) createSession(t *testing.T) models.Snapshot {
	t.Helper()
	rec := env.doJSON(http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeSnapshot(t, rec)
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) models.Snapshot {
	t.Helper()
	var snap models.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	return snap
}

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

type formFile struct {
	name        string
	contentType string
	content     string
}

func multipartRequest(t *testing.T, path string, files ...formFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="files"; filename="`+f.name+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}
