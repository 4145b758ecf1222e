package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Tri-omph/backend/internal/hash"
	"github.com/Tri-omph/backend/internal/models"
	"github.com/Tri-omph/backend/internal/scancache"
	"github.com/Tri-omph/backend/internal/service/gamification"
	"github.com/Tri-omph/backend/internal/service/roles"
	"github.com/Tri-omph/backend/internal/service/token"
	"github.com/Tri-omph/backend/internal/service/warning"
)

type recordedEvent struct {
	Topic string
	Key   string
	Event map[string]interface{}
}

type recordingPublisher struct {
	Events []recordedEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event interface{}) error {
	p.Events = append(p.Events, recordedEvent{Topic: topic, Key: key, Event: event.(map[string]interface{})})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	Tokens *token.Service
	Pub    *recordingPublisher

	Auth         *AuthHandler
	Users        *UserHandler
	Admin        *AdminHandler
	Scan         *ScanHandler
	Sorting      *SortingHandler
	Gamification *GamificationHandler
	History      *HistoryHandler
	Metrics      *MetricsHandler
	Warnings     *WarningHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Customer{},
		&models.Warning{},
		&models.ScanHistory{},
		&models.WasteItem{},
		&models.RefreshToken{},
	))

	tokens := &token.Service{DB: db, JWTSecret: []byte("test-secret"), RefreshSecret: []byte("test-refresh")}
	pub := &recordingPublisher{}
	warnings := warning.NewService(db, scancache.NewTracker())
	points := gamification.NewService(db)

	return &testEnv{
		T:      t,
		E:      echo.New(),
		DB:     db,
		Tokens: tokens,
		Pub:    pub,

		Auth:         &AuthHandler{DB: db, Tokens: tokens, Producer: pub},
		Users:        &UserHandler{DB: db},
		Admin:        &AdminHandler{Roles: roles.NewService(db), Producer: pub},
		Scan:         &ScanHandler{DB: db, Warnings: warnings, Producer: pub, ScanThreshold: 5},
		Sorting:      &SortingHandler{DB: db, Points: points, Producer: pub},
		Gamification: &GamificationHandler{Points: points},
		History:      &HistoryHandler{DB: db},
		Metrics:      &MetricsHandler{DB: db},
		Warnings:     &WarningHandler{DB: db, Warnings: warnings},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// asUser fakes what the auth middleware would have set.
func asUser(c echo.Context, id uint, role models.Role) {
	c.Set(token.CtxUserID, id)
	c.Set(token.CtxRole, role)
}

func (env *testEnv) createCustomer(username string, role models.Role) *models.Customer {
	env.T.Helper()
	pwHash, err := hash.HashPassword("password")
	require.NoError(env.T, err)
	c := models.Customer{
		Username:     username,
		Login:        username + "@example.com",
		PasswordHash: pwHash,
		Role:         role,
	}
	require.NoError(env.T, env.DB.Create(&c).Error)
	return &c
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
}
