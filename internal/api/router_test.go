package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/auth-service/internal/api/handler"
	"github.com/99minutos/auth-service/internal/core/service"
	"github.com/99minutos/auth-service/internal/infrastructure/db/memory"
	"github.com/99minutos/auth-service/internal/infrastructure/security"
)

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	key, err := security.GenerateSigningKey()
	require.NoError(t, err)
	tokens, err := security.NewJWTIssuer(key)
	require.NoError(t, err)

	store := memory.NewAccountStore()
	svc := service.NewAuthService(store, security.NewBcryptHasher(bcrypt.MinCost), tokens, nil, zerolog.Nop())

	reg := prometheus.NewRegistry()
	return NewRouter(Deps{
		Auth:       svc,
		Tokens:     tokens,
		Checks:     map[string]handler.Checker{"store": store.Ping},
		Log:        zerolog.Nop(),
		Registerer: reg,
		Gatherer:   reg,
	})
}

func do(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRouter_RegisterLoginMe(t *testing.T) {
	e := newTestRouter(t)

	rec := do(e, http.MethodPost, "/api/auth/register", `{"name":"Ann","email":"ann@x.com","password":"p@ss1234","role":"customer"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reg := decode(t, rec)
	assert.NotEmpty(t, reg["token"])
	assert.Equal(t, "customer", reg["role"])

	rec = do(e, http.MethodPost, "/api/auth/login", `{"email":"ann@x.com","password":"p@ss1234"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := decode(t, rec)["token"].(string)
	require.NotEmpty(t, token)

	rec = do(e, http.MethodGet, "/api/auth/me", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode(t, rec)
	assert.Equal(t, "Ann", me["name"])
	assert.Equal(t, "ann@x.com", me["email"])
	assert.NotContains(t, me, "token")
}

func TestRouter_ErrorStatuses(t *testing.T) {
	e := newTestRouter(t)
	body := `{"name":"Bob","email":"bob@x.com","password":"pass1234","role":"driver"}`
	require.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/api/auth/register", body, "").Code)

	rec := do(e, http.MethodPost, "/api/auth/register", body, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	errBody := decode(t, rec)
	assert.Equal(t, "email already registered", errBody["error"])
	assert.EqualValues(t, http.StatusConflict, errBody["status"])
	assert.NotEmpty(t, errBody["timestamp"])

	wrong := do(e, http.MethodPost, "/api/auth/login", `{"email":"bob@x.com","password":"wrongpass"}`, "")
	unknown := do(e, http.MethodPost, "/api/auth/login", `{"email":"who@x.com","password":"wrongpass"}`, "")
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, decode(t, wrong)["error"], decode(t, unknown)["error"])

	rec = do(e, http.MethodPost, "/api/auth/register", `{"name":"C","email":"c@x.com","password":"short","role":"customer"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/api/auth/me", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/api/auth/me", "", "garbage").Code)
}

func TestRouter_AdminAccountLookup(t *testing.T) {
	e := newTestRouter(t)

	rec := do(e, http.MethodPost, "/api/auth/register", `{"name":"Root","email":"root@x.com","password":"rootpass","role":"admin"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	adminToken, _ := decode(t, rec)["token"].(string)

	rec = do(e, http.MethodPost, "/api/auth/register", `{"name":"Dee","email":"dee@x.com","password":"deepass1","role":"restaurant"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	userToken, _ := decode(t, rec)["token"].(string)

	rec = do(e, http.MethodGet, "/api/auth/accounts/dee@x.com", "", adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "restaurant", decode(t, rec)["role"])

	assert.Equal(t, http.StatusForbidden, do(e, http.MethodGet, "/api/auth/accounts/root@x.com", "", userToken).Code)
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/api/auth/accounts/ghost@x.com", "", adminToken).Code)
}

func TestRouter_Probes(t *testing.T) {
	e := newTestRouter(t)

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/health", "", "").Code)

	rec := do(e, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	do(e, http.MethodGet, "/health", "", "")
	rec = do(e, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "auth_http_requests_total")
}
