package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/infrastructure/security"
)

func newKey(t *testing.T) []byte {
	t.Helper()
	key, err := security.GenerateSigningKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func newIssuer(t *testing.T, key []byte, opts ...security.IssuerOption) *security.JWTIssuer {
	t.Helper()
	tokens, err := security.NewJWTIssuer(key, opts...)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	return tokens
}

// run passes a request with the given Authorization header through Auth and
// reports the recorded status and whether next was reached.
func run(t *testing.T, tokens *security.JWTIssuer, header string, next echo.HandlerFunc) (int, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(tokens)(func(c echo.Context) error {
		called = true
		if next != nil {
			return next(c)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec.Code, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := newIssuer(t, newKey(t))
	signed, err := tokens.Issue("alice@x.com", "admin")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	code, called := run(t, tokens, "Bearer "+signed, func(c echo.Context) error {
		if c.Get(ContextSubject) != "alice@x.com" {
			t.Fatalf("subject not set")
		}
		if c.Get(ContextRole) != "admin" {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	key := newKey(t)
	tokens := newIssuer(t, key)

	foreign, err := newIssuer(t, newKey(t)).Issue("alice@x.com", "admin")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	past := time.Now().Add(-48 * time.Hour)
	expiredIssuer := newIssuer(t, key, security.WithClock(func() time.Time { return past }))
	expired, err := expiredIssuer.Issue("alice@x.com", "admin")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	cases := map[string]string{
		"missing header":  "",
		"wrong scheme":    "Token abc",
		"no token":        "Bearer",
		"garbage":         "Bearer not-a-token",
		"foreign key":     "Bearer " + foreign,
		"expired": "Bearer " + expired,
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			code, called := run(t, tokens, header, nil)
			if called {
				t.Fatalf("should not reach next")
			}
			if code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", code)
			}
		})
	}
}
