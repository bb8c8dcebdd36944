package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticket-office/internal/utils"
)

const testSecret = "test-secret"

func callProtected(t *testing.T, authHeader string) (*httptest.ResponseRecorder, any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seenUserID any
	handler := JWTAuth(testSecret)(func(c echo.Context) error {
		seenUserID = c.Get("user_id")
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec, seenUserID
}

func TestJWTAuthValidToken(t *testing.T) {
	t.Parallel()
	access, err := utils.NewAccessToken(testSecret, 42, 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	rec, uid := callProtected(t, "Bearer "+access.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	// JSON claims decode numbers as float64.
	if got, ok := uid.(float64); !ok || got != 42 {
		t.Fatalf("user_id in context = %v (%T), want 42", uid, uid)
	}
}

func TestJWTAuthRejectsBadTokens(t *testing.T) {
	t.Parallel()
	foreign, err := utils.NewAccessToken("other-secret", 42, 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	expired, err := utils.NewAccessToken(testSecret, 42, -5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + foreign.Token},
		{"expired", "Bearer " + expired.Token},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec, uid := callProtected(t, tc.header)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status %d, want 401", rec.Code)
			}
			if uid != nil {
				t.Fatalf("user_id leaked into context: %v", uid)
			}
		})
	}
}
