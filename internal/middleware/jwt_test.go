package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/utils"
)

func runProtected(t *testing.T, authHeader string, mw ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	g := e.Group("/v1", mw...)
	g.GET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": c.Get("user_id"),
			"role":    c.Get("role"),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken("secret", 42, "CUSTOMER", 15)
	require.NoError(t, err)

	rec := runProtected(t, "Bearer "+tok.Token, JWTAuth("secret"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"CUSTOMER"`)
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec := runProtected(t, "", JWTAuth("secret"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other", 42, "CUSTOMER", 15)
	require.NoError(t, err)

	rec := runProtected(t, "Bearer "+tok.Token, JWTAuth("secret"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	tok, err := utils.NewAccessToken("secret", 42, "CUSTOMER", -1)
	require.NoError(t, err)

	rec := runProtected(t, "Bearer "+tok.Token, JWTAuth("secret"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleAllows(t *testing.T) {
	tok, err := utils.NewAccessToken("secret", 7, "MANAGER", 15)
	require.NoError(t, err)

	rec := runProtected(t, "Bearer "+tok.Token,
		JWTAuth("secret"), RequireRole("MANAGER"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejects(t *testing.T) {
	tok, err := utils.NewAccessToken("secret", 7, "CUSTOMER", 15)
	require.NoError(t, err)

	rec := runProtected(t, "Bearer "+tok.Token,
		JWTAuth("secret"), RequireRole("MANAGER"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleMissingRole(t *testing.T) {
	// No JWTAuth in front, so no role lands in the context.
	rec := runProtected(t, "", RequireRole("MANAGER", "CUSTOMER"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
