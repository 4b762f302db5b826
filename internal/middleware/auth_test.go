package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func mintToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runProtected(t *testing.T, authHeader string, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	_ = h(e.NewContext(req, rec))
	return rec
}

func TestJWTAuthRejectsMissingAndMalformedTokens(t *testing.T) {
	rec := runProtected(t, "", JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = runProtected(t, "Bearer not-a-jwt", JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	wrongKey := mintToken(t, "other-secret", jwt.MapClaims{"sub": "21", "role": RoleCustomer})
	rec = runProtected(t, "Bearer "+wrongKey, JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthInjectsClaims(t *testing.T) {
	e := echo.New()
	token := mintToken(t, testSecret, jwt.MapClaims{"sub": "21", "role": RoleOrganizer})

	var gotUser, gotRole interface{}
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		gotUser = c.Get("user_id")
		gotRole = c.Get("role")
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "21", gotUser)
	assert.Equal(t, RoleOrganizer, gotRole)
}

func TestRequireRoleEnforcesAllowedSet(t *testing.T) {
	customer := mintToken(t, testSecret, jwt.MapClaims{"sub": "21", "role": RoleCustomer})
	owner := mintToken(t, testSecret, jwt.MapClaims{"sub": "50", "role": RoleOwner})

	rec := runProtected(t, "Bearer "+customer, JWTAuth(testSecret), RequireRole(RoleCustomer))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = runProtected(t, "Bearer "+owner, JWTAuth(testSecret), RequireRole(RoleCustomer))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = runProtected(t, "Bearer "+owner, JWTAuth(testSecret), RequireRole(RoleCustomer, RoleOwner))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleWithoutClaimForbidden(t *testing.T) {
	rec := runProtected(t, "", RequireRole(RoleCustomer))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
