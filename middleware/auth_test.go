package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-grocery/models"
	"go-grocery/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedRequest(t *testing.T, role, vendorID string) *http.Request {
	t.Helper()
	token, err := utils.GenerateJWT("64f000000000000000000001", role, vendorID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAuthMiddlewareAttachesClaims(t *testing.T) {
	var got *utils.Claims
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r)
		require.True(t, ok)
		got = claims
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, models.RoleVendor, "64f000000000000000000002"))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "64f000000000000000000001", got.UserID)
	assert.Equal(t, models.RoleVendor, got.Role)
	assert.Equal(t, "64f000000000000000000002", got.VendorID)
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsMalformedToken(t *testing.T) {
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	handler := AuthMiddleware(RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, models.RoleAdmin, ""))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, models.RoleCustomer, ""))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleAcceptsAnyListedRole(t *testing.T) {
	handler := AuthMiddleware(RequireRole(models.RoleVendor, models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, models.RoleVendor, "64f000000000000000000002"))
	assert.Equal(t, http.StatusOK, rec.Code)
}
