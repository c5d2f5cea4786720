package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/jwt"
	"github.com/xiebiao/storefront/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeBlacklist struct {
	tokens map[string]bool
	err    error
}

func (f *fakeBlacklist) IsInBlacklist(_ context.Context, token string) (bool, error) {
	return f.tokens[token], f.err
}

func newAuthRouter(bl TokenBlacklist, manager *jwt.Manager) *gin.Engine {
	auth := NewAuthMiddleware(manager, bl)
	r := gin.New()
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
		response.Success(c, gin.H{
			"user_id": GetUserID(c),
			"role":    GetRole(c),
			"token":   GetAccessToken(c) != "",
			"exp":     !GetTokenExpiresAt(c).IsZero(),
		})
	})
	r.GET("/admin", auth.RequireAuth(), auth.RequireAdmin(), func(c *gin.Context) {
		response.Success(c, nil)
	})
	return r
}

func do(t *testing.T, r http.Handler, method, path, token string) response.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRequireAuth(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	pair, err := manager.GenerateToken(jwt.Identity{UserID: 7, Email: "a@b.kr", Role: "customer"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		header   string
		bl       *fakeBlacklist
		wantCode int
	}{
		{name: "valid token", token: pair.AccessToken, bl: &fakeBlacklist{}, wantCode: 0},
		{name: "missing header", bl: &fakeBlacklist{}, wantCode: apperrors.ErrCodeUnauthorized},
		{name: "malformed header", header: "Token abc", bl: &fakeBlacklist{}, wantCode: apperrors.ErrCodeInvalidToken},
		{name: "garbage token", token: "not.a.jwt", bl: &fakeBlacklist{}, wantCode: apperrors.ErrCodeInvalidToken},
		{name: "blacklisted", token: pair.AccessToken, bl: &fakeBlacklist{tokens: map[string]bool{pair.AccessToken: true}}, wantCode: apperrors.ErrCodeTokenExpired},
		{name: "redis down", token: pair.AccessToken, bl: &fakeBlacklist{err: errors.New("dial tcp")}, wantCode: apperrors.ErrCodeRedisError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthRouter(tt.bl, manager)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			} else if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			var resp response.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
			if tt.wantCode == 0 {
				data := resp.Data.(map[string]interface{})
				assert.Equal(t, float64(7), data["user_id"])
				assert.Equal(t, "customer", data["role"])
				assert.Equal(t, true, data["token"])
				assert.Equal(t, true, data["exp"])
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	r := newAuthRouter(&fakeBlacklist{}, manager)

	customer, err := manager.GenerateToken(jwt.Identity{UserID: 1, Role: "customer"})
	require.NoError(t, err)
	admin, err := manager.GenerateToken(jwt.Identity{UserID: 2, Role: "admin"})
	require.NoError(t, err)

	assert.Equal(t, apperrors.ErrCodeForbidden, do(t, r, http.MethodGet, "/admin", customer.AccessToken).Code)
	assert.Equal(t, 0, do(t, r, http.MethodGet, "/admin", admin.AccessToken).Code)
}

func TestLogger_RequestID(t *testing.T) {
	r := gin.New()
	r.Use(Logger())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	id := w.Header().Get(headerRequestID)
	assert.Len(t, id, 36)
	assert.Equal(t, id, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(headerRequestID, "upstream-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", w.Header().Get(headerRequestID))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":50000`)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("https://shop.example.kr/"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://shop.example.kr")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://shop.example.kr", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
