package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storyteller/internal/authutils"
	"storyteller/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestVerifier(t *testing.T) *authutils.JWTVerifier {
	t.Helper()
	v, err := authutils.NewJWTVerifier(testSecret, nil, nil)
	require.NoError(t, err)
	return v
}

func issue(t *testing.T, userID string, ttl time.Duration) string {
	t.Helper()
	token, err := authutils.IssueToken(userID, testSecret, ttl)
	require.NoError(t, err)
	return token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func newGinRouter(t *testing.T, reached *bool, gotUserID *string) *gin.Engine {
	r := gin.New()
	r.Use(Auth(newTestVerifier(t), nil))
	r.GET("/stories", func(c *gin.Context) {
		*reached = true
		*gotUserID = c.GetString(models.GinUserIDKey)
		if id, ok := models.UserIDFromContext(c.Request.Context()); ok {
			assert.Equal(t, *gotUserID, id)
		}
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuth_Gin(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
		wantUser   string
	}{
		{"missing header", "", http.StatusUnauthorized, MsgMissingToken, ""},
		{"bearer only", "Bearer", http.StatusUnauthorized, MsgInvalidToken, ""},
		{"bearer with spaces", "Bearer   ", http.StatusUnauthorized, MsgInvalidToken, ""},
		{"garbage", "Bearer nope", http.StatusUnauthorized, MsgInvalidToken, ""},
		{"expired", "Bearer " + issue(t, "u1", -time.Minute), http.StatusUnauthorized, MsgInvalidToken, ""},
		{"bearer token", "Bearer " + issue(t, "u1", time.Hour), http.StatusOK, "", "u1"},
		{"lowercase scheme", "bearer " + issue(t, "u2", time.Hour), http.StatusOK, "", "u2"},
		{"raw token", issue(t, "u3", time.Hour), http.StatusOK, "", "u3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reached bool
			var userID string
			router := newGinRouter(t, &reached, &userID)

			req := httptest.NewRequest(http.MethodGet, "/stories", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.False(t, reached, "next handler must not run")
				assert.Equal(t, tt.wantError, decodeError(t, rec))
				return
			}
			assert.True(t, reached)
			assert.Equal(t, tt.wantUser, userID)
		})
	}
}

func TestAuthHTTP(t *testing.T) {
	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := models.UserIDFromContext(r.Context())
		require.True(t, ok)
		gotUserID = id
		claims, ok := models.ClaimsFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, id, claims.Identity())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := AuthHTTP(newTestVerifier(t), nil)(next)

	t.Run("missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/save_story", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, MsgMissingToken, decodeError(t, rec))
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	})

	t.Run("scheme without token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/save_story", nil)
		req.Header.Set("Authorization", "Bearer")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, MsgInvalidToken, decodeError(t, rec))
	})

	t.Run("invalid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/save_story", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, "u", time.Hour)+"x")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, MsgInvalidToken, decodeError(t, rec))
	})

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/save_story", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, "kid-9", time.Hour))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "kid-9", gotUserID)
	})
}

type stubVerifier struct{ err error }

func (s stubVerifier) VerifyToken(context.Context, string) (*models.Claims, error) {
	return nil, s.err
}

func TestAuth_AnyVerifierErrorIsInvalidToken(t *testing.T) {
	for _, err := range []error{models.ErrTokenExpired, models.ErrTokenMalformed, errors.New("unexpected")} {
		r := gin.New()
		r.Use(Auth(stubVerifier{err: err}, nil))
		r.GET("/", func(c *gin.Context) { t.Fatal("next handler must not run") })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer abc")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, MsgInvalidToken, decodeError(t, rec))
	}
}

func TestTokenVerificationMetrics(t *testing.T) {
	before := testutil.ToFloat64(tokenVerificationsTotal.WithLabelValues("missing"))

	rec := httptest.NewRecorder()
	AuthHTTP(stubVerifier{}, nil)(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(tokenVerificationsTotal.WithLabelValues("missing")))

	beforeInvalid := testutil.ToFloat64(tokenVerificationsTotal.WithLabelValues("invalid"))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer ")
	AuthHTTP(stubVerifier{}, nil)(http.NotFoundHandler()).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, beforeInvalid+1, testutil.ToFloat64(tokenVerificationsTotal.WithLabelValues("invalid")))
}

func TestExtractToken(t *testing.T) {
	assert.Equal(t, "abc", extractToken("Bearer abc"))
	assert.Equal(t, "abc", extractToken("BEARER   abc "))
	assert.Equal(t, "abc", extractToken("abc"))
	assert.Equal(t, "Basic abc", extractToken("Basic abc"))
	assert.Empty(t, extractToken("Bearer"))
	assert.Empty(t, extractToken("bearer   "))
}
