package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lead_crm_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jwtSecret string

func (s jwtSecret) GetJWTAccessSecret() string { return string(s) }

const testSecret = jwtSecret("test-secret")

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func protectedEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/me", AuthRequired(testSecret), func(c *gin.Context) {
		id := MustGetIdentity(c)
		if id == nil {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":        id.UserID().String(),
			"requestId": logger.RequestIDFromContext(c.Request.Context()),
		})
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	userID := uuid.New()
	valid := jwt.MapClaims{"sub": userID.String(), "type": TokenTypeAccess, "exp": time.Now().Add(time.Hour).Unix()}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", valid), http.StatusUnauthorized},
		{"wrong type", "Bearer " + signToken(t, string(testSecret), jwt.MapClaims{"sub": userID.String(), "type": "refresh", "exp": time.Now().Add(time.Hour).Unix()}), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, string(testSecret), jwt.MapClaims{"sub": userID.String(), "type": TokenTypeAccess, "exp": time.Now().Add(-time.Minute).Unix()}), http.StatusUnauthorized},
		{"no expiry", "Bearer " + signToken(t, string(testSecret), jwt.MapClaims{"sub": userID.String(), "type": TokenTypeAccess}), http.StatusUnauthorized},
		{"bad subject", "Bearer " + signToken(t, string(testSecret), jwt.MapClaims{"sub": "nope", "type": TokenTypeAccess, "exp": time.Now().Add(time.Hour).Unix()}), http.StatusUnauthorized},
		{"valid", "Bearer " + signToken(t, string(testSecret), valid), http.StatusOK},
	}

	r := protectedEngine()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestAuthRequiredExposesIdentityAndRequestID(t *testing.T) {
	userID := uuid.New()
	token := signToken(t, string(testSecret), jwt.MapClaims{"sub": userID.String(), "type": TokenTypeAccess, "exp": time.Now().Add(time.Hour).Unix()})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(HeaderRequestID, "req-123")
	w := httptest.NewRecorder()
	protectedEngine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, userID.String(), body["id"])
	assert.Equal(t, "req-123", body["requestId"])
	assert.Equal(t, "req-123", w.Header().Get(HeaderRequestID))
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	protectedEngine().ServeHTTP(w, req)

	_, err := uuid.Parse(w.Header().Get(HeaderRequestID))
	assert.NoError(t, err)
}
