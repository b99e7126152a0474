// Package token issues the signed access tokens accepted by httpkit.AuthRequired.
package token

import (
	"time"

	"lead_crm_backend/platform/httpkit"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SignAccess returns an HS256 token for userID that expires ttl after now.
func SignAccess(userID uuid.UUID, secret string, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"type": httpkit.TokenTypeAccess,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(secret))
}
