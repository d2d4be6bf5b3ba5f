// Package auth resolves the authenticated user for a request.
//
// Identity issuance is not part of this backend, an external
// collaborator hands out the tokens. This package only verifies them
// and extracts the opaque user identifier every engine operation is
// scoped by.
package auth

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/allowkit/backend/internal/httperrors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const contextUserID = "allowkit-user-id"

var errUnexpectedSigningMethod = errors.New("unexpected token signing method")

func secret() []byte {
	return []byte(os.Getenv("TOKEN_SECRET"))
}

// Middleware verifies the bearer token and stores the user ID in the
// request context. Requests without a valid identity never reach the
// handlers.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			httperrors.New(c, http.StatusUnauthorized, "you need to authenticate to use this endpoint")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errUnexpectedSigningMethod
			}
			return secret(), nil
		})
		if err != nil || !token.Valid {
			httperrors.New(c, http.StatusUnauthorized, "the token is invalid or expired")
			c.Abort()
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil {
			httperrors.New(c, http.StatusUnauthorized, "the token is invalid or expired")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(subject)
		if err != nil {
			httperrors.New(c, http.StatusUnauthorized, "the token is invalid or expired")
			c.Abort()
			return
		}

		c.Set(contextUserID, userID)
		c.Next()
	}
}

// UserID returns the authenticated user for the request. The middleware
// guarantees it is set for all routes it guards.
func UserID(c *gin.Context) uuid.UUID {
	return c.MustGet(contextUserID).(uuid.UUID)
}

// Token signs a token for the user ID. Used by tests and local tooling,
// production tokens come from the identity collaborator.
func Token(userID uuid.UUID, expiry time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}
