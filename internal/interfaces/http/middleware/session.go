package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lalajet/backend/internal/infrastructure/auth"
	"github.com/lalajet/backend/internal/interfaces/http/dto"
)

// sessionClaimsKey is the gin context key for validated session claims
const sessionClaimsKey = "session_claims"

// Session validates the Bearer session token on every request behind
// the access gate
func Session(sessions *auth.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing authorization header")
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Malformed authorization header")
			return
		}

		claims, err := sessions.Validate(token)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, dto.ErrCodeTokenExpired, "Session has expired")
				return
			}
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Invalid session token")
			return
		}

		c.Set(sessionClaimsKey, claims)
		c.Set("session_id", claims.SessionID)
		c.Next()
	}
}

// GetSessionClaims returns the validated claims of the current request
func GetSessionClaims(c *gin.Context) (*auth.Claims, bool) {
	v, exists := c.Get(sessionClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}
