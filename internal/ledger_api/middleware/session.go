package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// UserIDKey is the key under which the authenticated user's id is stored
// in the gin context. Absent when the caller is anonymous.
const UserIDKey = "user_id"

// Session middleware resolves the optional caller identity from a Bearer
// token issued by the session provider. Every endpoint of this service
// is reachable anonymously (link holders carry no session), so a missing
// or invalid token never aborts the request here; the authorization gate
// decides downstream whether an anonymous caller may proceed.
func Session(secret []byte, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			logger.Debug("Malformed Authorization header, proceeding anonymously")
			c.Next()
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid signing method")
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			logger.Debug("Invalid session token, proceeding anonymously", "error", err)
			c.Next()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.Next()
			return
		}

		userID, ok := claims["sub"].(string)
		if !ok || userID == "" {
			c.Next()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// GetUserID retrieves the authenticated user's id from the gin context.
// The empty string marks an anonymous caller.
func GetUserID(c *gin.Context) string {
	if id, exists := c.Get(UserIDKey); exists {
		if userID, ok := id.(string); ok {
			return userID
		}
	}
	return ""
}
