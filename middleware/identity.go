package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userIDKey    = "user_id"
	UserIDHeader = "X-User-ID"
)

// Identity resolves the acting user for every request. With a secret it
// reads the user_id claim of an HS256 bearer token; without one it trusts
// the X-User-ID header. Requests without a user are rejected.
func Identity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			userID uint
			err    error
		)
		if secret != "" {
			userID, err = userFromToken(c.GetHeader("Authorization"), []byte(secret))
		} else {
			userID, err = userFromHeader(c.GetHeader(UserIDHeader))
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": err.Error(),
			})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the user set by Identity.
func UserID(c *gin.Context) (uint, bool) {
	id, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	uid, ok := id.(uint)
	return uid, ok && uid != 0
}

func userFromHeader(raw string) (uint, error) {
	if raw == "" {
		return 0, fmt.Errorf("%s header required", UserIDHeader)
	}
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s header", UserIDHeader)
	}
	return uint(id), nil
}

func userFromToken(authHeader string, secret []byte) (uint, error) {
	if authHeader == "" {
		return 0, fmt.Errorf("authorization header required")
	}
	tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		return 0, fmt.Errorf("bearer token required")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}
	// Numeric claims decode as float64.
	raw, ok := claims[userIDKey].(float64)
	if !ok || raw < 1 || raw != float64(uint32(raw)) {
		return 0, fmt.Errorf("token has no valid user_id claim")
	}
	return uint(raw), nil
}
