package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/pinet/pinet/internal/logger"
)

// UserAuth requires a valid bearer token and injects the username into the context.
func UserAuth(secret string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, present := bearerToken(c)
		if !present {
			log.Warn("[AUTH] missing token")
			abortUnauthorized(c, "missing token")
			return
		}
		authenticate(c, raw, secret, log)
	}
}

// OptionalUserAuth lets requests without an Authorization header through
// untouched. A header that is present must carry a valid token.
func OptionalUserAuth(secret string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, present := bearerToken(c)
		if !present {
			c.Next()
			return
		}
		authenticate(c, raw, secret, log)
	}
}

func authenticate(c *gin.Context, raw, secret string, log *logger.Logger) {
	if raw == "" {
		log.Warn("[AUTH] invalid token format")
		abortUnauthorized(c, "invalid token")
		return
	}

	username, err := ParseUserToken(raw, secret)
	if err != nil {
		log.Warn("[AUTH] token validation failed", "error", err)
		abortUnauthorized(c, "unauthorized")
		return
	}

	log.Debug("[AUTH] user token validated", "username", username)
	c.Set(UsernameKey, username)
	c.Next()
}
