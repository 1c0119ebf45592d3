package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"user-directory-api/internal/infrastructure/jwt"
	"user-directory-api/internal/interface/api/rest/dto/user"
)

const (
	CtxOperator     = "operator"
	CtxOperatorRole = "operatorRole"
)

// AuthMiddleware requires a bearer token signed by jwtService. A nil service
// leaves the routes open.
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	if jwtService == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing Authorization header")
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			abortUnauthorized(c, "invalid token format")
			return
		}

		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}

		c.Set(CtxOperator, claims.Subject)
		c.Set(CtxOperatorRole, claims.Role)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(
		http.StatusUnauthorized,
		user.ErrorResponse{Status: user.StatusError, Message: msg},
	)
}
