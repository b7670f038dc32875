package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/marwyg/annotation-tool/internal/pkg/ctxutil"
	"github.com/marwyg/annotation-tool/internal/platform/logger"
	"github.com/marwyg/annotation-tool/internal/services"
)

// adminRole is the role the host platform grants to annotation admins.
const adminRole = "annotate-admin"

// AuthMiddleware turns the host platform's JWT into a request Principal.
// The token is issued by the host; this service never mints tokens or
// manages accounts. The local user row id is resolved by external id and
// stays zero until the user has been created through the users endpoint.
type AuthMiddleware struct {
	log     *logger.Logger
	secret  []byte
	service services.ExtendedAnnotationService
}

func NewAuthMiddleware(log *logger.Logger, secret string, service services.ExtendedAnnotationService) *AuthMiddleware {
	return &AuthMiddleware{
		log:     log.With("Middleware", "AuthMiddleware"),
		secret:  []byte(secret),
		service: service,
	}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			abortUnauthorized(c, "missing or invalid token")
			return
		}
		principal, err := am.parsePrincipal(tokenString)
		if err != nil {
			am.log.Debug("token rejected", "error", err)
			abortUnauthorized(c, "missing or invalid token")
			return
		}
		user, err := am.service.GetUserByExtID(c.Request.Context(), principal.ExtID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"message": "user lookup failed", "code": "internal"},
			})
			return
		}
		if user != nil {
			principal.UserID = user.ID
		}
		c.Request = c.Request.WithContext(ctxutil.WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

func (am *AuthMiddleware) parsePrincipal(tokenString string) (*ctxutil.Principal, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return am.secret, nil
	})
	if err != nil {
		return nil, err
	}
	extID, _ := claims["sub"].(string)
	if extID == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	principal := &ctxutil.Principal{
		ExtID:    extID,
		Nickname: extID,
	}
	if nickname, ok := claims["nickname"].(string); ok && nickname != "" {
		principal.Nickname = nickname
	}
	if email, ok := claims["email"].(string); ok && email != "" {
		principal.Email = &email
	}
	if roles, ok := claims["roles"].([]interface{}); ok {
		for _, role := range roles {
			if r, ok := role.(string); ok && r == adminRole {
				principal.Admin = true
			}
		}
	}
	return principal, nil
}

func extractToken(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"message": msg, "code": "unauthorized"},
	})
}
