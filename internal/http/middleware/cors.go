package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/marwyg/annotation-tool/internal/pkg/envutil"
)

// CORS allows the annotation frontend, which is served by the host video
// platform under a different origin. Origins come from CORS_ALLOWED_ORIGINS
// (comma separated).
func CORS() gin.HandlerFunc {
	origins := strings.Split(envutil.String("CORS_ALLOWED_ORIGINS", "http://localhost:8080,http://localhost:3000"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Location"},
		AllowCredentials: true,
	})
}
