// admin_only.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dossier-status-service/internal/workflow"
)

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) != workflow.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin privileges required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
