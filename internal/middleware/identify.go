// identify.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dossier-status-service/internal/workflow"
)

// Identify lee la identidad que inyecta el gateway (que ya autenticó la
// petición) y la deja en el contexto. Aquí se confía en el rol declarado:
// este servicio no re-valida credenciales.
func Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-Id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			c.Abort()
			return
		}

		role, ok := workflow.ParseRole(c.GetHeader("X-User-Role"))
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "unknown role"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Set("userName", c.GetHeader("X-User-Name"))
		c.Set("userRole", string(role))
		c.Next()
	}
}

// Role recupera el rol que dejó Identify en el contexto.
func Role(c *gin.Context) workflow.Role {
	return workflow.Role(c.GetString("userRole"))
}
