package middlewares

import (
	"errors"
	"net/http"

	"github.com/edgarhdzg/reservas-app/models"
	"github.com/edgarhdzg/reservas-app/services"
	"github.com/edgarhdzg/reservas-app/utils"
	"github.com/gin-gonic/gin"
)

// RequireRole gates a route group to the given roles.
func RequireRole(auth *services.AuthService, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.HasRole(roles...) {
			utils.RespondError(c, http.StatusForbidden, errors.New("insufficient role"))
			c.Abort()
			return
		}
		c.Next()
	}
}
