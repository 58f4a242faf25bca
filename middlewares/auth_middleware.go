package middlewares

import (
	"errors"
	"net/http"

	"github.com/edgarhdzg/reservas-app/services"
	"github.com/edgarhdzg/reservas-app/utils"
	"github.com/gin-gonic/gin"
)

// SessionRequired rejects requests while no operator session is
// active. The gateway holds one session per process; there is no
// per-request token to check.
func SessionRequired(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.User()
		if user == nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("no active session"))
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}
