package router

import (
	"github.com/edgarhdzg/reservas-app/controllers"
	"github.com/edgarhdzg/reservas-app/middlewares"
	"github.com/edgarhdzg/reservas-app/models"
	"github.com/edgarhdzg/reservas-app/services"
	"github.com/gin-gonic/gin"
)

// Deps are the constructed services the routes are wired onto.
type Deps struct {
	Auth         *services.AuthService
	Reservations *services.ReservationService
	Flow         *services.ReservationFlow
	Admin        *services.AdminService
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	authCtrl := controllers.NewAuthController(d.Auth)
	resCtrl := controllers.NewReservationController(d.Flow, d.Reservations, d.Auth)
	adminCtrl := controllers.NewAdminController(d.Admin)

	api := r.Group("/api/v1")

	// Credential endpoints get a stricter per-IP budget on top of the
	// global limiter.
	strict := middlewares.NewAuthRateLimiter().RateLimit()

	auth := api.Group("/auth")
	{
		auth.POST("/login", strict, authCtrl.Login)
		auth.POST("/register", strict, authCtrl.Register)
		auth.POST("/logout", authCtrl.Logout)
		auth.GET("/me", authCtrl.Me)
	}

	// Availability lookup and creation stay open: guests book without
	// an account, on contact fields alone.
	reservations := api.Group("/reservations")
	{
		reservations.POST("/availability", resCtrl.CheckAvailability)
		reservations.POST("", resCtrl.Create)
		reservations.GET("/folio/:folio", resCtrl.GetByFolio)
	}

	mine := api.Group("/reservations", middlewares.SessionRequired(d.Auth))
	{
		mine.GET("/mine", resCtrl.ListMine)
		mine.GET("/:id", resCtrl.GetByID)
		mine.POST("/:id/cancel", resCtrl.Cancel)
	}

	// Waiters can look at the admin views but not change anything.
	adminRead := api.Group("/admin",
		middlewares.SessionRequired(d.Auth),
		middlewares.RequireRole(d.Auth, models.RoleManager, models.RoleAdmin, models.RoleWaiter))
	{
		adminRead.GET("/dashboard", adminCtrl.Dashboard)
		adminRead.GET("/reservations", adminCtrl.Reservations)
		adminRead.GET("/tables", adminCtrl.Tables)
		adminRead.GET("/configuracion", adminCtrl.Configuration)
	}

	admin := api.Group("/admin",
		middlewares.SessionRequired(d.Auth),
		middlewares.RequireRole(d.Auth, models.RoleManager, models.RoleAdmin))
	{
		admin.PATCH("/reservations/:id", adminCtrl.UpdateReservation)
		admin.PATCH("/reservations/:id/status", resCtrl.UpdateStatus)
		admin.POST("/reports", adminCtrl.GenerateReport)
		admin.POST("/notifications", adminCtrl.SendNotification)
	}

	return r
}
