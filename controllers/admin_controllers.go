package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/edgarhdzg/reservas-app/models"
	"github.com/edgarhdzg/reservas-app/services"
	"github.com/edgarhdzg/reservas-app/utils"
	"github.com/gin-gonic/gin"
)

type AdminController struct {
	Svc *services.AdminService
}

func NewAdminController(svc *services.AdminService) *AdminController {
	return &AdminController{Svc: svc}
}

// Dashboard -> today's and the week's reservation KPIs
func (ac *AdminController) Dashboard(c *gin.Context) {
	stats, err := ac.Svc.GetDashboardStats(c.Request.Context(), c.Query("fecha_inicio"), c.Query("fecha_fin"))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}

// Reservations -> full listing with optional date-range/status filters
func (ac *AdminController) Reservations(c *gin.Context) {
	filters := services.ReservationFilters{
		From: c.Query("fecha_inicio"),
		To:   c.Query("fecha_fin"),
	}
	if estado := c.Query("estado"); estado != "" {
		filters.Status = models.ReservationStatus(estado)
	}

	list, err := ac.Svc.GetAllReservations(c.Request.Context(), filters)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All reservations", list)
}

// UpdateReservation -> admin edit through the admin-panel function
func (ac *AdminController) UpdateReservation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid reservation id"))
		return
	}

	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updated, err := ac.Svc.UpdateReservation(c.Request.Context(), id, fields)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation updated", updated)
}

// Tables -> dining tables with capacity and status
func (ac *AdminController) Tables(c *gin.Context) {
	tables, err := ac.Svc.GetTables(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// Configuration -> restaurant settings, passed through untouched
func (ac *AdminController) Configuration(c *gin.Context) {
	cfg, err := ac.Svc.GetConfiguration(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Configuration", cfg)
}

// GenerateReport -> summary statistics plus AI-generated insights
func (ac *AdminController) GenerateReport(c *gin.Context) {
	var req models.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	report, err := ac.Svc.GenerateReport(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Report generated", report)
}

// SendNotification -> reservation email through the platform
func (ac *AdminController) SendNotification(c *gin.Context) {
	var req models.NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := ac.Svc.SendNotification(c.Request.Context(), req); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification sent", nil)
}
