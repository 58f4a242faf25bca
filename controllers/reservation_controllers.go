package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/edgarhdzg/reservas-app/config"
	"github.com/edgarhdzg/reservas-app/models"
	"github.com/edgarhdzg/reservas-app/services"
	"github.com/edgarhdzg/reservas-app/utils"
	"github.com/gin-gonic/gin"
)

type ReservationController struct {
	Flow *services.ReservationFlow
	Svc  *services.ReservationService
	Auth *services.AuthService
}

func NewReservationController(flow *services.ReservationFlow, svc *services.ReservationService, auth *services.AuthService) *ReservationController {
	return &ReservationController{Flow: flow, Svc: svc, Auth: auth}
}

// validateBookingWindow enforces the client-side booking limits; the
// platform validates again with the authoritative rules.
func validateBookingWindow(date string, partySize int) error {
	day, err := utils.ParseDate(date)
	if err != nil {
		return fmt.Errorf("invalid date %q", date)
	}

	today, _ := utils.ParseDate(utils.Today())
	if day.Before(today) {
		return errors.New("date is in the past")
	}
	if day.After(today.AddDate(0, 0, config.MaxReservationDaysAhead)) {
		return fmt.Errorf("date is more than %d days ahead", config.MaxReservationDaysAhead)
	}
	if partySize < 1 || partySize > config.MaxGuestsPerReservation {
		return fmt.Errorf("party size must be between 1 and %d", config.MaxGuestsPerReservation)
	}
	return nil
}

// validateBookingTime enforces the same-day lead time. Future dates
// pass; a slot today must be at least the minimum hours away.
func validateBookingTime(date, timeStr string) error {
	if date != utils.Today() {
		return nil
	}

	t, err := time.Parse("15:04", utils.FormatTime(timeStr))
	if err != nil {
		return fmt.Errorf("invalid time %q", timeStr)
	}

	now := time.Now()
	slot := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
	if slot.Before(now.Add(config.MinReservationHoursAhead * time.Hour)) {
		return fmt.Errorf("same-day reservations need at least %d hours of notice", config.MinReservationHoursAhead)
	}
	return nil
}

// CheckAvailability -> step one of the booking wizard
func (rc *ReservationController) CheckAvailability(c *gin.Context) {
	var req struct {
		Date      string `json:"fecha" binding:"required"`
		PartySize int    `json:"numero_personas" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := validateBookingWindow(req.Date, req.PartySize); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	slots, err := rc.Flow.CheckAvailability(c.Request.Context(), req.Date, req.PartySize)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Available slots", gin.H{
		"fecha":       req.Date,
		"disponibles": slots,
	})
}

// Create -> step two of the booking wizard
func (rc *ReservationController) Create(c *gin.Context) {
	var input models.CreateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := validateBookingWindow(input.Date, input.PartySize); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := validateBookingTime(input.Date, input.Time); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// The reservation is owned by the signed-in user when there is
	// one; otherwise it stays a guest reservation on contact fields.
	if input.UserID == "" {
		if user := rc.Auth.User(); user != nil {
			input.UserID = user.ID
		}
	}

	reservation, err := rc.Flow.CreateReservation(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Reservation created successfully", reservation)
}

// ListMine -> reservations owned by the current user, newest first.
// Degrades to an empty list instead of erroring.
func (rc *ReservationController) ListMine(c *gin.Context) {
	user := rc.Auth.User()
	if user == nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("no active session"))
		return
	}

	list := rc.Flow.GetUserReservations(c.Request.Context(), user.ID)
	utils.RespondJSON(c, http.StatusOK, "User reservations", list)
}

// GetByID -> single reservation detail
func (rc *ReservationController) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid reservation id"))
		return
	}

	reservation, err := rc.Svc.GetReservationByID(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", reservation)
}

// GetByFolio -> lookup by the human-facing reference code
func (rc *ReservationController) GetByFolio(c *gin.Context) {
	reservation, err := rc.Svc.GetReservationByFolio(c.Request.Context(), c.Param("folio"))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", reservation)
}

// Cancel -> terminal transition, surfaced on failure
func (rc *ReservationController) Cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid reservation id"))
		return
	}

	// The cancellation reason is optional, as is the body itself.
	var req struct {
		Reason string `json:"motivo"`
	}
	_ = c.ShouldBindJSON(&req)

	reservation, err := rc.Svc.GetReservationByID(c.Request.Context(), id)
	if err == nil && reservation.Status == models.StatusCancelled {
		utils.RespondJSON(c, http.StatusOK, "Reservation already cancelled", reservation)
		return
	}

	cancelled, err := rc.Flow.CancelReservation(c.Request.Context(), id, req.Reason)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", cancelled)
}

// UpdateStatus -> admin-side status transition request
func (rc *ReservationController) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid reservation id"))
		return
	}

	var req struct {
		Status string `json:"estado" binding:"required,oneof=pendiente confirmada cancelada"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updated, err := rc.Svc.UpdateReservationStatus(c.Request.Context(), id, models.ReservationStatus(req.Status))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation updated", updated)
}
