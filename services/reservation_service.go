package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/edgarhdzg/reservas-app/models"
	"github.com/edgarhdzg/reservas-app/platform"
	"github.com/edgarhdzg/reservas-app/utils"
)

const (
	reservationTable = "reservas"
	queryTimeout     = 5 * time.Second
)

// ReservationService wraps the platform calls behind the customer
// booking flow: availability lookup, creation, listing and
// cancellation.
type ReservationService struct {
	client *platform.Client
}

func NewReservationService(client *platform.Client) *ReservationService {
	return &ReservationService{client: client}
}

// backendSlot is the slot shape the availability function returns.
type backendSlot struct {
	Time            string `json:"hora"`
	Shift           string `json:"turno"`
	TablesAvailable int    `json:"mesas_disponibles"`
}

// CheckAvailability asks the platform for the bookable slots of a
// date and party size. A slot is available iff tables remain. An
// unexpected response shape yields an empty list, never an error.
func (s *ReservationService) CheckAvailability(ctx context.Context, date string, partySize int) ([]models.AvailabilitySlot, error) {
	payload := map[string]any{
		"fecha":           date,
		"numero_personas": partySize,
	}
	body, err := s.client.InvokeFunction(ctx, platform.FnSearchAvailability, payload)
	if err != nil {
		return nil, err
	}

	var out struct {
		Data struct {
			Available []backendSlot `json:"disponibles"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		utils.ErrorLogger.Warnf("unexpected availability response shape: %v", err)
		return []models.AvailabilitySlot{}, nil
	}

	slots := make([]models.AvailabilitySlot, 0, len(out.Data.Available))
	for _, raw := range out.Data.Available {
		slots = append(slots, models.AvailabilitySlot{
			Time:            raw.Time,
			Shift:           raw.Shift,
			TablesAvailable: raw.TablesAvailable,
			Available:       raw.TablesAvailable > 0,
		})
	}
	return slots, nil
}

// CreateReservation posts the full payload to the create-reservation
// function. A non-success response surfaces the most specific message
// the body offers.
func (s *ReservationService) CreateReservation(ctx context.Context, input models.CreateReservationInput) (*models.Reservation, error) {
	body, err := s.client.InvokeFunction(ctx, platform.FnCreateReservation, input)
	if err != nil {
		return nil, err
	}

	var out struct {
		Data models.Reservation `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("reservation created, folio %s", out.Data.Folio)
	return &out.Data, nil
}

// GetUserReservations lists a user's reservations, newest date first.
// Failures degrade to an empty list: the reservations view shows "no
// reservations" rather than an error.
func (s *ReservationService) GetUserReservations(ctx context.Context, userID string) []models.Reservation {
	qctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var list []models.Reservation
	err := s.client.From(reservationTable).
		Eq("id_usuario", userID).
		OrderDesc("fecha").
		Get(qctx, &list)
	if err != nil {
		utils.ErrorLogger.Warnf("listing reservations for %s failed: %v", userID, err)
		return []models.Reservation{}
	}
	if list == nil {
		list = []models.Reservation{}
	}
	return list
}

// GetReservationByID fetches one reservation by its internal id.
func (s *ReservationService) GetReservationByID(ctx context.Context, id int64) (*models.Reservation, error) {
	var r models.Reservation
	err := s.client.From(reservationTable).
		Eq("id_reserva", strconv.FormatInt(id, 10)).
		Single().
		Get(ctx, &r)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetReservationByFolio fetches one reservation by its human-facing
// reference code.
func (s *ReservationService) GetReservationByFolio(ctx context.Context, folio string) (*models.Reservation, error) {
	var r models.Reservation
	err := s.client.From(reservationTable).
		Eq("folio", folio).
		Single().
		Get(ctx, &r)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CancelReservation marks a reservation cancelled with an optional
// reason. Unlike the list path, failures here are surfaced to the
// caller.
func (s *ReservationService) CancelReservation(ctx context.Context, id int64, reason string) (*models.Reservation, error) {
	qctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	fields := map[string]any{
		"estado": string(models.StatusCancelled),
	}
	if reason != "" {
		fields["motivo_cancelacion"] = reason
	}

	var r models.Reservation
	err := s.client.From(reservationTable).
		Eq("id_reserva", strconv.FormatInt(id, 10)).
		Single().
		Update(qctx, fields, &r)
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("reservation %d cancelled", id)
	return &r, nil
}

// UpdateReservationStatus requests a status transition. The client
// never decides transitions itself; the platform enforces them.
func (s *ReservationService) UpdateReservationStatus(ctx context.Context, id int64, status models.ReservationStatus) (*models.Reservation, error) {
	var r models.Reservation
	err := s.client.From(reservationTable).
		Eq("id_reserva", strconv.FormatInt(id, 10)).
		Single().
		Update(ctx, map[string]any{"estado": string(status)}, &r)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
