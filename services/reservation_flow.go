package services

import (
	"context"
	"sync"

	"github.com/edgarhdzg/reservas-app/models"
	"github.com/edgarhdzg/reservas-app/utils"
)

// ReservationFlow is the stateful wrapper the booking screens consume:
// it carries a loading flag and the last normalized error message
// around the reservation operations.
type ReservationFlow struct {
	svc *ReservationService

	mu      sync.RWMutex
	loading bool
	lastErr string
}

func NewReservationFlow(svc *ReservationService) *ReservationFlow {
	return &ReservationFlow{svc: svc}
}

// Loading reports whether an operation is in flight.
func (f *ReservationFlow) Loading() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loading
}

// Err returns the normalized message of the last failed operation,
// empty after a success.
func (f *ReservationFlow) Err() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lastErr
}

func (f *ReservationFlow) begin() {
	f.mu.Lock()
	f.loading = true
	f.lastErr = ""
	f.mu.Unlock()
}

func (f *ReservationFlow) finish(err error) {
	f.mu.Lock()
	f.loading = false
	if err != nil {
		f.lastErr = utils.ErrorMessage(err)
	}
	f.mu.Unlock()
}

func (f *ReservationFlow) CheckAvailability(ctx context.Context, date string, partySize int) ([]models.AvailabilitySlot, error) {
	f.begin()
	slots, err := f.svc.CheckAvailability(ctx, date, partySize)
	f.finish(err)
	return slots, err
}

func (f *ReservationFlow) CreateReservation(ctx context.Context, input models.CreateReservationInput) (*models.Reservation, error) {
	f.begin()
	r, err := f.svc.CreateReservation(ctx, input)
	f.finish(err)
	return r, err
}

// GetUserReservations never fails; the flow's error state is left
// untouched by design.
func (f *ReservationFlow) GetUserReservations(ctx context.Context, userID string) []models.Reservation {
	f.begin()
	list := f.svc.GetUserReservations(ctx, userID)
	f.finish(nil)
	return list
}

func (f *ReservationFlow) CancelReservation(ctx context.Context, id int64, reason string) (*models.Reservation, error) {
	f.begin()
	r, err := f.svc.CancelReservation(ctx, id, reason)
	f.finish(err)
	return r, err
}
