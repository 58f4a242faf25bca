package models

// ReservationStatus is the closed three-state reservation lifecycle.
// Cancelled is terminal; this client only requests transitions, the
// platform decides them.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pendiente"
	StatusConfirmed ReservationStatus = "confirmada"
	StatusCancelled ReservationStatus = "cancelada"
)

// Reservation mirrors a row of the platform's reservation store.
// Guest reservations carry contact fields instead of a user id.
type Reservation struct {
	ID           int64             `json:"id_reserva"`
	Date         string            `json:"fecha"`
	Time         string            `json:"hora"`
	PartySize    int               `json:"personas"`
	Status       ReservationStatus `json:"estado"`
	UserID       string            `json:"id_usuario,omitempty"`
	GuestName    string            `json:"nombre_invitado,omitempty"`
	GuestEmail   string            `json:"email_invitado"`
	GuestPhone   string            `json:"telefono_invitado"`
	Folio        string            `json:"folio"`
	Notes        string            `json:"notas,omitempty"`
	CancelReason string            `json:"motivo_cancelacion,omitempty"`
	CreatedAt    string            `json:"created_at"`
}

// CreateReservationInput is the payload of the create-reservation
// server function.
type CreateReservationInput struct {
	Date      string `json:"fecha" binding:"required"`
	Time      string `json:"hora" binding:"required"`
	PartySize int    `json:"numero_personas" binding:"required,min=1"`
	Name      string `json:"nombre_cliente" binding:"required"`
	Email     string `json:"email_cliente" binding:"required,email"`
	Phone     string `json:"telefono_cliente" binding:"required"`
	Notes     string `json:"notas,omitempty"`
	UserID    string `json:"id_usuario,omitempty"`
}

// AvailabilitySlot is a bookable time for a given date. Available is
// derived client-side from the remaining table count.
type AvailabilitySlot struct {
	Time            string `json:"hora"`
	Available       bool   `json:"disponible"`
	TablesAvailable int    `json:"mesas_disponibles,omitempty"`
	Shift           string `json:"turno,omitempty"`
}
