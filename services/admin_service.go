package services

import (
	"context"
	"encoding/json"

	"github.com/edgarhdzg/reservas-app/models"
	"github.com/edgarhdzg/reservas-app/platform"
	"github.com/edgarhdzg/reservas-app/utils"
)

// AdminService wraps the admin-panel actions, report generation and
// notification sending. The admin functions authorize with the anon
// key; row-level rules on the platform side gate the data.
type AdminService struct {
	client *platform.Client
}

func NewAdminService(client *platform.Client) *AdminService {
	return &AdminService{client: client}
}

// ReservationFilters narrow the admin reservation listing.
type ReservationFilters struct {
	From   string
	To     string
	Status models.ReservationStatus
}

func (s *AdminService) adminAction(ctx context.Context, payload map[string]any, dest any) error {
	body, err := s.client.InvokeFunctionAnon(ctx, platform.FnAdminPanel, payload)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	var out struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return err
	}
	return json.Unmarshal(out.Data, dest)
}

// GetDashboardStats fetches today's and the week's reservation KPIs.
func (s *AdminService) GetDashboardStats(ctx context.Context, from, to string) (*models.DashboardStats, error) {
	payload := map[string]any{
		"action": "get_dashboard_stats",
	}
	if from != "" {
		payload["fecha_inicio"] = from
	}
	if to != "" {
		payload["fecha_fin"] = to
	}

	var stats models.DashboardStats
	if err := s.adminAction(ctx, payload, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GenerateReport runs the report function over a date range and
// returns the summary statistics plus the generated insights.
func (s *AdminService) GenerateReport(ctx context.Context, req models.ReportRequest) (*models.Report, error) {
	body, err := s.client.InvokeFunctionAnon(ctx, platform.FnGenerateReport, req)
	if err != nil {
		return nil, err
	}

	var out struct {
		Data models.Report `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("report %s generated, %d insights", req.Type, out.Data.Data.InsightsGenerated)
	return &out.Data, nil
}

// GetAllReservations lists reservations across all users, newest date
// first, optionally narrowed by date range and status.
func (s *AdminService) GetAllReservations(ctx context.Context, f ReservationFilters) ([]models.Reservation, error) {
	q := s.client.From(reservationTable).OrderDesc("fecha")
	if f.From != "" {
		q = q.Gte("fecha", f.From)
	}
	if f.To != "" {
		q = q.Lte("fecha", f.To)
	}
	if f.Status != "" {
		q = q.Eq("estado", string(f.Status))
	}

	var list []models.Reservation
	if err := q.Get(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateReservation applies admin edits to a reservation through the
// admin-panel function.
func (s *AdminService) UpdateReservation(ctx context.Context, id int64, fields map[string]any) (*models.Reservation, error) {
	payload := map[string]any{
		"action":     "update_reservation",
		"id_reserva": id,
	}
	for k, v := range fields {
		payload[k] = v
	}

	var r models.Reservation
	if err := s.adminAction(ctx, payload, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetTables lists the dining tables with capacity and status.
func (s *AdminService) GetTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := s.adminAction(ctx, map[string]any{"action": "get_tables"}, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// GetConfiguration returns the restaurant settings as the platform
// stores them, untouched.
func (s *AdminService) GetConfiguration(ctx context.Context) (map[string]any, error) {
	var cfg map[string]any
	if err := s.adminAction(ctx, map[string]any{"action": "get_configuracion"}, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SendNotification asks the platform to send a reservation email
// (confirmation, reminder or cancellation).
func (s *AdminService) SendNotification(ctx context.Context, req models.NotificationRequest) error {
	_, err := s.client.InvokeFunctionAnon(ctx, platform.FnSendNotification, req)
	return err
}
