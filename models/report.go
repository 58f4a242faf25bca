package models

// AIInsight is one generated insight inside a report.
type AIInsight struct {
	ID          int64          `json:"id,omitempty"`
	Type        string         `json:"tipo_insight"`
	Title       string         `json:"titulo"`
	Content     string         `json:"contenido"`
	PeriodStart string         `json:"periodo_inicio"`
	PeriodEnd   string         `json:"periodo_fin"`
	Metadata    map[string]any `json:"metadatos,omitempty"`
	Confidence  float64        `json:"confianza_score"`
	CreatedAt   string         `json:"created_at,omitempty"`
}

// ReportRequest selects the report type and date range for the
// report-generation function.
type ReportRequest struct {
	Type string `json:"tipo_reporte" binding:"required,oneof=insights_ia ocupacion_diaria reporte_completo"`
	From string `json:"fecha_desde" binding:"required"`
	To   string `json:"fecha_hasta" binding:"required"`
}

// ReportSummary is the aggregate block of a generated report.
type ReportSummary struct {
	TotalReservations     int    `json:"total_reservas"`
	ConfirmedReservations int    `json:"reservas_confirmadas"`
	CancelledReservations int    `json:"reservas_canceladas"`
	ConfirmationRate      float64 `json:"tasa_confirmacion"`
	CancellationRate      float64 `json:"tasa_cancelacion"`
	AveragePartySize      string  `json:"promedio_personas"`
}

// Report is the response of the report-generation function.
type Report struct {
	Metadata struct {
		Type        string `json:"tipo_reporte"`
		GeneratedAt string `json:"fecha_generacion"`
		Period      struct {
			From string `json:"desde"`
			To   string `json:"hasta"`
		} `json:"periodo"`
	} `json:"metadata"`
	Data struct {
		Type              string        `json:"tipo"`
		Summary           ReportSummary `json:"resumen_analisis"`
		InsightsGenerated int           `json:"insights_generados"`
		Insights          []AIInsight   `json:"insights"`
	} `json:"data"`
}

// DayStats is a per-period block of the dashboard statistics.
type DayStats struct {
	Date                  string `json:"fecha,omitempty"`
	TotalReservations     int    `json:"total_reservas"`
	ConfirmedReservations int    `json:"reservas_confirmadas"`
	PendingReservations   int    `json:"reservas_pendientes,omitempty"`
	CancelledReservations int    `json:"reservas_canceladas"`
	TotalGuests           int    `json:"total_personas"`
}

// DashboardStats is the response of the dashboard-stats admin action.
type DashboardStats struct {
	Today  DayStats `json:"today"`
	Weekly DayStats `json:"weekly"`
}

// NotificationRequest is the payload of the send-notification
// function. Type is one of confirmacion, recordatorio, cancelacion.
type NotificationRequest struct {
	Type          string `json:"tipo" binding:"required,oneof=confirmacion recordatorio cancelacion"`
	ReservationID int64  `json:"reserva_id" binding:"required"`
	Recipient     string `json:"destinatario" binding:"required,email"`
	Details       struct {
		Folio string `json:"folio"`
		Date  string `json:"fecha"`
		Time  string `json:"hora"`
	} `json:"datos_reserva"`
}
