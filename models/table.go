package models

// TableStatus is the operational state of a dining table.
type TableStatus string

const (
	TableAvailable    TableStatus = "disponible"
	TableOccupied     TableStatus = "ocupada"
	TableMaintenance  TableStatus = "mantenimiento"
	TableOutOfService TableStatus = "fuera_servicio"
)

// Table is read and written only through the admin-panel function.
type Table struct {
	ID       int64       `json:"id"`
	Number   string      `json:"numero_mesa"`
	Capacity int         `json:"capacidad"`
	Location string      `json:"ubicacion"`
	Active   bool        `json:"activa"`
	Status   TableStatus `json:"estado"`
}
