package dto

import "github.com/shopspring/decimal"

// DashboardMetrics indicadores del panel principal.
type DashboardMetrics struct {
	ActivePatients          int64           `json:"active_patients"`
	PatientsRegisteredMonth int64           `json:"patients_registered_month"`
	ActiveDentists          int64           `json:"active_dentists"`
	AppointmentsToday       int64           `json:"appointments_today"`
	ScheduledToday          int64           `json:"scheduled_today"`
	CompletedToday          int64           `json:"completed_today"`
	AppointmentsMonth       int64           `json:"appointments_month"`
	MonthlyRevenue          decimal.Decimal `json:"monthly_revenue"`
	TotalUsers              int64           `json:"total_users"`
	LowStockMaterials       int64           `json:"low_stock_materials"`
	MovementsMonth          int64           `json:"movements_month"`
	MaterialCostMonth       decimal.Decimal `json:"material_cost_month"`
}
