package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/odonto-api/internal/application/analytics"
	"github.com/jhoicas/odonto-api/internal/application/auth"
	"github.com/jhoicas/odonto-api/internal/application/inventory"
	"github.com/jhoicas/odonto-api/internal/application/report"
	"github.com/jhoicas/odonto-api/internal/application/scheduling"
	"github.com/jhoicas/odonto-api/internal/application/usecase"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	AppointmentUC    *scheduling.AppointmentUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	MaterialUsage    *inventory.MaterialUsageUseCase
	LedgerQueries    *inventory.LedgerQueryUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	MaterialUC       *usecase.MaterialUseCase
	PatientUC        *usecase.PatientUseCase
	DentistUC        *usecase.DentistUseCase
	HealthPlanUC     *usecase.HealthPlanUseCase
	DashboardUC      *appanalytics.DashboardUseCase
	ReportUC         *report.ReportUseCase
	Location         *time.Location
	JWTSecret        string
}

// Roles agrupados como en los controladores de la clínica.
var (
	rolesFrontDesk = []string{entity.RoleAdmin, entity.RoleRecepcionista}
	rolesClinical  = []string{entity.RoleAdmin, entity.RoleDentista, entity.RoleRecepcionista}
	rolesStock     = []string{entity.RoleAdmin, entity.RoleDentista, entity.RoleRecepcionista, entity.RoleAsistente}
	rolesUsage     = []string{entity.RoleAdmin, entity.RoleDentista, entity.RoleAsistente}
	rolesAdmin     = []string{entity.RoleAdmin}
)

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token de un usuario activo)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireActiveUser(deps.AuthUC))

	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/register", RequireRole(rolesAdmin...), authHandler.Register)

	// Agenda
	appointments := protected.Group("/appointments")
	apptHandler := NewAppointmentHandler(deps.AppointmentUC)
	reportHandler := NewReportHandler(deps.ReportUC, deps.Location)
	appointments.Post("/", RequireRole(rolesFrontDesk...), apptHandler.Create)
	appointments.Get("/", RequireRole(rolesClinical...), apptHandler.ListByPeriod)
	appointments.Get("/dentist/:dentistId", RequireRole(rolesClinical...), apptHandler.ListByDentistDay)
	appointments.Get("/patient/:patientId", RequireRole(rolesClinical...), apptHandler.ListByPatient)
	appointments.Get("/:id", RequireRole(rolesClinical...), apptHandler.GetByID)
	appointments.Get("/:id/receipt", RequireRole(rolesClinical...), reportHandler.AppointmentReceipt)
	appointments.Put("/:id", RequireRole(rolesFrontDesk...), apptHandler.Update)
	appointments.Patch("/:id/status", RequireRole(rolesClinical...), apptHandler.ChangeStatus)
	appointments.Post("/:id/cancel", RequireRole(rolesFrontDesk...), apptHandler.Cancel)

	// Libro de inventario
	inv := protected.Group("/inventory")
	invHandler := NewInventoryHandler(deps.RegisterMovement, deps.MaterialUsage, deps.LedgerQueries, deps.Replenishment, deps.Location)
	inv.Post("/movements", RequireRole(rolesStock...), invHandler.RegisterMovement)
	inv.Get("/movements", RequireRole(rolesStock...), invHandler.ListMovements)
	inv.Get("/movements/month-count", RequireRole(rolesStock...), invHandler.MovementsThisMonth)
	inv.Post("/usages", RequireRole(rolesUsage...), invHandler.RegisterUsage)
	inv.Patch("/usages/:id", RequireRole(rolesUsage...), invHandler.UpdateUsageQuantity)
	inv.Delete("/usages/:id", RequireRole(rolesUsage...), invHandler.RemoveUsage)
	inv.Get("/usages/appointment/:id", RequireRole(rolesStock...), invHandler.UsagesByAppointment)
	inv.Get("/usages/appointment/:id/total", RequireRole(rolesStock...), invHandler.AppointmentMaterialTotal)
	inv.Get("/usages/material/:id", RequireRole(rolesStock...), invHandler.UsagesByMaterial)
	inv.Get("/replenishment-list", RequireRole(rolesStock...), invHandler.GetReplenishmentList)

	// Materiales (rutas estáticas antes de /:id)
	materials := protected.Group("/materials")
	matHandler := NewMaterialHandler(deps.MaterialUC)
	materials.Post("/", RequireRole(rolesFrontDesk...), matHandler.Create)
	materials.Get("/low-stock", matHandler.ListLowStock)
	materials.Get("/categories", matHandler.ListCategories)
	materials.Get("/:id", matHandler.GetByID)
	materials.Get("/:id/movements/export", RequireRole(rolesClinical...), reportHandler.MaterialLedger)
	materials.Put("/:id", RequireRole(rolesFrontDesk...), matHandler.Update)
	materials.Patch("/:id/active", RequireRole(rolesFrontDesk...), matHandler.SetActive)

	// Pacientes
	patients := protected.Group("/patients")
	patientHandler := NewPatientHandler(deps.PatientUC)
	patients.Post("/", RequireRole(rolesFrontDesk...), patientHandler.Create)
	patients.Get("/:id", patientHandler.GetByID)
	patients.Put("/:id", RequireRole(rolesFrontDesk...), patientHandler.Update)
	patients.Patch("/:id/active", RequireRole(rolesFrontDesk...), patientHandler.SetActive)

	// Dentistas
	dentists := protected.Group("/dentists")
	dentistHandler := NewDentistHandler(deps.DentistUC)
	dentists.Post("/", RequireRole(rolesFrontDesk...), dentistHandler.Create)
	dentists.Get("/:id", dentistHandler.GetByID)
	dentists.Put("/:id", RequireRole(rolesFrontDesk...), dentistHandler.Update)
	dentists.Patch("/:id/active", RequireRole(rolesFrontDesk...), dentistHandler.SetActive)

	// Convenios
	plans := protected.Group("/health-plans")
	planHandler := NewHealthPlanHandler(deps.HealthPlanUC)
	plans.Post("/", RequireRole(rolesAdmin...), planHandler.Create)
	plans.Get("/", planHandler.List)
	plans.Get("/:id", planHandler.GetByID)
	plans.Put("/:id", RequireRole(rolesAdmin...), planHandler.Update)
	plans.Patch("/:id/toggle", RequireRole(rolesAdmin...), planHandler.ToggleActive)
	plans.Delete("/:id", RequireRole(rolesAdmin...), planHandler.Delete)

	// Dashboard
	dashHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/metrics", RequireRole(rolesClinical...), dashHandler.GetMetrics)
}
