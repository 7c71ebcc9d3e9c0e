package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/odonto-api/internal/application/analytics"
	"github.com/jhoicas/odonto-api/internal/application/auth"
	"github.com/jhoicas/odonto-api/internal/application/dto"
	"github.com/jhoicas/odonto-api/internal/application/inventory"
	"github.com/jhoicas/odonto-api/internal/application/report"
	"github.com/jhoicas/odonto-api/internal/application/scheduling"
	"github.com/jhoicas/odonto-api/internal/application/usecase"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/infrastructure/excel"
	"github.com/jhoicas/odonto-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/odonto-api/internal/interfaces/http"
	"github.com/jhoicas/odonto-api/internal/testutil/memstore"
	pkgjwt "github.com/jhoicas/odonto-api/pkg/jwt"
)

// clinic arma la API completa sobre el store en memoria.
type clinic struct {
	app    *fiber.App
	store  *memstore.Store
	authUC *auth.AuthUseCase
}

func newClinic(t *testing.T) *clinic {
	t.Helper()
	s := memstore.New()
	loc := time.UTC

	authUC := auth.NewAuthUseCase(s.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	apptUC := scheduling.NewAppointmentUseCase(s, s.Appointments(), s.Patients(), s.Dentists(), loc, nil, nil)
	ledger := inventory.NewRegisterMovementUseCase(s, s.Users(), s.Appointments(), nil, nil)
	usages := inventory.NewMaterialUsageUseCase(s, ledger, s.Users(), s.Appointments(), s.Patients(), nil, nil)
	queries := inventory.NewLedgerQueryUseCase(s.Movements(), s.Usages(), s.Materials(), s.Users(), loc)
	materialUC := usecase.NewMaterialUseCase(s.Materials(), s, ledger)
	dashboardUC := appanalytics.NewDashboardUseCase(appanalytics.Repositories{
		Patients:     s.Patients(),
		Dentists:     s.Dentists(),
		Appointments: s.Appointments(),
		Materials:    s.Materials(),
		Movements:    s.Movements(),
		Usages:       s.Usages(),
		Users:        s.Users(),
	}, nil, 0, loc, nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:           authUC,
		AppointmentUC:    apptUC,
		RegisterMovement: ledger,
		MaterialUsage:    usages,
		LedgerQueries:    queries,
		Replenishment:    inventory.NewReplenishmentUseCase(s.Materials(), s.Movements()),
		MaterialUC:       materialUC,
		PatientUC:        usecase.NewPatientUseCase(s.Patients(), s.HealthPlans()),
		DentistUC:        usecase.NewDentistUseCase(s.Dentists()),
		HealthPlanUC:     usecase.NewHealthPlanUseCase(s.HealthPlans(), s.Patients()),
		DashboardUC:      dashboardUC,
		ReportUC:         report.NewReportUseCase("Clínica Test", apptUC, queries, materialUC, pdf.NewMarotoPDFGenerator(), excel.NewLedgerExporter()),
		Location:         loc,
		JWTSecret:        testJWTSecret,
	})
	return &clinic{app: app, store: s, authUC: authUC}
}

// userToken registra un usuario con el rol indicado y devuelve su header Authorization.
func (c *clinic) userToken(t *testing.T, email, role string) string {
	t.Helper()
	u, err := c.authUC.RegisterUser(context.Background(), dto.RegisterRequest{Name: role, Email: email, Password: "secreta123", Role: role})
	require.NoError(t, err)
	tok, err := pkgjwt.Generate(testJWTSecret, u.ID, u.Name, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (c *clinic) do(t *testing.T, method, path, authHeader string, body interface{}) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	return e.Code
}

// seedAgenda crea un paciente y un dentista activos.
func (c *clinic) seedAgenda(t *testing.T) (patientID, dentistID int64) {
	t.Helper()
	ctx := context.Background()
	p := &entity.Patient{Name: "Maria Silva", CPF: "12345678901", Active: true}
	require.NoError(t, c.store.Patients().Create(ctx, p))
	d := &entity.Dentist{Name: "Dr. João", Email: "joao@clinica.com", CRO: "SP-1", Active: true}
	require.NoError(t, c.store.Dentists().Create(ctx, d))
	return p.ID, d.ID
}

func TestLogin_CredencialesValidasDevuelveToken(t *testing.T) {
	c := newClinic(t)
	_, err := c.authUC.EnsureAdmin(context.Background(), "Admin", "admin@clinica.com", "secreta123")
	require.NoError(t, err)

	status, body := c.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ADMIN@clinica.com", Password: "secreta123"})
	require.Equal(t, http.StatusOK, status, string(body))

	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)

	status, body = c.do(t, http.MethodGet, "/api/auth/me", "Bearer "+out.Token, nil)
	assert.Equal(t, http.StatusOK, status, string(body))
}

func TestLogin_PasswordIncorrectoRetorna401(t *testing.T) {
	c := newClinic(t)
	_, err := c.authUC.EnsureAdmin(context.Background(), "Admin", "admin@clinica.com", "secreta123")
	require.NoError(t, err)

	status, body := c.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@clinica.com", Password: "otra"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))
}

func TestRutasProtegidas_SinTokenRetorna401(t *testing.T) {
	c := newClinic(t)
	status, body := c.do(t, http.MethodGet, "/api/health-plans", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, body))
}

func TestRutasProtegidas_UsuarioInexistenteRetorna401(t *testing.T) {
	c := newClinic(t)
	status, _ := c.do(t, http.MethodGet, "/api/health-plans", tokenForRole(t, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRutasProtegidas_UsuarioInactivoRetorna403(t *testing.T) {
	c := newClinic(t)
	u := &entity.User{Name: "Ex", Email: "ex@clinica.com", Role: entity.RoleAdmin, Active: false}
	require.NoError(t, c.store.Users().Create(context.Background(), u))
	tok, err := pkgjwt.Generate(testJWTSecret, u.ID, u.Name, u.Role, testIssuer, testExpMin)
	require.NoError(t, err)

	status, _ := c.do(t, http.MethodGet, "/api/health-plans", "Bearer "+tok, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRegister_SoloAdmin(t *testing.T) {
	c := newClinic(t)
	recep := c.userToken(t, "recep@clinica.com", entity.RoleRecepcionista)
	admin := c.userToken(t, "admin@clinica.com", entity.RoleAdmin)
	in := dto.RegisterRequest{Name: "Dra. Ana", Email: "ana@clinica.com", Password: "secreta123", Role: entity.RoleDentista}

	status, _ := c.do(t, http.MethodPost, "/api/auth/register", recep, in)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := c.do(t, http.MethodPost, "/api/auth/register", admin, in)
	assert.Equal(t, http.StatusCreated, status, string(body))

	status, body = c.do(t, http.MethodPost, "/api/auth/register", admin, in)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE_KEY", errorCode(t, body))
}

func TestCreateAppointment_ConflictoDeHorarioRetorna409(t *testing.T) {
	c := newClinic(t)
	recep := c.userToken(t, "recep@clinica.com", entity.RoleRecepcionista)
	patientID, dentistID := c.seedAgenda(t)
	start := time.Date(2030, 3, 10, 14, 0, 0, 0, time.UTC)

	status, body := c.do(t, http.MethodPost, "/api/appointments", recep,
		dto.CreateAppointmentRequest{PatientID: patientID, DentistID: dentistID, ScheduledAt: start})
	require.Equal(t, http.StatusCreated, status, string(body))

	var created dto.AppointmentResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, string(entity.StatusAgendada), created.Status)

	status, body = c.do(t, http.MethodPost, "/api/appointments", recep,
		dto.CreateAppointmentRequest{PatientID: patientID, DentistID: dentistID, ScheduledAt: start.Add(30 * time.Minute)})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "SCHEDULING_CONFLICT", errorCode(t, body))

	// una hora exacta después no se solapa
	status, body = c.do(t, http.MethodPost, "/api/appointments", recep,
		dto.CreateAppointmentRequest{PatientID: patientID, DentistID: dentistID, ScheduledAt: start.Add(time.Hour)})
	assert.Equal(t, http.StatusCreated, status, string(body))
}

func TestCreateAppointment_AsistenteNoPuedeAgendar(t *testing.T) {
	c := newClinic(t)
	assist := c.userToken(t, "assist@clinica.com", entity.RoleAsistente)
	patientID, dentistID := c.seedAgenda(t)

	status, _ := c.do(t, http.MethodPost, "/api/appointments", assist,
		dto.CreateAppointmentRequest{PatientID: patientID, DentistID: dentistID, ScheduledAt: time.Now().Add(24 * time.Hour)})
	assert.Equal(t, http.StatusForbidden, status)
}

func (c *clinic) bookAt(t *testing.T, token string, at time.Time) int64 {
	t.Helper()
	patientID, dentistID := c.seedAgenda(t)
	status, body := c.do(t, http.MethodPost, "/api/appointments", token,
		dto.CreateAppointmentRequest{PatientID: patientID, DentistID: dentistID, ScheduledAt: at})
	require.Equal(t, http.StatusCreated, status, string(body))
	var created dto.AppointmentResponse
	require.NoError(t, json.Unmarshal(body, &created))
	return created.ID
}

func TestAppointmentStatus_TransicionInvalidaRetorna409(t *testing.T) {
	c := newClinic(t)
	recep := c.userToken(t, "recep@clinica.com", entity.RoleRecepcionista)
	id := c.bookAt(t, recep, time.Date(2030, 3, 10, 9, 0, 0, 0, time.UTC))
	path := "/api/appointments/" + itoa(id) + "/status"

	status, body := c.do(t, http.MethodPatch, path, recep, dto.ChangeStatusRequest{Status: string(entity.StatusConcluida)})
	assert.Equal(t, http.StatusConflict, status, string(body))
	assert.Equal(t, "INVALID_TRANSITION", errorCode(t, body), "AGENDADA no pasa directo a CONCLUIDA")

	status, body = c.do(t, http.MethodPatch, path, recep, dto.ChangeStatusRequest{Status: string(entity.StatusConfirmada)})
	require.Equal(t, http.StatusOK, status, string(body))
	var got dto.AppointmentResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, string(entity.StatusConfirmada), got.Status)

	status, body = c.do(t, http.MethodPatch, path, recep, dto.ChangeStatusRequest{Status: "ATRASADA"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, body))
}

func TestCancelAppointment_DosVecesRetornaEstadoInvalido(t *testing.T) {
	c := newClinic(t)
	recep := c.userToken(t, "recep@clinica.com", entity.RoleRecepcionista)
	id := c.bookAt(t, recep, time.Date(2030, 3, 10, 9, 0, 0, 0, time.UTC))
	path := "/api/appointments/" + itoa(id) + "/cancel"

	status, body := c.do(t, http.MethodPost, path, recep, nil)
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = c.do(t, http.MethodPost, path, recep, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_STATE", errorCode(t, body))
}

func TestGetAppointment_IDInvalidoYNoEncontrado(t *testing.T) {
	c := newClinic(t)
	dent := c.userToken(t, "dent@clinica.com", entity.RoleDentista)

	status, body := c.do(t, http.MethodGet, "/api/appointments/abc", dent, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, body))

	status, body = c.do(t, http.MethodGet, "/api/appointments/999", dent, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))
}

func TestRegisterMovement_StockInsuficienteRetorna409(t *testing.T) {
	c := newClinic(t)
	assist := c.userToken(t, "assist@clinica.com", entity.RoleAsistente)
	m := &entity.Material{Code: "RES-01", Name: "Resina A2", UnitMeasure: "UN", Active: true}
	require.NoError(t, c.store.Materials().Create(context.Background(), m))

	status, body := c.do(t, http.MethodPost, "/api/inventory/movements", assist,
		map[string]interface{}{"material_id": m.ID, "type": "ENTRADA", "quantity": 3})
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = c.do(t, http.MethodPost, "/api/inventory/movements", assist,
		map[string]interface{}{"material_id": m.ID, "type": "SAIDA", "quantity": 5})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, body))

	stored, err := c.store.Materials().GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "3", stored.CurrentStock.String())
}

func TestRegisterMovement_TipoDesconocidoRetorna400(t *testing.T) {
	c := newClinic(t)
	admin := c.userToken(t, "admin@clinica.com", entity.RoleAdmin)

	status, body := c.do(t, http.MethodPost, "/api/inventory/movements", admin,
		map[string]interface{}{"material_id": 1, "type": "DOACAO", "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, body))
}

func TestRegisterMovement_CuerpoMalformadoRetorna400(t *testing.T) {
	c := newClinic(t)
	admin := c.userToken(t, "admin@clinica.com", entity.RoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/api/inventory/movements", bytes.NewBufferString("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", admin)
	resp, err := c.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthPlanDelete_ConPacientesRetorna409(t *testing.T) {
	c := newClinic(t)
	admin := c.userToken(t, "admin@clinica.com", entity.RoleAdmin)

	status, body := c.do(t, http.MethodPost, "/api/health-plans", admin, dto.HealthPlanRequest{Name: "Amil Dental"})
	require.Equal(t, http.StatusCreated, status, string(body))
	var plan dto.HealthPlanResponse
	require.NoError(t, json.Unmarshal(body, &plan))

	p := &entity.Patient{Name: "João", CPF: "98765432100", HealthPlanID: &plan.ID, Active: true}
	require.NoError(t, c.store.Patients().Create(context.Background(), p))

	status, body = c.do(t, http.MethodDelete, "/api/health-plans/"+itoa(plan.ID), admin, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_STATE", errorCode(t, body))
}

func TestDashboardMetrics_RespondeConContadores(t *testing.T) {
	c := newClinic(t)
	dent := c.userToken(t, "dent@clinica.com", entity.RoleDentista)
	c.seedAgenda(t)

	status, body := c.do(t, http.MethodGet, "/api/dashboard/metrics", dent, nil)
	require.Equal(t, http.StatusOK, status, string(body))

	var out dto.DashboardMetrics
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, int64(1), out.ActivePatients)
	assert.Equal(t, int64(1), out.ActiveDentists)
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
