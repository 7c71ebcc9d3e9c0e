package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/odonto-api/internal/application/analytics"
	"github.com/jhoicas/odonto-api/internal/application/auth"
	"github.com/jhoicas/odonto-api/internal/application/inventory"
	"github.com/jhoicas/odonto-api/internal/application/ports"
	"github.com/jhoicas/odonto-api/internal/application/report"
	"github.com/jhoicas/odonto-api/internal/application/scheduling"
	"github.com/jhoicas/odonto-api/internal/application/usecase"
	"github.com/jhoicas/odonto-api/internal/infrastructure/cache"
	infraexcel "github.com/jhoicas/odonto-api/internal/infrastructure/excel"
	"github.com/jhoicas/odonto-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/odonto-api/internal/infrastructure/pdf"
	"github.com/jhoicas/odonto-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/odonto-api/internal/interfaces/http"
	"github.com/jhoicas/odonto-api/pkg/config"
	"github.com/jhoicas/odonto-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	loc := cfg.App.Location()
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("timezone", loc.String()).
		Msg("iniciando aplicación")

	if cfg.App.Migrations {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Métricas Prometheus: también reciben los eventos de negocio de agenda e inventario.
	var (
		events   ports.EventRecorder
		recorder *metrics.Recorder
	)
	if cfg.Metrics.Enabled {
		recorder = metrics.NewRecorder()
		events = recorder
	}

	// Caché del dashboard en Redis (opcional).
	var dashboardCache ports.DashboardCache
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, dashboard sin caché")
		} else {
			defer rdb.Close()
			dashboardCache = cache.NewRedisDashboardCache(rdb)
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	patientRepo := postgres.NewPatientRepository(pool)
	dentistRepo := postgres.NewDentistRepository(pool)
	healthPlanRepo := postgres.NewHealthPlanRepository(pool)
	appointmentRepo := postgres.NewAppointmentRepository(pool)
	materialRepo := postgres.NewMaterialRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	usageRepo := postgres.NewMaterialUsageRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	appointmentUC := scheduling.NewAppointmentUseCase(txRunner, appointmentRepo, patientRepo, dentistRepo, loc, events, log)
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, userRepo, appointmentRepo, events, log)
	materialUsageUC := inventory.NewMaterialUsageUseCase(txRunner, registerMovementUC, userRepo, appointmentRepo, patientRepo, events, log)
	ledgerQueries := inventory.NewLedgerQueryUseCase(movementRepo, usageRepo, materialRepo, userRepo, loc)
	replenishmentUC := inventory.NewReplenishmentUseCase(materialRepo, movementRepo)
	materialUC := usecase.NewMaterialUseCase(materialRepo, txRunner, registerMovementUC)
	patientUC := usecase.NewPatientUseCase(patientRepo, healthPlanRepo)
	dentistUC := usecase.NewDentistUseCase(dentistRepo)
	healthPlanUC := usecase.NewHealthPlanUseCase(healthPlanRepo, patientRepo)
	dashboardUC := appanalytics.NewDashboardUseCase(appanalytics.Repositories{
		Patients:     patientRepo,
		Dentists:     dentistRepo,
		Appointments: appointmentRepo,
		Materials:    materialRepo,
		Movements:    movementRepo,
		Usages:       usageRepo,
		Users:        userRepo,
	}, dashboardCache, cfg.Dashboard.CacheTTL, loc, log)

	// Comprobante PDF de la consulta y exportación del libro de un material a Excel
	reportUC := report.NewReportUseCase(
		cfg.App.Name, appointmentUC, ledgerQueries, materialUC,
		infrapdf.NewMarotoPDFGenerator(), infraexcel.NewLedgerExporter(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	if recorder != nil {
		app.Use(recorder.Middleware())
		app.Get("/metrics", recorder.Handler())
	}

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Odonto API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		AppointmentUC:    appointmentUC,
		RegisterMovement: registerMovementUC,
		MaterialUsage:    materialUsageUC,
		LedgerQueries:    ledgerQueries,
		Replenishment:    replenishmentUC,
		MaterialUC:       materialUC,
		PatientUC:        patientUC,
		DentistUC:        dentistUC,
		HealthPlanUC:     healthPlanUC,
		DashboardUC:      dashboardUC,
		ReportUC:         reportUC,
		Location:         loc,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
