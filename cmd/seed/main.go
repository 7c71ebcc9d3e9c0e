// seed crea el usuario ADMIN inicial cuando la base todavía no tiene usuarios.
//
// Uso: SEED_ADMIN_PASSWORD=... go run ./cmd/seed
// Lee SEED_ADMIN_NAME, SEED_ADMIN_EMAIL y SEED_ADMIN_PASSWORD además de la configuración de DB.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/odonto-api/internal/application/auth"
	"github.com/jhoicas/odonto-api/internal/infrastructure/postgres"
	"github.com/jhoicas/odonto-api/pkg/config"
	"github.com/jhoicas/odonto-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("seed")

	if cfg.Seed.AdminPassword == "" {
		log.Fatal().Msg("SEED_ADMIN_PASSWORD es obligatorio")
	}

	if cfg.App.Migrations {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	created, err := authUC.EnsureAdmin(ctx, cfg.Seed.AdminName, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador")
	}
	if !created {
		log.Info().Msg("ya existen usuarios, no se crea el administrador")
		return
	}
	log.Info().Str("email", cfg.Seed.AdminEmail).Msg("administrador creado")
}
