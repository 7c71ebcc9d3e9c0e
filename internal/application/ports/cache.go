package ports

import (
	"context"
	"time"

	"github.com/jhoicas/odonto-api/internal/application/dto"
)

// DashboardCache caché de corta duración de las métricas del panel.
// Get devuelve (nil, nil) si la clave no existe o expiró.
type DashboardCache interface {
	Get(ctx context.Context, key string) (*dto.DashboardMetrics, error)
	Set(ctx context.Context, key string, m *dto.DashboardMetrics, ttl time.Duration) error
}
