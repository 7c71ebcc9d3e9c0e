package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/odonto-api/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia para materiales.
// Usado dentro de transacciones para garantizar consistencia del saldo.
type MaterialRepository interface {
	Create(ctx context.Context, m *entity.Material) error
	GetByID(ctx context.Context, id int64) (*entity.Material, error)
	GetByCode(ctx context.Context, code string) (*entity.Material, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.Material, error)
	// Update persiste los datos descriptivos; nunca toca current_stock.
	Update(ctx context.Context, m *entity.Material) error
	UpdateStock(ctx context.Context, id int64, stock decimal.Decimal, at time.Time) error
	ListLowStock(ctx context.Context) ([]*entity.Material, error)
	ListCategories(ctx context.Context) ([]string, error)
	CountLowStock(ctx context.Context) (int64, error)
}
