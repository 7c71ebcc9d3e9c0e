package inventory

import (
	"context"

	"github.com/jhoicas/odonto-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que movimiento, saldo y uso se confirmen juntos o no se confirmen.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		materialRepo repository.MaterialRepository,
		usageRepo repository.MaterialUsageRepository,
	) error) error
}
