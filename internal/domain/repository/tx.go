package repository

import "context"

// Repositories agrupa los repositorios atados a una misma transacción.
type Repositories struct {
	Stocks    StockRepository
	Movements StockMovementRepository
	Alerts    AlertRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}
