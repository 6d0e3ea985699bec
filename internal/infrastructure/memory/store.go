// Package memory implementa los repositorios de stock, movimientos y alertas en memoria.
// Solo lo usan las pruebas; cmd/api siempre arranca contra PostgreSQL.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

type state struct {
	stocks    map[string]entity.Stock
	movements map[string]entity.StockMovement
	alerts    map[string]entity.Alert
}

func newState() *state {
	return &state{
		stocks:    make(map[string]entity.Stock),
		movements: make(map[string]entity.StockMovement),
		alerts:    make(map[string]entity.Alert),
	}
}

func (s *state) clone() *state {
	return &state{
		stocks:    maps.Clone(s.stocks),
		movements: maps.Clone(s.movements),
		alerts:    maps.Clone(s.alerts),
	}
}

// Store guarda el estado bajo un único mutex. Una transacción retiene el mutex de principio a fin,
// por lo que las transacciones quedan serializadas (equivale al bloqueo de fila de PostgreSQL).
type Store struct {
	mu           sync.Mutex
	st           *state
	productNames map[string]string
	siteNames    map[string]string
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		st:           newState(),
		productNames: make(map[string]string),
		siteNames:    make(map[string]string),
	}
}

// AddProduct registra el nombre de un producto para GetDetails.
func (s *Store) AddProduct(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productNames[id] = name
}

// AddSite registra el nombre de un sitio para GetDetails.
func (s *Store) AddSite(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.siteNames[id] = name
}

// Stocks repositorio de stock fuera de transacción.
func (s *Store) Stocks() *StockRepo { return &StockRepo{s: s} }

// Movements repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Alerts repositorio de alertas fuera de transacción.
func (s *Store) Alerts() *AlertRepo { return &AlertRepo{s: s} }

// Run implementa repository.TxRunner. Si fn falla se restaura la copia tomada al inicio.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	repos := repository.Repositories{
		Stocks:    &StockRepo{s: s, inTx: true},
		Movements: &MovementRepo{s: s, inTx: true},
		Alerts:    &AlertRepo{s: s, inTx: true},
	}
	if err := fn(repos); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// with ejecuta fn con el estado; dentro de Run el mutex ya está tomado.
func (s *Store) with(inTx bool, fn func(st *state)) {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn(s.st)
}

// window aplica limit/offset sobre n elementos; limit <= 0 devuelve todo.
func window(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}

var _ repository.TxRunner = (*Store)(nil)
