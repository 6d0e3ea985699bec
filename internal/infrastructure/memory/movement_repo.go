package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

// MovementRepo implementa repository.StockMovementRepository.
type MovementRepo struct {
	s    *Store
	inTx bool
}

func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	var err error
	r.s.with(r.inTx, func(st *state) {
		if _, ok := st.movements[m.ID]; ok {
			err = fmt.Errorf("%w: movimiento %s", domain.ErrDuplicate, m.ID)
			return
		}
		st.movements[m.ID] = *m
	})
	return err
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	var out *entity.StockMovement
	r.s.with(r.inTx, func(st *state) {
		if v, ok := st.movements[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *MovementRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockMovement, error) {
	return r.GetByID(ctx, id)
}

func (r *MovementRepo) Update(ctx context.Context, m *entity.StockMovement) error {
	var err error
	r.s.with(r.inTx, func(st *state) {
		if _, ok := st.movements[m.ID]; !ok {
			err = fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, m.ID)
			return
		}
		st.movements[m.ID] = *m
	})
	return err
}

func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	var err error
	r.s.with(r.inTx, func(st *state) {
		if _, ok := st.movements[id]; !ok {
			err = fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
			return
		}
		delete(st.movements, id)
	})
	return err
}

// List ordena por fecha descendente.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	r.s.with(r.inTx, func(st *state) {
		for _, v := range st.movements {
			if filter.StockID != "" && v.StockID != filter.StockID {
				continue
			}
			if filter.From != nil && v.DateTime.Before(*filter.From) {
				continue
			}
			if filter.To != nil && v.DateTime.After(*filter.To) {
				continue
			}
			v := v
			out = append(out, &v)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateTime.Equal(out[j].DateTime) {
			return out[i].DateTime.After(out[j].DateTime)
		}
		return out[i].ID < out[j].ID
	})
	from, to := window(len(out), filter.Limit, filter.Offset)
	return out[from:to], nil
}
