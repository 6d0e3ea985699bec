package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementa repository.AlertRepository.
type AlertRepo struct {
	s    *Store
	inTx bool
}

func (r *AlertRepo) Create(ctx context.Context, a *entity.Alert) error {
	var err error
	r.s.with(r.inTx, func(st *state) {
		if _, ok := st.alerts[a.ID]; ok {
			err = fmt.Errorf("%w: alerta %s", domain.ErrDuplicate, a.ID)
			return
		}
		if err = openConflict(st, a); err != nil {
			return
		}
		st.alerts[a.ID] = *a
	})
	return err
}

func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	var out *entity.Alert
	r.s.with(r.inTx, func(st *state) {
		if v, ok := st.alerts[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *AlertRepo) FindOpenByTypeAndStock(ctx context.Context, alertType entity.AlertType, stockID string) (*entity.Alert, error) {
	fp := entity.Fingerprint(alertType, stockID)
	var out *entity.Alert
	r.s.with(r.inTx, func(st *state) {
		for _, v := range st.alerts {
			if v.Fingerprint == fp && v.Status == entity.AlertOpen {
				v := v
				out = &v
				return
			}
		}
	})
	return out, nil
}

func (r *AlertRepo) Update(ctx context.Context, a *entity.Alert) error {
	var err error
	r.s.with(r.inTx, func(st *state) {
		if _, ok := st.alerts[a.ID]; !ok {
			err = fmt.Errorf("%w: alerta %s", domain.ErrNotFound, a.ID)
			return
		}
		if err = openConflict(st, a); err != nil {
			return
		}
		st.alerts[a.ID] = *a
	})
	return err
}

// openConflict replica el índice único parcial de alerts uq_alerts_open_fingerprint.
func openConflict(st *state, a *entity.Alert) error {
	if a.Status != entity.AlertOpen {
		return nil
	}
	for id, v := range st.alerts {
		if id != a.ID && v.Status == entity.AlertOpen && v.Fingerprint == a.Fingerprint {
			return fmt.Errorf("%w: alerta abierta %s", domain.ErrConflict, a.Fingerprint)
		}
	}
	return nil
}

// List ordena por fecha de creación descendente.
func (r *AlertRepo) List(ctx context.Context, filter repository.AlertFilter) ([]*entity.Alert, error) {
	var out []*entity.Alert
	r.s.with(r.inTx, func(st *state) {
		for _, v := range st.alerts {
			if filter.StockID != "" && v.StockID != filter.StockID {
				continue
			}
			if filter.Status != "" && v.Status != filter.Status {
				continue
			}
			if filter.Type != "" && v.Type != filter.Type {
				continue
			}
			v := v
			out = append(out, &v)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateCreation.Equal(out[j].DateCreation) {
			return out[i].DateCreation.After(out[j].DateCreation)
		}
		return out[i].ID < out[j].ID
	})
	from, to := window(len(out), filter.Limit, filter.Offset)
	return out[from:to], nil
}

func (r *AlertRepo) Delete(ctx context.Context, id string) error {
	var err error
	r.s.with(r.inTx, func(st *state) {
		if _, ok := st.alerts[id]; !ok {
			err = fmt.Errorf("%w: alerta %s", domain.ErrNotFound, id)
			return
		}
		delete(st.alerts, id)
	})
	return err
}
