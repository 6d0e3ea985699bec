package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementa repository.StockRepository.
type StockRepo struct {
	s    *Store
	inTx bool
}

func (r *StockRepo) Create(ctx context.Context, stock *entity.Stock) error {
	var err error
	r.s.with(r.inTx, func(st *state) {
		if _, ok := st.stocks[stock.ID]; ok {
			err = fmt.Errorf("%w: stock %s", domain.ErrDuplicate, stock.ID)
			return
		}
		for _, other := range st.stocks {
			if other.ProductID == stock.ProductID && other.SiteID == stock.SiteID {
				err = fmt.Errorf("%w: ya existe stock para el producto y sitio", domain.ErrDuplicate)
				return
			}
		}
		st.stocks[stock.ID] = *stock
	})
	return err
}

func (r *StockRepo) GetByID(ctx context.Context, id string) (*entity.Stock, error) {
	var out *entity.Stock
	r.s.with(r.inTx, func(st *state) {
		if v, ok := st.stocks[id]; ok {
			out = &v
		}
	})
	return out, nil
}

// GetByIDForUpdate igual que GetByID; la exclusión la da Run.
func (r *StockRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Stock, error) {
	return r.GetByID(ctx, id)
}

func (r *StockRepo) GetByProductAndSite(ctx context.Context, productID, siteID string) (*entity.Stock, error) {
	var out *entity.Stock
	r.s.with(r.inTx, func(st *state) {
		for _, v := range st.stocks {
			if v.ProductID == productID && v.SiteID == siteID {
				v := v
				out = &v
				return
			}
		}
	})
	return out, nil
}

func (r *StockRepo) GetByProductAndSiteForUpdate(ctx context.Context, productID, siteID string) (*entity.Stock, error) {
	return r.GetByProductAndSite(ctx, productID, siteID)
}

func (r *StockRepo) GetDetails(ctx context.Context, id string) (*entity.StockDetails, error) {
	var out *entity.StockDetails
	r.s.with(r.inTx, func(st *state) {
		if v, ok := st.stocks[id]; ok {
			out = r.details(v)
		}
	})
	return out, nil
}

func (r *StockRepo) List(ctx context.Context, filter repository.StockFilter) ([]*entity.StockDetails, error) {
	var out []*entity.StockDetails
	r.s.with(r.inTx, func(st *state) {
		for _, v := range st.stocks {
			if filter.ProductID != "" && v.ProductID != filter.ProductID {
				continue
			}
			if filter.SiteID != "" && v.SiteID != filter.SiteID {
				continue
			}
			out = append(out, r.details(v))
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		return out[i].ID < out[j].ID
	})
	from, to := window(len(out), filter.Limit, filter.Offset)
	return out[from:to], nil
}

func (r *StockRepo) Update(ctx context.Context, stock *entity.Stock) error {
	var err error
	r.s.with(r.inTx, func(st *state) {
		if _, ok := st.stocks[stock.ID]; !ok {
			err = fmt.Errorf("%w: stock %s", domain.ErrNotFound, stock.ID)
			return
		}
		st.stocks[stock.ID] = *stock
	})
	return err
}

// UpdateThresholds copia solo los umbrales y UpdatedAt sobre el stock guardado.
func (r *StockRepo) UpdateThresholds(ctx context.Context, stock *entity.Stock) error {
	var err error
	r.s.with(r.inTx, func(st *state) {
		cur, ok := st.stocks[stock.ID]
		if !ok {
			err = fmt.Errorf("%w: stock %s", domain.ErrNotFound, stock.ID)
			return
		}
		cur.AlertThreshold = stock.AlertThreshold
		cur.SecurityThreshold = stock.SecurityThreshold
		cur.MinimumThreshold = stock.MinimumThreshold
		cur.MaximumThreshold = stock.MaximumThreshold
		cur.UpdatedAt = stock.UpdatedAt
		st.stocks[stock.ID] = cur
	})
	return err
}

// Delete elimina el stock con sus alertas; los movimientos quedan sin stock (ON DELETE SET NULL).
func (r *StockRepo) Delete(ctx context.Context, id string) error {
	var err error
	r.s.with(r.inTx, func(st *state) {
		if _, ok := st.stocks[id]; !ok {
			err = fmt.Errorf("%w: stock %s", domain.ErrNotFound, id)
			return
		}
		delete(st.stocks, id)
		for aid, a := range st.alerts {
			if a.StockID == id {
				delete(st.alerts, aid)
			}
		}
		for mid, m := range st.movements {
			if m.StockID == id {
				m.StockID = ""
				st.movements[mid] = m
			}
		}
	})
	return err
}

// details requiere el mutex tomado.
func (r *StockRepo) details(v entity.Stock) *entity.StockDetails {
	return &entity.StockDetails{
		Stock:       v,
		ProductName: r.s.productNames[v.ProductID],
		SiteName:    r.s.siteNames[v.SiteID],
	}
}
