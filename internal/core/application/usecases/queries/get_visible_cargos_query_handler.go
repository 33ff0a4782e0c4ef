package queries

import (
	"context"

	"freight/internal/core/domain/model/cargo"
	"freight/internal/core/domain/services"
	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

const boundSlackTons = 0.0005

// GetVisibleCargosQueryHandler reads the available pool and runs it through
// the capacity policy.
//
// Example:
//
//	handler := queries.NewGetVisibleCargosQueryHandler(db, services.DefaultCapacityPolicy())
//	loads, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	for _, l := range loads {
//	    fmt.Printf("%s %s -> %s (%s)\n", l.Number, l.Origin, l.Destination, l.Weight)
//	}
type GetVisibleCargosQueryHandler struct {
	db     *gorm.DB
	policy services.CapacityPolicy
}

func NewGetVisibleCargosQueryHandler(db *gorm.DB, policy services.CapacityPolicy) GetVisibleCargosQueryHandler {
	return GetVisibleCargosQueryHandler{db: db, policy: policy}
}

// Handle returns the visible loads ordered by pickup time, then ingestion
// time. An unregistered driver is an ObjectNotFoundError.
func (h GetVisibleCargosQueryHandler) Handle(
	ctx context.Context,
	query GetVisibleCargosQuery,
) ([]CargoReadModel, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	driverModel, err := readDriver(ctx, h.db, query.DriverID())
	if err != nil {
		return nil, err
	}
	d, err := driverModel.toAggregate()
	if err != nil {
		return nil, err
	}

	// The bounds only narrow the scan; the policy below stays authoritative.
	// Half a kilogram of slack keeps loads that round onto a bound.
	lo, hi := h.policy.Bounds(d.Capacity())
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+cargoColumns+`
		FROM cargos
		WHERE status = ? AND weight_tons BETWEEN ? AND ?
		ORDER BY pickup_at, created_at, id
	`, cargo.Available.String(), lo.Tons()-boundSlackTons, hi.Tons()+boundSlackTons).Rows()
	if err != nil {
		return nil, errs.NewTransientError("read available cargos", err)
	}
	defer rows.Close()

	models := make(map[*cargo.Cargo]CargoReadModel)
	pool := make([]*cargo.Cargo, 0)
	for rows.Next() {
		m, scanErr := scanCargo(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		if query.IsExcluded(m.ID) {
			continue
		}
		c, restoreErr := m.toAggregate()
		if restoreErr != nil {
			return nil, restoreErr
		}
		models[c] = m
		pool = append(pool, c)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.NewTransientError("read available cargos", err)
	}

	visible := h.policy.VisibleLoads(pool, d)
	result := make([]CargoReadModel, 0, len(visible))
	for _, c := range visible {
		result = append(result, models[c])
	}
	return result, nil
}
