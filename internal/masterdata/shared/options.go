package shared

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/backoffice/internal/datatable"
	"github.com/odyssey-erp/backoffice/internal/platform/db"
)

// OptionSource supplies the options of a select filter backed by another
// resource.
type OptionSource interface {
	Options(ctx context.Context) ([]datatable.Option, error)
}

// LoadOptions runs a query selecting (label, value) pairs.
func LoadOptions(ctx context.Context, q db.Querier, sql string, args ...any) ([]datatable.Option, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("masterdata: load options: %w", err)
	}
	options, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (datatable.Option, error) {
		var o datatable.Option
		err := row.Scan(&o.Label, &o.Value)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("masterdata: scan options: %w", err)
	}
	return options, nil
}
