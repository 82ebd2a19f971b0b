package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/backoffice/internal/listing"
)

// Querier is satisfied by *pgxpool.Pool. ListPage queries concurrently, so
// a single connection or transaction must not be passed.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ListSpec describes a filtered, sorted and paged list query.
type ListSpec struct {
	// Select is the column list, without the SELECT keyword.
	Select string
	// From holds the FROM clause including joins.
	From   string
	Fields listing.Fields
	// Order is the fallback ORDER BY and tiebreaker.
	Order string
}

// Statement is a SQL string with its positional arguments.
type Statement struct {
	SQL  string
	Args []any
}

// ListSQL builds the count and page statements of spec for query.
func ListSQL(spec ListSpec, query listing.Query) (count, page Statement) {
	clause := spec.Fields.Build(query, spec.Order)
	limit, args := clause.Paginate(query)
	count = Statement{SQL: "SELECT COUNT(*) FROM " + spec.From + clause.Where, Args: clause.Args}
	page = Statement{SQL: "SELECT " + spec.Select + " FROM " + spec.From + clause.Where + clause.OrderBy + limit, Args: args}
	return count, page
}

// ListPage runs the count and page queries of spec concurrently.
func ListPage[T any](ctx context.Context, q Querier, spec ListSpec, query listing.Query, scan pgx.RowToFunc[T]) ([]T, int, error) {
	countStmt, pageStmt := ListSQL(spec, query)

	var (
		total int
		items []T
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := q.QueryRow(gctx, countStmt.SQL, countStmt.Args...).Scan(&total); err != nil {
			return fmt.Errorf("count: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		rows, err := q.Query(gctx, pageStmt.SQL, pageStmt.Args...)
		if err != nil {
			return fmt.Errorf("page: %w", err)
		}
		items, err = pgx.CollectRows(rows, scan)
		if err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("platform/db: list: %w", err)
	}
	if items == nil {
		items = []T{}
	}
	return items, total, nil
}
