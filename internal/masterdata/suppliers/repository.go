package suppliers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/backoffice/internal/datatable"
	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/masterdata/shared"
	"github.com/odyssey-erp/backoffice/internal/platform/db"
	"github.com/odyssey-erp/backoffice/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, q listing.Query) ([]Supplier, int, error)
	Get(ctx context.Context, id int64) (Supplier, error)
	Options(ctx context.Context) ([]datatable.Option, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

var listSpec = db.ListSpec{
	Select: "s.id, s.code, s.name, COALESCE(s.email, ''), COALESCE(s.city, ''), s.status, s.created_at",
	From:   "suppliers s",
	Fields: fields,
	Order:  "s.name ASC, s.id ASC",
}

func scanSupplier(row pgx.CollectableRow) (Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.Code, &s.Name, &s.Email, &s.City, &s.Status, &s.CreatedAt)
	return s, err
}

func (r *repository) List(ctx context.Context, q listing.Query) ([]Supplier, int, error) {
	return db.ListPage(ctx, r.db, listSpec, q, scanSupplier)
}

func (r *repository) Get(ctx context.Context, id int64) (Supplier, error) {
	rows, err := r.db.Query(ctx, "SELECT "+listSpec.Select+" FROM "+listSpec.From+" WHERE s.id = $1", id)
	if err != nil {
		return Supplier{}, err
	}
	s, err := pgx.CollectExactlyOneRow(rows, scanSupplier)
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, fmt.Errorf("supplier %d: %w", id, httpx.ErrNotFound)
	}
	return s, err
}

// Options lists suppliers that may still receive orders.
func (r *repository) Options(ctx context.Context) ([]datatable.Option, error) {
	return shared.LoadOptions(ctx, r.db,
		`SELECT name, lower(code) FROM suppliers WHERE status <> $1 ORDER BY name`, StatusBlocked)
}
