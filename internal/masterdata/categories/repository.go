package categories

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
	List(ctx context.Context, q listing.Query) ([]Category, int, error)
	Get(ctx context.Context, id int64) (Category, error)
	Options(ctx context.Context) ([]datatable.Option, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const selectColumns = `c.id, c.code, c.name, COALESCE(p.name, ''), ` + productCountExpr + `, c.updated_at`

var listSpec = db.ListSpec{
	Select: selectColumns,
	From:   "categories c LEFT JOIN categories p ON p.id = c.parent_id",
	Fields: fields,
	Order:  "c.name ASC, c.id ASC",
}

func scanCategory(row pgx.CollectableRow) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.ParentName, &c.ProductCount, &c.UpdatedAt)
	return c, err
}

func (r *repository) List(ctx context.Context, q listing.Query) ([]Category, int, error) {
	return db.ListPage(ctx, r.db, listSpec, q, scanCategory)
}

func (r *repository) Get(ctx context.Context, id int64) (Category, error) {
	query := `SELECT ` + selectColumns + ` FROM ` + listSpec.From + ` WHERE c.id = $1`
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return Category{}, err
	}
	c, err := pgx.CollectExactlyOneRow(rows, scanCategory)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, fmt.Errorf("category %d: %w", id, httpx.ErrNotFound)
	}
	return c, err
}

func (r *repository) Options(ctx context.Context) ([]datatable.Option, error) {
	return shared.LoadOptions(ctx, r.db, `SELECT name, lower(code) FROM categories ORDER BY name`)
}
