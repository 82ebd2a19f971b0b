package colors

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
	List(ctx context.Context, q listing.Query) ([]Color, int, error)
	Get(ctx context.Context, id int64) (Color, error)
	Options(ctx context.Context) ([]datatable.Option, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

var listSpec = db.ListSpec{
	Select: "co.id, co.name, co.hex, co.family, " + productCountExpr,
	From:   "colors co",
	Fields: fields,
	Order:  "co.name ASC, co.id ASC",
}

func scanColor(row pgx.CollectableRow) (Color, error) {
	var c Color
	err := row.Scan(&c.ID, &c.Name, &c.Hex, &c.Family, &c.Products)
	return c, err
}

func (r *repository) List(ctx context.Context, q listing.Query) ([]Color, int, error) {
	return db.ListPage(ctx, r.db, listSpec, q, scanColor)
}

func (r *repository) Get(ctx context.Context, id int64) (Color, error) {
	rows, err := r.db.Query(ctx, "SELECT "+listSpec.Select+" FROM "+listSpec.From+" WHERE co.id = $1", id)
	if err != nil {
		return Color{}, err
	}
	c, err := pgx.CollectExactlyOneRow(rows, scanColor)
	if errors.Is(err, pgx.ErrNoRows) {
		return Color{}, fmt.Errorf("color %d: %w", id, httpx.ErrNotFound)
	}
	return c, err
}

func (r *repository) Options(ctx context.Context) ([]datatable.Option, error) {
	return shared.LoadOptions(ctx, r.db, `SELECT name, lower(name) FROM colors ORDER BY name`)
}
