package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/platform/db"
	"github.com/odyssey-erp/backoffice/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, q listing.Query) ([]Product, int, error)
	Get(ctx context.Context, id int64) (Product, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

var listSpec = db.ListSpec{
	Select: "p.id, p.code, p.name, c.code, c.name, COALESCE(co.name, ''), p.price, p.is_active, p.updated_at",
	From:   "products p JOIN categories c ON c.id = p.category_id LEFT JOIN colors co ON co.id = p.color_id",
	Fields: fields,
	Order:  "p.code ASC, p.id ASC",
}

func scanProduct(row pgx.CollectableRow) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.CategoryCode, &p.CategoryName, &p.Color, &p.Price, &p.Active, &p.UpdatedAt)
	return p, err
}

func (r *repository) List(ctx context.Context, q listing.Query) ([]Product, int, error) {
	return db.ListPage(ctx, r.db, listSpec, q, scanProduct)
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	rows, err := r.db.Query(ctx, "SELECT "+listSpec.Select+" FROM "+listSpec.From+" WHERE p.id = $1", id)
	if err != nil {
		return Product{}, err
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, fmt.Errorf("product %d: %w", id, httpx.ErrNotFound)
	}
	return p, err
}
