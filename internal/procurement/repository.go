package procurement

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

// Repository reads purchase orders.
type Repository interface {
	ListPOs(ctx context.Context, q listing.Query) ([]PurchaseOrder, int, error)
	GetPO(ctx context.Context, id int64) (PurchaseOrder, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a purchase order repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

var listSpec = db.ListSpec{
	Select: "p.id, p.number, COALESCE(s.code, ''), COALESCE(s.name, ''), p.status, p.currency, " +
		"COALESCE(p.expected_date, CURRENT_DATE), " + lineCountExpr + ", " + totalExpr + ", p.created_at",
	From:   "pos p LEFT JOIN suppliers s ON s.id = p.supplier_id",
	Fields: fields,
	Order:  "p.created_at DESC, p.id DESC",
}

func scanPO(row pgx.CollectableRow) (PurchaseOrder, error) {
	var po PurchaseOrder
	err := row.Scan(&po.ID, &po.Number, &po.SupplierCode, &po.SupplierName, &po.Status, &po.Currency,
		&po.ExpectedDate, &po.LineCount, &po.Total, &po.CreatedAt)
	return po, err
}

func scanLine(row pgx.CollectableRow) (POLine, error) {
	var l POLine
	err := row.Scan(&l.ProductCode, &l.ProductName, &l.Qty, &l.Price)
	return l, err
}

// ListPOs returns purchase orders with supplier name and total.
func (r *repository) ListPOs(ctx context.Context, q listing.Query) ([]PurchaseOrder, int, error) {
	return db.ListPage(ctx, r.pool, listSpec, q, scanPO)
}

// GetPO returns a purchase order and its lines from one snapshot.
func (r *repository) GetPO(ctx context.Context, id int64) (PurchaseOrder, error) {
	var po PurchaseOrder
	err := db.ReadSnapshot(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, "SELECT "+listSpec.Select+" FROM "+listSpec.From+" WHERE p.id = $1", id)
		if err != nil {
			return err
		}
		po, err = pgx.CollectExactlyOneRow(rows, scanPO)
		if err != nil {
			return err
		}
		rows, err = tx.Query(ctx, `SELECT pr.code, pr.name, l.qty, l.price
FROM po_lines l JOIN products pr ON pr.id = l.product_id
WHERE l.po_id = $1 ORDER BY l.id`, id)
		if err != nil {
			return err
		}
		po.Lines, err = pgx.CollectRows(rows, scanLine)
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return PurchaseOrder{}, fmt.Errorf("purchase order %d: %w", id, httpx.ErrNotFound)
	}
	if err != nil {
		return PurchaseOrder{}, err
	}
	return po, nil
}
