package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hospital-dashboard/internal/domain/inventory"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type CartRepo struct {
	db *sqlx.DB
}

func NewCartRepo(db *sqlx.DB) *CartRepo {
	return &CartRepo{db: db}
}

type cartRow struct {
	MedicineID string `db:"medicine_id"`
	Name       string `db:"name"`
	UnitPrice  string `db:"unit_price"`
	Quantity   int    `db:"quantity"`
}

func (row cartRow) toDomain() (inventory.CartItem, error) {
	price, err := decimal.NewFromString(row.UnitPrice)
	if err != nil {
		return inventory.CartItem{}, fmt.Errorf("cart item %s: bad price %q: %w", row.MedicineID, row.UnitPrice, err)
	}
	return inventory.CartItem{
		MedicineID: row.MedicineID,
		Name:       row.Name,
		UnitPrice:  price,
		Quantity:   row.Quantity,
	}, nil
}

func (r *CartRepo) Get(ctx context.Context, medicineID string) (inventory.CartItem, error) {
	var row cartRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`
		SELECT medicine_id, name, unit_price, quantity FROM cart_items WHERE medicine_id = ?
	`), medicineID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return inventory.CartItem{}, inventory.ErrNotFound
		}
		return inventory.CartItem{}, err
	}
	return row.toDomain()
}

// Save hace upsert por medicine_id; una línea existente conserva su seq.
func (r *CartRepo) Save(ctx context.Context, item inventory.CartItem) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		seq, err := nextSeq(ctx, tx, "cart_items")
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO cart_items (medicine_id, seq, name, unit_price, quantity)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (medicine_id) DO UPDATE SET
				name = excluded.name,
				unit_price = excluded.unit_price,
				quantity = excluded.quantity
		`), item.MedicineID, seq, item.Name, item.UnitPrice.String(), item.Quantity)
		return err
	})
}

func (r *CartRepo) Delete(ctx context.Context, medicineID string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM cart_items WHERE medicine_id = ?`), medicineID)
	return err
}

func (r *CartRepo) List(ctx context.Context) ([]inventory.CartItem, error) {
	var rows []cartRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT medicine_id, name, unit_price, quantity FROM cart_items ORDER BY seq ASC
	`); err != nil {
		return nil, err
	}

	out := make([]inventory.CartItem, 0, len(rows))
	for _, row := range rows {
		it, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

func (r *CartRepo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items`)
	return err
}
