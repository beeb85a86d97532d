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

type MedicinesRepo struct {
	db *sqlx.DB
}

func NewMedicinesRepo(db *sqlx.DB) *MedicinesRepo {
	return &MedicinesRepo{db: db}
}

type medicineRow struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Stock int    `db:"stock"`
	Price string `db:"price"`
}

func (row medicineRow) toDomain() (inventory.Medicine, error) {
	price, err := decimal.NewFromString(row.Price)
	if err != nil {
		return inventory.Medicine{}, fmt.Errorf("medicine %s: bad price %q: %w", row.ID, row.Price, err)
	}
	return inventory.Medicine{ID: row.ID, Name: row.Name, Stock: row.Stock, Price: price}, nil
}

func (r *MedicinesRepo) Create(ctx context.Context, m inventory.Medicine) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		seq, err := nextSeq(ctx, tx, "medicines")
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO medicines (id, seq, name, stock, price)
			VALUES (?, ?, ?, ?, ?)
		`), m.ID, seq, m.Name, m.Stock, m.Price.String())
		return err
	})
}

func (r *MedicinesRepo) Update(ctx context.Context, m inventory.Medicine) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE medicines
		SET name = ?, stock = ?, price = ?
		WHERE id = ?
	`), m.Name, m.Stock, m.Price.String(), m.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return inventory.ErrNotFound
	}
	return nil
}

// Delete no toca cart_items: las líneas del carrito son snapshots.
func (r *MedicinesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM medicines WHERE id = ?`), id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return inventory.ErrNotFound
	}
	return nil
}

func (r *MedicinesRepo) GetByID(ctx context.Context, id string) (inventory.Medicine, error) {
	var row medicineRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`
		SELECT id, name, stock, price FROM medicines WHERE id = ?
	`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return inventory.Medicine{}, inventory.ErrNotFound
		}
		return inventory.Medicine{}, err
	}
	return row.toDomain()
}

func (r *MedicinesRepo) List(ctx context.Context) ([]inventory.Medicine, error) {
	var rows []medicineRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT id, name, stock, price FROM medicines ORDER BY seq ASC
	`); err != nil {
		return nil, err
	}

	out := make([]inventory.Medicine, 0, len(rows))
	for _, row := range rows {
		m, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
