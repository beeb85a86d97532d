package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hospital-dashboard/internal/domain/billing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type BillsRepo struct {
	db *sqlx.DB
}

func NewBillsRepo(db *sqlx.DB) *BillsRepo {
	return &BillsRepo{db: db}
}

type billRow struct {
	ID          string `db:"id"`
	BillNo      string `db:"bill_no"`
	PatientName string `db:"patient_name"`
	PaymentType string `db:"payment_type"`
	Amount      string `db:"amount"`
	BillDate    string `db:"bill_date"`
}

type billItemRow struct {
	BillID   string `db:"bill_id"`
	Medicine string `db:"medicine"`
	Quantity int    `db:"quantity"`
	Price    string `db:"price"`
}

// Create inserta cabecera e items en una sola transacción.
func (r *BillsRepo) Create(ctx context.Context, b billing.Bill) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		seq, err := nextSeq(ctx, tx, "bills")
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO bills (id, seq, bill_no, patient_name, payment_type, amount, bill_date)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`),
			b.ID,
			seq,
			b.BillNo,
			b.PatientName,
			string(b.PaymentType),
			b.Amount.String(),
			b.Date.Format(dateLayout),
		); err != nil {
			return err
		}

		insertItem := tx.Rebind(`
			INSERT INTO bill_items (bill_id, line_no, medicine, quantity, price)
			VALUES (?, ?, ?, ?, ?)
		`)
		for i, it := range b.Items {
			if _, err := tx.ExecContext(ctx, insertItem, b.ID, i+1, it.Medicine, it.Quantity, it.Price.String()); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *BillsRepo) GetByID(ctx context.Context, id string) (billing.Bill, error) {
	var row billRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`
		SELECT id, bill_no, patient_name, payment_type, amount, bill_date
		FROM bills WHERE id = ?
	`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return billing.Bill{}, billing.ErrNotFound
		}
		return billing.Bill{}, err
	}

	var items []billItemRow
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(`
		SELECT bill_id, medicine, quantity, price
		FROM bill_items WHERE bill_id = ? ORDER BY line_no ASC
	`), id); err != nil {
		return billing.Bill{}, err
	}
	return toBill(row, items)
}

func (r *BillsRepo) List(ctx context.Context) ([]billing.Bill, error) {
	var rows []billRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT id, bill_no, patient_name, payment_type, amount, bill_date
		FROM bills ORDER BY seq ASC
	`); err != nil {
		return nil, err
	}

	var items []billItemRow
	if err := r.db.SelectContext(ctx, &items, `
		SELECT bill_id, medicine, quantity, price
		FROM bill_items ORDER BY bill_id, line_no ASC
	`); err != nil {
		return nil, err
	}
	byBill := make(map[string][]billItemRow, len(rows))
	for _, it := range items {
		byBill[it.BillID] = append(byBill[it.BillID], it)
	}

	out := make([]billing.Bill, 0, len(rows))
	for _, row := range rows {
		b, err := toBill(row, byBill[row.ID])
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *BillsRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM bills`); err != nil {
		return 0, err
	}
	return n, nil
}

func toBill(row billRow, items []billItemRow) (billing.Bill, error) {
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return billing.Bill{}, fmt.Errorf("bill %s: bad amount %q: %w", row.ID, row.Amount, err)
	}
	date, err := time.Parse(dateLayout, row.BillDate)
	if err != nil {
		return billing.Bill{}, fmt.Errorf("bill %s: bad date %q: %w", row.ID, row.BillDate, err)
	}

	b := billing.Bill{
		ID:          row.ID,
		BillNo:      row.BillNo,
		PatientName: row.PatientName,
		PaymentType: billing.PaymentType(row.PaymentType),
		Amount:      amount,
		Date:        date,
		Items:       make([]billing.LineItem, 0, len(items)),
	}
	for _, it := range items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return billing.Bill{}, fmt.Errorf("bill %s: bad item price %q: %w", row.ID, it.Price, err)
		}
		b.Items = append(b.Items, billing.LineItem{Medicine: it.Medicine, Quantity: it.Quantity, Price: price})
	}
	return b, nil
}
