package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hospital-dashboard/internal/domain/prescriptions"

	"github.com/jmoiron/sqlx"
)

type PrescriptionsRepo struct {
	db *sqlx.DB
}

func NewPrescriptionsRepo(db *sqlx.DB) *PrescriptionsRepo {
	return &PrescriptionsRepo{db: db}
}

type prescriptionRow struct {
	ID      string `db:"id"`
	PID     string `db:"pid"`
	Patient string `db:"patient"`
	Doctor  string `db:"doctor"`
	RxDate  string `db:"rx_date"`
	Status  string `db:"status"`
}

type prescribedRow struct {
	PrescriptionID string `db:"prescription_id"`
	Name           string `db:"name"`
	Dosage         string `db:"dosage"`
	Frequency      string `db:"frequency"`
	Duration       string `db:"duration"`
}

const selectPrescription = `
	SELECT id, pid, patient, doctor, rx_date, status FROM prescriptions
`

func (r *PrescriptionsRepo) Create(ctx context.Context, p prescriptions.Prescription) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		seq, err := nextSeq(ctx, tx, "prescriptions")
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO prescriptions (id, seq, pid, patient, doctor, rx_date, status)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`), p.ID, seq, p.PID, p.Patient, p.Doctor, p.Date.Format(dateLayout), string(p.Status)); err != nil {
			return err
		}
		return insertPrescribed(ctx, tx, p)
	})
}

// Update reescribe cabecera y medicamentos.
func (r *PrescriptionsRepo) Update(ctx context.Context, p prescriptions.Prescription) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE prescriptions
			SET pid = ?, patient = ?, doctor = ?, rx_date = ?, status = ?
			WHERE id = ?
		`), p.PID, p.Patient, p.Doctor, p.Date.Format(dateLayout), string(p.Status), p.ID)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return prescriptions.ErrNotFound
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			DELETE FROM prescription_medicines WHERE prescription_id = ?
		`), p.ID); err != nil {
			return err
		}
		return insertPrescribed(ctx, tx, p)
	})
}

func (r *PrescriptionsRepo) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			DELETE FROM prescription_medicines WHERE prescription_id = ?
		`), id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM prescriptions WHERE id = ?`), id)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return prescriptions.ErrNotFound
		}
		return nil
	})
}

func (r *PrescriptionsRepo) GetByID(ctx context.Context, id string) (prescriptions.Prescription, error) {
	return r.getOne(ctx, selectPrescription+` WHERE id = ?`, id)
}

func (r *PrescriptionsRepo) GetByPID(ctx context.Context, pid string) (prescriptions.Prescription, error) {
	return r.getOne(ctx, selectPrescription+` WHERE pid = ? ORDER BY seq ASC LIMIT 1`, pid)
}

func (r *PrescriptionsRepo) List(ctx context.Context) ([]prescriptions.Prescription, error) {
	var rows []prescriptionRow
	if err := r.db.SelectContext(ctx, &rows, selectPrescription+` ORDER BY seq ASC`); err != nil {
		return nil, err
	}

	var meds []prescribedRow
	if err := r.db.SelectContext(ctx, &meds, `
		SELECT prescription_id, name, dosage, frequency, duration
		FROM prescription_medicines ORDER BY prescription_id, line_no ASC
	`); err != nil {
		return nil, err
	}
	byRx := make(map[string][]prescribedRow, len(rows))
	for _, m := range meds {
		byRx[m.PrescriptionID] = append(byRx[m.PrescriptionID], m)
	}

	out := make([]prescriptions.Prescription, 0, len(rows))
	for _, row := range rows {
		p, err := toPrescription(row, byRx[row.ID])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *PrescriptionsRepo) getOne(ctx context.Context, query string, arg string) (prescriptions.Prescription, error) {
	var row prescriptionRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return prescriptions.Prescription{}, prescriptions.ErrNotFound
		}
		return prescriptions.Prescription{}, err
	}

	var meds []prescribedRow
	if err := r.db.SelectContext(ctx, &meds, r.db.Rebind(`
		SELECT prescription_id, name, dosage, frequency, duration
		FROM prescription_medicines WHERE prescription_id = ? ORDER BY line_no ASC
	`), row.ID); err != nil {
		return prescriptions.Prescription{}, err
	}
	return toPrescription(row, meds)
}

func insertPrescribed(ctx context.Context, tx *sqlx.Tx, p prescriptions.Prescription) error {
	q := tx.Rebind(`
		INSERT INTO prescription_medicines (prescription_id, line_no, name, dosage, frequency, duration)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	for i, m := range p.Medicines {
		if _, err := tx.ExecContext(ctx, q, p.ID, i+1, m.Name, m.Dosage, m.Frequency, m.Duration); err != nil {
			return err
		}
	}
	return nil
}

func toPrescription(row prescriptionRow, meds []prescribedRow) (prescriptions.Prescription, error) {
	date, err := time.Parse(dateLayout, row.RxDate)
	if err != nil {
		return prescriptions.Prescription{}, fmt.Errorf("prescription %s: bad date %q: %w", row.ID, row.RxDate, err)
	}

	p := prescriptions.Prescription{
		ID:        row.ID,
		PID:       row.PID,
		Patient:   row.Patient,
		Doctor:    row.Doctor,
		Date:      date,
		Status:    prescriptions.Status(row.Status),
		Medicines: make([]prescriptions.PrescribedMedicine, 0, len(meds)),
	}
	for _, m := range meds {
		p.Medicines = append(p.Medicines, prescriptions.PrescribedMedicine{
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Duration:  m.Duration,
		})
	}
	return p, nil
}
