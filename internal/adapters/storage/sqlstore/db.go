package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

func init() {
	// Las queries se escriben con "?" y se pasan por Rebind.
	sqlx.BindDriver(DriverPostgres, sqlx.DOLLAR)
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Open abre el pool (pgx o sqlite), hace ping y corre las migraciones.
func Open(driver, dsn string) (*sqlx.DB, error) {
	driver = strings.TrimSpace(driver)
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		// sqlite en memoria: cada conexión nueva sería otra base vacía
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxIdleTime(5 * time.Minute)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate crea el esquema si no existe. Los tipos son portables entre
// Postgres y SQLite: montos como TEXT decimal, fechas como TEXT YYYY-MM-DD,
// y una columna seq para conservar el orden de alta. bill_no y pid son únicos:
// dos instancias que compitan por el mismo número fallan en vez de duplicar.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS medicines (
			id TEXT PRIMARY KEY,
			seq BIGINT NOT NULL,
			name TEXT NOT NULL,
			stock INTEGER NOT NULL CHECK (stock >= 0),
			price TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS cart_items (
			medicine_id TEXT PRIMARY KEY,
			seq BIGINT NOT NULL,
			name TEXT NOT NULL,
			unit_price TEXT NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0)
		)`,
		`CREATE TABLE IF NOT EXISTS bills (
			id TEXT PRIMARY KEY,
			seq BIGINT NOT NULL,
			bill_no TEXT NOT NULL UNIQUE,
			patient_name TEXT NOT NULL,
			payment_type TEXT NOT NULL,
			amount TEXT NOT NULL,
			bill_date TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS bill_items (
			bill_id TEXT NOT NULL REFERENCES bills(id),
			line_no INTEGER NOT NULL,
			medicine TEXT NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			price TEXT NOT NULL,
			PRIMARY KEY (bill_id, line_no)
		)`,
		`CREATE TABLE IF NOT EXISTS prescriptions (
			id TEXT PRIMARY KEY,
			seq BIGINT NOT NULL,
			pid TEXT NOT NULL,
			patient TEXT NOT NULL,
			doctor TEXT NOT NULL,
			rx_date TEXT NOT NULL,
			status TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS prescription_medicines (
			prescription_id TEXT NOT NULL REFERENCES prescriptions(id),
			line_no INTEGER NOT NULL,
			name TEXT NOT NULL,
			dosage TEXT NOT NULL,
			frequency TEXT NOT NULL,
			duration TEXT NOT NULL,
			PRIMARY KEY (prescription_id, line_no)
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_prescriptions_pid ON prescriptions (pid)`,
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlstore: migration failed: %w", err)
		}
	}
	return nil
}

const dateLayout = "2006-01-02"

// nextSeq devuelve el siguiente valor de seq para la tabla dada.
// Se llama dentro de la misma transacción que el INSERT.
func nextSeq(ctx context.Context, tx *sqlx.Tx, table string) (int64, error) {
	var last int64
	if err := tx.GetContext(ctx, &last, "SELECT COALESCE(MAX(seq), 0) FROM "+table); err != nil {
		return 0, err
	}
	return last + 1, nil
}

// withTx corre fn en una transacción; rollback ante cualquier error.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
