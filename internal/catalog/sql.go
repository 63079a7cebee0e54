package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/piwi3910/StripCut/internal/model"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const selectColumns = `ItemCode, ItemName, espessura, desenvolvimento, largura, estoque_atual, estoque_maximo, demanda`

// SQLRepository reads the catalog from the tbl_demanda table.
type SQLRepository struct {
	DB     *sql.DB
	driver string
}

// OpenSQL opens and pings a catalog database. driver is DriverSQLite (dsn is
// a file path) or DriverPostgres (dsn is a connection string).
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLRepository, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}
	if driver == DriverSQLite {
		// One writer at a time
		db.SetMaxOpenConns(1)
	} else {
		db.SetConnMaxLifetime(30 * time.Minute)
		db.SetMaxOpenConns(10)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return NewSQLRepository(db, driver), nil
}

func NewSQLRepository(db *sql.DB, driver string) *SQLRepository {
	return &SQLRepository{DB: db, driver: driver}
}

func (r *SQLRepository) Close() error {
	if r == nil || r.DB == nil {
		return nil
	}
	return r.DB.Close()
}

// rebind rewrites ? placeholders to $n for Postgres.
func (r *SQLRepository) rebind(q string) string {
	if r.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, c := range q {
		if c == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// EnsureSchema creates tbl_demanda when it does not exist.
func (r *SQLRepository) EnsureSchema(ctx context.Context) error {
	floatType := "REAL"
	if r.driver == DriverPostgres {
		floatType = "DOUBLE PRECISION"
	}
	q := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS tbl_demanda (
  ItemCode        TEXT PRIMARY KEY,
  ItemName        TEXT,
  espessura       %[1]s,
  desenvolvimento %[1]s,
  largura         %[1]s,
  estoque_atual   %[1]s,
  estoque_maximo  %[1]s,
  demanda         %[1]s
)`, floatType)
	if _, err := r.DB.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("create tbl_demanda: %w", err)
	}
	return nil
}

// Upsert inserts or replaces parts by item code in a single transaction.
func (r *SQLRepository) Upsert(ctx context.Context, parts []model.Part) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	q := r.rebind(`
INSERT INTO tbl_demanda (` + selectColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (ItemCode) DO UPDATE SET
  ItemName = excluded.ItemName,
  espessura = excluded.espessura,
  desenvolvimento = excluded.desenvolvimento,
  largura = excluded.largura,
  estoque_atual = excluded.estoque_atual,
  estoque_maximo = excluded.estoque_maximo,
  demanda = excluded.demanda`)

	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range parts {
		if _, err := stmt.ExecContext(ctx, p.ItemCode, p.Name, p.Thickness, p.UnrolledLength, p.RawWidth,
			p.CurrentStock, p.MaxStock, p.Demand); err != nil {
			return fmt.Errorf("upsert %s: %w", p.ItemCode, err)
		}
	}
	return tx.Commit()
}

func (r *SQLRepository) All(ctx context.Context) ([]model.Part, error) {
	return r.query(ctx, `SELECT `+selectColumns+` FROM tbl_demanda ORDER BY ItemCode`)
}

func (r *SQLRepository) ByCode(ctx context.Context, itemCode string) (model.Part, error) {
	q := r.rebind(`SELECT ` + selectColumns + ` FROM tbl_demanda WHERE ItemCode = ?`)
	p, err := scanPart(r.DB.QueryRowContext(ctx, q, strings.TrimSpace(itemCode)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Part{}, ErrNotFound
		}
		return model.Part{}, fmt.Errorf("load item %s: %w", itemCode, err)
	}
	return p, nil
}

func (r *SQLRepository) ByGroup(ctx context.Context, key model.GroupKey) ([]model.Part, error) {
	return r.query(ctx,
		`SELECT `+selectColumns+` FROM tbl_demanda WHERE espessura = ? AND largura = ? ORDER BY ItemCode`,
		key.Thickness, key.RawWidth)
}

func (r *SQLRepository) query(ctx context.Context, q string, args ...any) ([]model.Part, error) {
	rows, err := r.DB.QueryContext(ctx, r.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var parts []model.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		parts = append(parts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return parts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanPart maps one tbl_demanda row. NULL numbers read as 0 and stock
// counts are rounded, since the legacy table stores them as REAL.
func scanPart(s scanner) (model.Part, error) {
	var (
		code                     string
		name                     sql.NullString
		thickness, length, width sql.NullFloat64
		stock, maxStock, demand  sql.NullFloat64
	)
	if err := s.Scan(&code, &name, &thickness, &length, &width, &stock, &maxStock, &demand); err != nil {
		return model.Part{}, err
	}
	return model.Part{
		ItemCode:       code,
		Name:           name.String,
		Thickness:      thickness.Float64,
		UnrolledLength: length.Float64,
		RawWidth:       width.Float64,
		CurrentStock:   int(math.Round(stock.Float64)),
		MaxStock:       int(math.Round(maxStock.Float64)),
		Demand:         int(math.Round(demand.Float64)),
	}, nil
}
