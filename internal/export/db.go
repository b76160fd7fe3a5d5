package export

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/fatih/color"

	"github.com/Tessera-Labs-HQ/tessera/internal/dataset"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

const dbInsertBatch = 100

// OpenDB connects with the driver matching the provider name.
func OpenDB(provider, url string) (*sql.DB, error) {
	var driverName string
	switch provider {
	case "postgresql", "postgres":
		driverName = "pgx"
	case "mysql":
		driverName = "mysql"
	case "sqlite", "sqlite3":
		driverName = "sqlite3"
	default:
		driverName = "pgx"
	}

	db, err := sql.Open(driverName, url)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// LoadDB inserts the dataset into a live database inside a single
// transaction, in generation order so FK constraints hold.
func LoadDB(ctx context.Context, db *sql.DB, data dataset.Dataset, order []string, provider string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, tableName := range order {
		table, ok := data[tableName]
		if !ok {
			continue
		}
		color.Cyan("  📝 Loading %s (%d rows)...", tableName, table.RowCount())
		if err := insertTable(ctx, tx, table, provider); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to load table %s: %w", tableName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	color.Green("✅ Dataset loaded")
	return nil
}

func insertTable(ctx context.Context, tx *sql.Tx, table *dataset.Table, provider string) error {
	if len(table.Rows) == 0 {
		return nil
	}

	columns := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		columns[i] = quoteIdentifier(col, provider)
	}
	tableName := quoteIdentifier(table.Name, provider)

	var placeholder sq.PlaceholderFormat = sq.Question
	if provider == "postgresql" || provider == "postgres" {
		placeholder = sq.Dollar
	}

	for start := 0; start < len(table.Rows); start += dbInsertBatch {
		end := start + dbInsertBatch
		if end > len(table.Rows) {
			end = len(table.Rows)
		}

		builder := sq.Insert(tableName).Columns(columns...).PlaceholderFormat(placeholder)
		for _, row := range table.Rows[start:end] {
			builder = builder.Values(row...)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}
