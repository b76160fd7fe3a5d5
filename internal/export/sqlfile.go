package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/Tessera-Labs-HQ/tessera/internal/dataset"
)

const sqlInsertBatch = 100

// WriteSQL renders the dataset as an INSERT script in generation order,
// so the script replays cleanly against a schema with FK constraints.
func WriteSQL(data dataset.Dataset, order []string, dialect, path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	var b strings.Builder
	b.WriteString("-- Generated by tessera\n")
	b.WriteString(fmt.Sprintf("-- %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	for _, tableName := range order {
		table, ok := data[tableName]
		if !ok {
			continue
		}
		if err := writeTableSQL(&b, table, dialect); err != nil {
			return fmt.Errorf("failed to render table %s: %w", tableName, err)
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write SQL script: %w", err)
	}
	return nil
}

func writeTableSQL(b *strings.Builder, table *dataset.Table, dialect string) error {
	if len(table.Rows) == 0 {
		return nil
	}

	columns := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		columns[i] = quoteIdentifier(col, dialect)
	}
	tableName := quoteIdentifier(table.Name, dialect)

	for start := 0; start < len(table.Rows); start += sqlInsertBatch {
		end := start + sqlInsertBatch
		if end > len(table.Rows) {
			end = len(table.Rows)
		}

		builder := sq.Insert(tableName).Columns(columns...)
		for _, row := range table.Rows[start:end] {
			builder = builder.Values(row...)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return err
		}
		b.WriteString(inlineArgs(query, args))
		b.WriteString(";\n")
	}
	b.WriteString("\n")
	return nil
}

// quoteIdentifier quotes per dialect: double quotes for postgres,
// backticks for mysql, bare otherwise.
func quoteIdentifier(name, dialect string) string {
	switch dialect {
	case "postgresql", "postgres":
		return pq.QuoteIdentifier(name)
	case "mysql":
		return "`" + name + "`"
	default:
		return name
	}
}

// inlineArgs substitutes ? placeholders with literal values so the
// script is self-contained.
func inlineArgs(query string, args []interface{}) string {
	var b strings.Builder
	argIdx := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' && argIdx < len(args) {
			b.WriteString(formatLiteral(args[argIdx]))
			argIdx++
		} else {
			b.WriteByte(query[i])
		}
	}
	return b.String()
}

func formatLiteral(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return "'" + v.Format("2006-01-02 15:04:05") + "'"
	case int, int32, int64, float32, float64:
		return fmt.Sprintf("%v", v)
	default:
		return "'" + strings.ReplaceAll(fmt.Sprintf("%v", v), "'", "''") + "'"
	}
}
