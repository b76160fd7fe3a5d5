package schema

import (
	"regexp"
	"strings"
)

// Parser extracts a DatabaseSchema from raw CREATE TABLE statements.
// It is a format adapter: the rest of the pipeline only sees the model
// it produces, never the DDL text.
type Parser struct {
	Dialect string
}

func NewParser(dialect string) *Parser {
	if dialect == "" {
		dialect = "postgresql"
	}
	return &Parser{Dialect: dialect}
}

var (
	createTableRe = regexp.MustCompile(`(?i)CREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?["'` + "`" + `]?(\w+)["'` + "`" + `]?\s*\(`)
	tablePKRe     = regexp.MustCompile(`(?i)^PRIMARY\s+KEY\s*\(([^)]+)\)`)
	tableUniqueRe = regexp.MustCompile(`(?i)^UNIQUE\s*\(([^)]+)\)`)
	tableFKRe     = regexp.MustCompile(`(?i)^FOREIGN\s+KEY\s*\(([^)]+)\)\s*REFERENCES\s+["'` + "`" + `]?(\w+)["'` + "`" + `]?\s*\(([^)]+)\)`)
	inlineRefRe   = regexp.MustCompile(`(?i)REFERENCES\s+["'` + "`" + `]?(\w+)["'` + "`" + `]?\s*\(\s*["'` + "`" + `]?(\w+)["'` + "`" + `]?\s*\)`)
	defaultRe     = regexp.MustCompile(`(?i)DEFAULT\s+('[^']*'|\S+)`)
	onDeleteRe    = regexp.MustCompile(`(?i)ON\s+DELETE\s+(CASCADE|SET\s+NULL|SET\s+DEFAULT|RESTRICT|NO\s+ACTION)`)
	onUpdateRe    = regexp.MustCompile(`(?i)ON\s+UPDATE\s+(CASCADE|SET\s+NULL|SET\s+DEFAULT|RESTRICT|NO\s+ACTION)`)
	constraintRe  = regexp.MustCompile(`(?i)^CONSTRAINT\s+["'` + "`" + `]?\w+["'` + "`" + `]?\s+`)
	uniqueWordRe  = regexp.MustCompile(`(?i)\bUNIQUE\b`)
	identRe       = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
)

// Parse reads every CREATE TABLE statement in the DDL text.
func (p *Parser) Parse(ddl string) (*DatabaseSchema, error) {
	db := NewDatabaseSchema(p.Dialect)

	for _, loc := range createTableRe.FindAllStringSubmatchIndex(ddl, -1) {
		name := ddl[loc[2]:loc[3]]
		body, ok := balancedBody(ddl, loc[1]-1)
		if !ok {
			continue
		}
		db.AddTable(p.parseTable(name, body))
	}

	if err := db.Validate(); err != nil {
		return nil, err
	}
	return db, nil
}

// balancedBody returns the text between the opening paren at start and
// its matching close paren, honoring nesting and single-quoted strings.
func balancedBody(s string, start int) (string, bool) {
	depth := 0
	inString := false
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '\'':
			inString = !inString
		case '(':
			if !inString {
				depth++
			}
		case ')':
			if !inString {
				depth--
				if depth == 0 {
					return s[start+1 : i], true
				}
			}
		}
	}
	return "", false
}

// splitDefinitions splits a table body on top-level commas only, so
// CHECK (x IN ('A','B')) stays a single definition.
func splitDefinitions(body string) []string {
	var defs []string
	depth := 0
	inString := false
	last := 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\'':
			inString = !inString
		case '(':
			if !inString {
				depth++
			}
		case ')':
			if !inString {
				depth--
			}
		case ',':
			if depth == 0 && !inString {
				defs = append(defs, body[last:i])
				last = i + 1
			}
		}
	}
	defs = append(defs, body[last:])
	return defs
}

func (p *Parser) parseTable(name, body string) *TableSchema {
	table := &TableSchema{Name: name}
	var pkCols []string

	for _, def := range splitDefinitions(body) {
		def = strings.TrimSpace(def)
		if def == "" {
			continue
		}
		// Named constraints reduce to their unnamed form.
		def = constraintRe.ReplaceAllString(def, "")
		upper := strings.ToUpper(def)

		switch {
		case tablePKRe.MatchString(def):
			m := tablePKRe.FindStringSubmatch(def)
			pkCols = append(pkCols, splitColumnList(m[1])...)
		case tableUniqueRe.MatchString(def):
			m := tableUniqueRe.FindStringSubmatch(def)
			table.UniqueConstraints = append(table.UniqueConstraints, UniqueConstraint{Columns: splitColumnList(m[1])})
		case tableFKRe.MatchString(def):
			m := tableFKRe.FindStringSubmatch(def)
			fk := ForeignKey{
				Columns:           splitColumnList(m[1]),
				ReferencesTable:   m[2],
				ReferencesColumns: splitColumnList(m[3]),
			}
			if om := onDeleteRe.FindStringSubmatch(def); om != nil {
				fk.OnDelete = strings.ToUpper(om[1])
			}
			if om := onUpdateRe.FindStringSubmatch(def); om != nil {
				fk.OnUpdate = strings.ToUpper(om[1])
			}
			table.ForeignKeys = append(table.ForeignKeys, fk)
		case strings.HasPrefix(upper, "CHECK"):
			if expr, ok := balancedBody(def, strings.Index(def, "(")); ok {
				expr = strings.TrimSpace(expr)
				table.CheckConstraints = append(table.CheckConstraints, CheckConstraint{
					Expression: expr,
					Columns:    firstIdentifier(expr),
				})
			}
		case strings.HasPrefix(upper, "INDEX") || strings.HasPrefix(upper, "KEY"):
			// Index definitions carry no generation semantics.
		default:
			if col, pk := p.parseColumn(def, table); col != nil {
				table.Columns = append(table.Columns, *col)
				if pk {
					pkCols = append(pkCols, col.Name)
				}
			}
		}
	}

	if len(pkCols) > 0 {
		table.PrimaryKey = &PrimaryKey{Columns: dedupe(pkCols)}
	}
	return table
}

// parseColumn parses one column definition; the second return reports
// an inline PRIMARY KEY.
func (p *Parser) parseColumn(def string, table *TableSchema) (*Column, bool) {
	fields := strings.Fields(def)
	if len(fields) < 2 {
		return nil, false
	}

	colName := strings.Trim(fields[0], "\"'`")
	colType := fields[1]
	// Re-attach a length spec split across fields, e.g. "DECIMAL(10, 2)".
	for i := 2; strings.Contains(colType, "(") && !strings.Contains(colType, ")") && i < len(fields); i++ {
		colType += " " + fields[i]
	}

	upper := strings.ToUpper(def)
	col := &Column{
		Name:     colName,
		Type:     colType,
		Nullable: !strings.Contains(upper, "NOT NULL"),
		Unique:   uniqueWordRe.MatchString(def),
	}

	isPK := strings.Contains(upper, "PRIMARY KEY") || strings.Contains(strings.ToUpper(colType), "SERIAL")
	if isPK {
		col.Nullable = false
	}

	if m := defaultRe.FindStringSubmatch(def); m != nil {
		col.Default = strings.Trim(m[1], "'")
	}

	if ci := strings.Index(upper, "CHECK"); ci >= 0 {
		if pi := strings.Index(def[ci:], "("); pi >= 0 {
			if expr, ok := balancedBody(def, ci+pi); ok {
				col.Check = strings.TrimSpace(expr)
				table.CheckConstraints = append(table.CheckConstraints, CheckConstraint{
					Expression: col.Check,
					Columns:    []string{colName},
				})
			}
		}
	}

	if m := inlineRefRe.FindStringSubmatch(def); m != nil {
		fk := ForeignKey{
			Columns:           []string{colName},
			ReferencesTable:   m[1],
			ReferencesColumns: []string{m[2]},
		}
		if om := onDeleteRe.FindStringSubmatch(def); om != nil {
			fk.OnDelete = strings.ToUpper(om[1])
		}
		if om := onUpdateRe.FindStringSubmatch(def); om != nil {
			fk.OnUpdate = strings.ToUpper(om[1])
		}
		table.ForeignKeys = append(table.ForeignKeys, fk)
	}

	return col, isPK
}

func splitColumnList(list string) []string {
	var cols []string
	for _, part := range strings.Split(list, ",") {
		part = strings.Trim(strings.TrimSpace(part), "\"'`")
		if part != "" {
			cols = append(cols, part)
		}
	}
	return cols
}

func firstIdentifier(expr string) []string {
	if m := identRe.FindString(expr); m != "" {
		return []string{m}
	}
	return nil
}

func dedupe(names []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
