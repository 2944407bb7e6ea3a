package loader

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/hugr-lab/rowfilter/filter"
	"github.com/hugr-lab/rowfilter/table"
)

// sourceColumn is one column of a DuckDB relation as reported by DESCRIBE,
// with the kind it is converted to on load.
type sourceColumn struct {
	name string
	kind table.Kind
}

// loadDuckDB reads a DuckDB-readable file through an in-memory database.
func loadDuckDB(ctx context.Context, path, ext string, o Options) (*table.Table, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb connection: %w", err)
	}
	defer db.Close()

	source := sourceExpr(path, ext, o)
	cols, err := describe(ctx, db, source)
	if err != nil {
		return nil, err
	}

	engine := filter.NewEngine(&filter.EngineConfig{Allocator: o.Allocator, Logger: o.Logger})
	where, postFilter, err := pushdown(engine, o.Where, cols, o)
	if err != nil {
		return nil, err
	}

	query := selectQuery(source, cols, where)
	o.Logger.Debug("DuckDB load query", "path", path, "query", query)

	tbl, err := readRows(ctx, db, query, cols, o)
	if err != nil {
		return nil, err
	}
	if postFilter == nil {
		return tbl, nil
	}

	o.Logger.Debug("Filter not translatable to SQL, applying after load", "filter", postFilter.String())
	defer tbl.Release()
	return engine.ApplyExpression(ctx, postFilter, tbl)
}

func sourceExpr(path, ext string, o Options) string {
	switch ext {
	case ".parquet":
		return fmt.Sprintf("read_parquet(%s)", quoteLiteral(path))
	case ".json", ".ndjson":
		return fmt.Sprintf("read_json_auto(%s)", quoteLiteral(path))
	}

	args := []string{quoteLiteral(path)}
	delim := o.Delimiter
	if delim == "" && ext == ".tsv" {
		delim = "\t"
	}
	if delim != "" {
		args = append(args, "delim = "+quoteLiteral(delim))
	}
	if o.Header != nil {
		args = append(args, fmt.Sprintf("header = %t", *o.Header))
	}
	return fmt.Sprintf("read_csv_auto(%s)", strings.Join(args, ", "))
}

func describe(ctx context.Context, db *sql.DB, source string) ([]sourceColumn, error) {
	rows, err := db.QueryContext(ctx, "DESCRIBE SELECT * FROM "+source)
	if err != nil {
		return nil, fmt.Errorf("failed to describe source: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var cols []sourceColumn
	for rows.Next() {
		vals := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan column description: %w", err)
		}
		name := fmt.Sprint(vals[0])
		typ := fmt.Sprint(vals[1])
		cols = append(cols, sourceColumn{
			name: name,
			kind: kindOfDuckDB(typ),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cols, nil
}

// kindOfDuckDB maps a DuckDB column type onto the table kinds. Types with no
// direct counterpart (dates, timestamps, lists, ...) are read as their DuckDB
// text rendering.
func kindOfDuckDB(typ string) table.Kind {
	switch t := strings.ToUpper(typ); {
	case t == "TINYINT", t == "SMALLINT", t == "INTEGER", t == "BIGINT",
		t == "UTINYINT", t == "USMALLINT", t == "UINTEGER":
		return table.KindInt64
	case t == "UBIGINT", t == "HUGEINT", t == "UHUGEINT", t == "FLOAT", t == "DOUBLE",
		strings.HasPrefix(t, "DECIMAL"):
		return table.KindFloat64
	case t == "BOOLEAN":
		return table.KindBool
	}
	return table.KindString
}

// selectQuery converts every column to its load kind in a subquery, so that a
// WHERE clause sees the same column types as the in-memory evaluator.
func selectQuery(source string, cols []sourceColumn, where string) string {
	exprs := make([]string, len(cols))
	for i, c := range cols {
		id := quoteIdentifier(c.name)
		switch c.kind {
		case table.KindInt64:
			exprs[i] = fmt.Sprintf("CAST(%s AS BIGINT) AS %s", id, id)
		case table.KindFloat64:
			exprs[i] = fmt.Sprintf("CAST(%s AS DOUBLE) AS %s", id, id)
		case table.KindBool:
			exprs[i] = id
		default:
			exprs[i] = fmt.Sprintf("CAST(%s AS VARCHAR) AS %s", id, id)
		}
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(exprs, ", "), source)
	if where == "" {
		return query
	}
	return fmt.Sprintf("SELECT * FROM (%s) AS src WHERE %s", query, where)
}

// pushdown translates filter text into a DuckDB WHERE clause over the converted
// columns. The expression is first evaluated against an empty table of the load
// schema, so unknown columns and kind errors surface as *filter.Error exactly as
// they would after loading. When the expression cannot be translated it is
// returned as postFilter for in-engine filtering.
func pushdown(engine *filter.Engine, text string, cols []sourceColumn, o Options) (where string, postFilter filter.Expression, err error) {
	if strings.TrimSpace(text) == "" {
		return "", nil, nil
	}
	expr, err := filter.Parse(text)
	if err != nil {
		return "", nil, &filter.Error{Stage: filter.StageParse, Err: err}
	}
	if err := checkExpression(engine, expr, cols, o); err != nil {
		return "", nil, err
	}

	opts := &filter.EncoderOptions{
		ColumnKinds:      make(map[string]table.Kind, len(cols)),
		QuoteIdentifiers: true,
	}
	for _, c := range cols {
		opts.ColumnKinds[c.name] = c.kind
		if c.kind == table.KindString {
			opts.SearchColumns = append(opts.SearchColumns, c.name)
		}
	}
	where = filter.NewDuckDBEncoder(opts).Encode(expr)
	if where == "" {
		return "", expr, nil
	}
	return where, nil, nil
}

func checkExpression(engine *filter.Engine, expr filter.Expression, cols []sourceColumn, o Options) error {
	builder := array.NewRecordBuilder(o.Allocator, loadSchema(cols))
	defer builder.Release()
	rec := builder.NewRecordBatch()
	defer rec.Release()

	empty, err := table.New(rec)
	if err != nil {
		return err
	}
	defer empty.Release()

	_, err = engine.EvaluateExpression(expr, empty)
	return err
}

func loadSchema(cols []sourceColumn) *arrow.Schema {
	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		fields[i] = arrow.Field{Name: c.name, Type: arrowType(c.kind), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

func readRows(ctx context.Context, db *sql.DB, query string, cols []sourceColumn, o Options) (*table.Table, error) {
	builder := array.NewRecordBuilder(o.Allocator, loadSchema(cols))
	defer builder.Release()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query source: %w", err)
	}
	defer rows.Close()

	vals := make([]any, len(cols))
	for i, c := range cols {
		switch c.kind {
		case table.KindInt64:
			vals[i] = new(sql.NullInt64)
		case table.KindFloat64:
			vals[i] = new(sql.NullFloat64)
		case table.KindBool:
			vals[i] = new(sql.NullBool)
		default:
			vals[i] = new(sql.NullString)
		}
	}

	for rows.Next() {
		if err := rows.Scan(vals...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range vals {
			appendValue(builder.Field(i), v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	rec := builder.NewRecordBatch()
	defer rec.Release()
	return table.New(rec)
}

func arrowType(kind table.Kind) arrow.DataType {
	switch kind {
	case table.KindInt64:
		return arrow.PrimitiveTypes.Int64
	case table.KindFloat64:
		return arrow.PrimitiveTypes.Float64
	case table.KindBool:
		return arrow.FixedWidthTypes.Boolean
	}
	return arrow.BinaryTypes.String
}

func appendValue(b array.Builder, v any) {
	switch v := v.(type) {
	case *sql.NullInt64:
		if !v.Valid {
			b.AppendNull()
			return
		}
		b.(*array.Int64Builder).Append(v.Int64)
	case *sql.NullFloat64:
		if !v.Valid {
			b.AppendNull()
			return
		}
		b.(*array.Float64Builder).Append(v.Float64)
	case *sql.NullBool:
		if !v.Valid {
			b.AppendNull()
			return
		}
		b.(*array.BooleanBuilder).Append(v.Bool)
	case *sql.NullString:
		if !v.Valid {
			b.AppendNull()
			return
		}
		b.(*array.StringBuilder).Append(v.String)
	}
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
