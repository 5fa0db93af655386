package querysql

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/roach88/tpredicate/internal/ir"
	"github.com/roach88/tpredicate/internal/predicate"
)

// identPattern matches the identifiers the compiler is willing to splice
// into SQL text. Everything else is a parameter.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name may be used as a table or column
// name in compiled SQL.
func ValidIdentifier(name string) bool {
	return identPattern.MatchString(name)
}

// defaultOrderKey is the stable ordering used when a Select names none.
const defaultOrderKey = "id ASC COLLATE BINARY"

// SQLCompiler compiles predicate trees to parameterized SQL for SQLite.
//
// All literals are bound as parameters, never interpolated. Translations
// keep SQL two-valued: a compiled WHERE clause selects exactly the rows for
// which Expr.Match reports true, including under NOT.
type SQLCompiler struct {
	// FieldExpr renders the SQL expression that reads a field.
	// The field name has already been checked to be a plain identifier.
	FieldExpr func(predicate.Path) string
}

// NewSQLCompiler creates a compiler that reads fields from columns of the
// same name.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{FieldExpr: Column}
}

// NewJSONCompiler creates a compiler that reads fields from a JSON document
// stored in column.
func NewJSONCompiler(column string) *SQLCompiler {
	return &SQLCompiler{FieldExpr: JSONField(column)}
}

// Column maps a field to the column of the same name.
func Column(p predicate.Path) string {
	return p.Field
}

// JSONField maps a field to json_extract over a document column.
func JSONField(column string) func(predicate.Path) string {
	return func(p predicate.Path) string {
		return fmt.Sprintf("json_extract(%s, '$.%s')", column, p.Field)
	}
}

// Select is a single-table query.
type Select struct {
	From    string
	Columns []string       // nil selects *
	Filter  predicate.Node // nil selects every row
	OrderBy string         // defaults to id ASC COLLATE BINARY
	Limit   int            // 0 means unlimited
}

// Compile converts q to parameterized SQL.
// Returns (sql, params, error) tuple.
//
// Every query carries an ORDER BY so results are deterministic.
func (c *SQLCompiler) Compile(q Select) (string, []any, error) {
	if !ValidIdentifier(q.From) {
		return "", nil, &CompileError{Message: fmt.Sprintf("invalid table name %q", q.From)}
	}

	selectClause, err := c.compileColumns(q.Columns)
	if err != nil {
		return "", nil, err
	}

	var whereClause string
	var params []any
	if q.Filter != nil {
		filterSQL, filterParams, err := c.CompileWhere(q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		whereClause = " WHERE " + filterSQL
		params = filterParams
	}

	sql := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s",
		selectClause,
		q.From,
		whereClause,
		stableOrderKey(q))

	if q.Limit > 0 {
		sql += " LIMIT ?"
		params = append(params, q.Limit)
	}

	return sql, params, nil
}

// CompileWhere compiles n to a WHERE clause fragment.
// A nil node compiles to the always-true clause.
func (c *SQLCompiler) CompileWhere(n predicate.Node) (string, []any, error) {
	if n == nil {
		return "1 = 1", nil, nil
	}
	frag, err := predicate.Fold[fragment](n, whereBuilder{fieldExpr: c.FieldExpr})
	if err != nil {
		return "", nil, err
	}
	return frag.sql, frag.params, nil
}

func (c *SQLCompiler) compileColumns(columns []string) (string, error) {
	if len(columns) == 0 {
		return "*", nil
	}
	for _, col := range columns {
		if !ValidIdentifier(col) {
			return "", &CompileError{Message: fmt.Sprintf("invalid column name %q", col)}
		}
	}
	return strings.Join(columns, ", "), nil
}

func stableOrderKey(q Select) string {
	if q.OrderBy != "" {
		return q.OrderBy
	}
	return defaultOrderKey
}

// whereBuilder is the predicate.Visitor that produces WHERE fragments.
type whereBuilder struct {
	fieldExpr func(predicate.Path) string
}

// fragment is a compiled piece of a WHERE clause.
type fragment struct {
	sql      string
	params   []any
	compound bool
}

// VisitComparison compiles field OP operand.
func (b whereBuilder) VisitComparison(n *predicate.Comparison) (fragment, error) {
	field := n.Field()
	if !ValidIdentifier(field.Field) {
		return fragment{}, &CompileError{Field: field.Field, Message: "field name is not a plain identifier"}
	}
	col := b.column(field)

	lit, present := n.Operand().Value()
	if !present {
		return compileAbsent(col, n.Op()), nil
	}

	param, err := literalToParam(lit)
	if err != nil {
		return fragment{}, &CompileError{Field: field.Field, Message: "convert value", Err: err}
	}

	switch n.Op() {
	case predicate.OpEq:
		if field.Nullable {
			return leaf(col+" IS ?", param), nil
		}
		return leaf(col+" = ?", param), nil
	case predicate.OpNe:
		if field.Nullable {
			return leaf(col+" IS NOT ?", param), nil
		}
		return leaf(col+" <> ?", param), nil
	case predicate.OpLt, predicate.OpLe, predicate.OpGt, predicate.OpGe:
		cond := fmt.Sprintf("%s %s ?", col, sqlOperator(n.Op()))
		if field.Nullable {
			return leaf(fmt.Sprintf("(%s IS NOT NULL AND %s)", col, cond), param), nil
		}
		return leaf(cond, param), nil
	default:
		return fragment{}, &CompileError{Field: field.Field, Message: fmt.Sprintf("unsupported operator %s", n.Op())}
	}
}

// VisitCompound joins compiled children with AND/OR, or negates a single child.
func (whereBuilder) VisitCompound(n *predicate.Compound, children []fragment) (fragment, error) {
	var params []any
	for _, child := range children {
		params = append(params, child.params...)
	}

	switch n.Kind() {
	case predicate.KindNot:
		if len(children) != 1 {
			return fragment{}, &CompileError{Message: fmt.Sprintf("NOT takes one operand, got %d", len(children))}
		}
		if children[0].compound {
			return fragment{sql: "NOT " + children[0].sql, params: params}, nil
		}
		return fragment{sql: "NOT (" + children[0].sql + ")", params: params}, nil
	case predicate.KindAnd, predicate.KindOr:
		if len(children) < 2 {
			return fragment{}, &CompileError{Message: fmt.Sprintf("%s needs at least two operands, got %d", n.Kind(), len(children))}
		}
		parts := make([]string, len(children))
		for i, child := range children {
			parts[i] = child.sql
		}
		sql := "(" + strings.Join(parts, " "+n.Kind().String()+" ") + ")"
		return fragment{sql: sql, params: params, compound: true}, nil
	default:
		return fragment{}, &CompileError{Message: fmt.Sprintf("unsupported connective %s", n.Kind())}
	}
}

func (b whereBuilder) column(p predicate.Path) string {
	if b.fieldExpr == nil {
		return Column(p)
	}
	return b.fieldExpr(p)
}

// compileAbsent compiles a comparison against no value. Absent equals
// absent, and absent is never ordered against anything.
func compileAbsent(col string, op predicate.Op) fragment {
	switch op {
	case predicate.OpEq:
		return fragment{sql: col + " IS NULL"}
	case predicate.OpNe:
		return fragment{sql: col + " IS NOT NULL"}
	default:
		return fragment{sql: "1 = 0"}
	}
}

func leaf(sql string, param any) fragment {
	return fragment{sql: sql, params: []any{param}}
}

func sqlOperator(op predicate.Op) string {
	switch op {
	case predicate.OpLt:
		return "<"
	case predicate.OpLe:
		return "<="
	case predicate.OpGt:
		return ">"
	default:
		return ">="
	}
}

// literalToParam converts a comparison literal to a SQL parameter.
// Floats bind as float64; everything else goes through the IR value model
// so that identifiers and enums bind as their text form.
func literalToParam(v any) (any, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("non-finite float %v", f)
		}
		return f, nil
	}

	val, err := ir.FromGo(v)
	if err != nil {
		return nil, err
	}
	return irValueToParam(val)
}

// irValueToParam converts an ir.IRValue to a Go native type for SQL parameter.
// Supports string, int, bool. Arrays and objects are not directly supported
// as SQL parameters.
func irValueToParam(v ir.IRValue) (any, error) {
	switch val := v.(type) {
	case ir.IRString:
		return string(val), nil
	case ir.IRInt:
		return int64(val), nil
	case ir.IRBool:
		return bool(val), nil
	case ir.IRArray:
		return nil, fmt.Errorf("IRArray cannot be used as SQL parameter directly")
	case ir.IRObject:
		return nil, fmt.Errorf("IRObject cannot be used as SQL parameter directly")
	default:
		return nil, fmt.Errorf("unsupported IRValue type for SQL parameter: %T", v)
	}
}
