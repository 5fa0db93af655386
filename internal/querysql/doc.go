// Package querysql translates predicate trees into parameterized SQLite SQL.
//
// The compiler walks a predicate.Node through predicate.Fold and produces a
// WHERE clause plus its positional parameters:
//
//	x := predicate.And(predicate.Ge(staff.Experience, 1), predicate.Eq(staff.Working, true))
//	sql, params, err := querysql.NewSQLCompiler().CompileWhere(x.Node())
//	// sql    = "(experience >= ? AND working = ?)"
//	// params = []any{int64(1), true}
//
// Comparisons against nullable fields and absent literals are written so
// that SQL's three-valued logic never leaks: NULL never satisfies an
// ordering, NULL IS NULL holds, and NOT inverts exactly.
package querysql
