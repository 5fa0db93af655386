package filterdoc

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tpredicate/internal/predicate"
)

type task struct {
	ID       uuid.UUID
	Title    string
	Owner    predicate.Optional[string]
	Priority int
	Done     bool
}

var (
	taskID       = predicate.NewKey("id", func(t task) uuid.UUID { return t.ID })
	taskTitle    = predicate.NewKey("title", func(t task) string { return t.Title })
	taskOwner    = predicate.NewNullableKey("owner", func(t task) (string, bool) { return t.Owner.Get() })
	taskPriority = predicate.NewKey("priority", func(t task) int { return t.Priority })
	taskDone     = predicate.NewKey("done", func(t task) bool { return t.Done })
)

func taskSchema() *Schema[task] {
	s := NewSchema[task]("task")
	Equatable(s, taskID)
	Equatable(s, taskDone)
	Ordered(s, taskTitle)
	Ordered(s, taskOwner)
	Ordered(s, taskPriority)
	return s
}

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

func TestParseFile(t *testing.T) {
	doc, err := ParseFile(filepath.Join("testdata", "open_tasks.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "task", doc.Entity)
	assert.Equal(t, 20, doc.Limit)
	require.NotNil(t, doc.Where)
	require.Len(t, doc.Where.And, 3)
	assert.Equal(t, "done", doc.Where.And[0].Field)
	assert.Equal(t, 4, doc.Where.And[0].Line)
	assert.Equal(t, []string{"owner"}, doc.Params())
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.False(t, IsBindError(err))
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty document", ""},
		{"invalid yaml", "entity: [task\n"},
		{"not a mapping", "- task\n"},
		{"missing entity", "where: {field: done, op: eq, value: true}\n"},
		{"unknown top-level key", "entity: task\norder: title\n"},
		{"negative limit", "entity: task\nlimit: -1\n"},
		{"unknown operator", "entity: task\nwhere: {field: done, op: like, value: true}\n"},
		{"field is not an identifier", "entity: task\nwhere: {field: \"a b\", op: eq, value: 1}\n"},
		{"list value", "entity: task\nwhere: {field: title, op: eq, value: [a, b]}\n"},
		{"unknown clause key", "entity: task\nwhere: {field: done, op: eq, value: true, hint: x}\n"},
		{"and with one clause", "entity: task\nwhere:\n  and:\n    - {field: done, op: eq, value: true}\n"},
		{"or with no clauses", "entity: task\nwhere: {or: []}\n"},
		{"nested violation", "entity: task\nwhere:\n  not:\n    not: {field: done, op: eq, value: {a: 1}}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			assert.True(t, HasCode(err, ErrCodeSchemaViolation), "got %v", err)
		})
	}
}

func TestBind_Comparison(t *testing.T) {
	doc := mustParse(t, "entity: task\nwhere: {field: title, op: eq, value: Maheshwaran}\n")

	got, err := Bind(taskSchema(), doc, nil)
	require.NoError(t, err)

	x, ok := got.Get()
	require.True(t, ok)
	assert.True(t, predicate.Equal(predicate.Eq(taskTitle, "Maheshwaran").Node(), x.Node()))
}

func TestBind_AndFoldsLeft(t *testing.T) {
	doc := mustParse(t, `
entity: task
where:
  and:
    - {field: priority, op: ">=", value: 1}
    - {field: done, op: eq, value: true}
    - {field: owner, op: ne, value: null}
`)

	got, err := Bind(taskSchema(), doc, nil)
	require.NoError(t, err)
	x, ok := got.Get()
	require.True(t, ok)

	want := predicate.And(
		predicate.And(predicate.Ge(taskPriority, 1), predicate.Eq(taskDone, true)),
		predicate.NotNil(taskOwner),
	)
	assert.True(t, predicate.Equal(want.Node(), x.Node()), "got %s", x)
}

func TestBind_Params(t *testing.T) {
	doc, err := ParseFile(filepath.Join("testdata", "open_tasks.yaml"))
	require.NoError(t, err)
	s := taskSchema()

	withOwner, err := Bind(s, doc, map[string]string{"owner": "ravi"})
	require.NoError(t, err)
	x, ok := withOwner.Get()
	require.True(t, ok)
	want := predicate.And(
		predicate.And(predicate.Eq(taskDone, false), predicate.Ge(taskPriority, 2)),
		predicate.Or(predicate.EqOpt(taskOwner, predicate.Some("ravi")), predicate.IsNil(taskOwner)),
	)
	assert.True(t, predicate.Equal(want.Node(), x.Node()), "got %s", x)

	// Without the parameter the owner clause is absent and the OR reduces
	// to its other side.
	withoutOwner, err := Bind(s, doc, nil)
	require.NoError(t, err)
	x, ok = withoutOwner.Get()
	require.True(t, ok)
	want = predicate.And(
		predicate.And(predicate.Eq(taskDone, false), predicate.Ge(taskPriority, 2)),
		predicate.IsNil(taskOwner),
	)
	assert.True(t, predicate.Equal(want.Node(), x.Node()), "got %s", x)
}

func TestBind_ParamDecoding(t *testing.T) {
	id := uuid.MustParse("0191e4a4-7c5e-7d2b-9a1e-3c4f5a6b7c8d")
	s := taskSchema()

	tests := []struct {
		name  string
		src   string
		param string
		want  predicate.Node
	}{
		{"int", "{field: priority, op: lt, param: p}", "3", predicate.Lt(taskPriority, 3).Node()},
		{"bool", "{field: done, op: eq, param: p}", "true", predicate.Eq(taskDone, true).Node()},
		{"numeric string", "{field: title, op: eq, param: p}", "42", predicate.Eq(taskTitle, "42").Node()},
		{"uuid", "{field: id, op: eq, param: p}", id.String(), predicate.Eq(taskID, id).Node()},
		{"null is absent", "{field: owner, op: eq, param: p}", "null", predicate.IsNil(taskOwner).Node()},
		{"empty string", "{field: title, op: eq, param: p}", "", predicate.Eq(taskTitle, "").Node()},
		{"empty nullable string", "{field: owner, op: eq, param: p}", "", predicate.EqOpt(taskOwner, predicate.Some("")).Node()},
		{"tilde string", "{field: title, op: eq, param: p}", "~", predicate.Eq(taskTitle, "~").Node()},
		{"hex int", "{field: priority, op: eq, param: p}", "0x10", predicate.Eq(taskPriority, 16).Node()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, "entity: task\nwhere: "+tt.src+"\n")
			got, err := Bind(s, doc, map[string]string{"p": tt.param})
			require.NoError(t, err)
			x, ok := got.Get()
			require.True(t, ok)
			assert.True(t, predicate.Equal(tt.want, x.Node()), "got %s", x)
		})
	}
}

func TestBind_Absent(t *testing.T) {
	s := taskSchema()

	tests := []struct {
		name string
		src  string
	}{
		{"no where", "entity: task\n"},
		{"single missing param", "entity: task\nwhere: {field: title, op: eq, param: title}\n"},
		{"not of missing param", "entity: task\nwhere:\n  not: {field: title, op: eq, param: title}\n"},
		{"and of missing params", "entity: task\nwhere:\n  and:\n    - {field: title, op: eq, param: a}\n    - {field: priority, op: gt, param: b}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Bind(s, mustParse(t, tt.src), nil)
			require.NoError(t, err)
			assert.False(t, got.IsPresent())
		})
	}
}

func TestBind_Errors(t *testing.T) {
	s := taskSchema()

	tests := []struct {
		name   string
		src    string
		params map[string]string
		code   ErrorCode
		line   int
	}{
		{
			name: "unknown entity",
			src:  "entity: employee\n",
			code: ErrCodeUnknownEntity,
		},
		{
			name: "unknown field",
			src:  "entity: task\nwhere: {field: salary, op: gt, value: 10}\n",
			code: ErrCodeUnknownField,
			line: 2,
		},
		{
			name: "ordering on equatable-only field",
			src:  "entity: task\nwhere:\n  and:\n    - {field: priority, op: gt, value: 1}\n    - {field: done, op: lt, value: true}\n",
			code: ErrCodeUnsupportedOperator,
			line: 5,
		},
		{
			name: "ordering on uuid",
			src:  "entity: task\nwhere: {field: id, op: ge, value: 0191e4a4-7c5e-7d2b-9a1e-3c4f5a6b7c8d}\n",
			code: ErrCodeUnsupportedOperator,
		},
		{
			name: "value of wrong type",
			src:  "entity: task\nwhere: {field: priority, op: eq, value: high}\n",
			code: ErrCodeInvalidValue,
		},
		{
			name:   "param of wrong type",
			src:    "entity: task\nwhere: {field: done, op: eq, param: d}\n",
			params: map[string]string{"d": "maybe"},
			code:   ErrCodeInvalidValue,
		},
		{
			name: "fractional value for int field",
			src:  "entity: task\nwhere: {field: priority, op: eq, value: 1.5}\n",
			code: ErrCodeInvalidValue,
			line: 2,
		},
		{
			name:   "fractional param for int field",
			src:    "entity: task\nwhere: {field: priority, op: lt, param: p}\n",
			params: map[string]string{"p": "2.9"},
			code:   ErrCodeInvalidValue,
		},
		{
			name:   "empty param for int field",
			src:    "entity: task\nwhere: {field: priority, op: lt, param: p}\n",
			params: map[string]string{"p": ""},
			code:   ErrCodeInvalidValue,
		},
		{
			name: "invalid uuid",
			src:  "entity: task\nwhere: {field: id, op: eq, value: nope}\n",
			code: ErrCodeInvalidValue,
		},
		{
			name: "mixed forms",
			src:  "entity: task\nwhere:\n  field: done\n  op: eq\n  value: true\n  not: {field: done, op: eq, value: true}\n",
			code: ErrCodeInvalidClause,
			line: 3,
		},
		{
			name: "value and param",
			src:  "entity: task\nwhere: {field: done, op: eq, value: true, param: d}\n",
			code: ErrCodeInvalidClause,
		},
		{
			name: "comparison without op",
			src:  "entity: task\nwhere: {field: done, value: true}\n",
			code: ErrCodeInvalidClause,
		},
		{
			name: "comparison without value",
			src:  "entity: task\nwhere: {field: done, op: eq}\n",
			code: ErrCodeInvalidClause,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Bind(s, mustParse(t, tt.src), tt.params)
			require.Error(t, err)
			assert.True(t, HasCode(err, tt.code), "got %v", err)

			var be *BindError
			require.ErrorAs(t, err, &be)
			if tt.line > 0 {
				assert.Equal(t, tt.line, be.Line)
			}
		})
	}
}

func TestSchema(t *testing.T) {
	s := taskSchema()

	assert.Equal(t, "task", s.Entity())
	var names []string
	for _, p := range s.Fields() {
		names = append(names, p.Field)
	}
	assert.Equal(t, []string{"done", "id", "owner", "priority", "title"}, names)

	assert.True(t, s.Supports("done", predicate.OpNe))
	assert.False(t, s.Supports("done", predicate.OpLt))
	assert.True(t, s.Supports("owner", predicate.OpLt))
	assert.False(t, s.Supports("salary", predicate.OpEq))

	assert.Panics(t, func() { Equatable(s, taskDone) })
}

func TestBindError_Format(t *testing.T) {
	err := &BindError{Code: ErrCodeUnknownField, Field: "salary", Line: 3, Message: "no such field on task"}
	assert.Equal(t, "line 3: UNKNOWN_FIELD: field salary: no such field on task", err.Error())

	err = &BindError{Code: ErrCodeSchemaViolation, Message: "empty document"}
	assert.Equal(t, "SCHEMA_VIOLATION: empty document", err.Error())
}
