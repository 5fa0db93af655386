package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tpredicate/internal/predicate"
	"github.com/roach88/tpredicate/internal/staff"
	"github.com/roach88/tpredicate/internal/testutil"
)

type filterCase struct {
	name string
	x    predicate.Expr[staff.Employee]
}

// filterCases exercises every operator on nullable and non-nullable
// fields, absent literals, and negation over each of them.
func filterCases() []filterCase {
	some := predicate.Some[string]
	noJob := predicate.None[string]()
	first := testutil.IDFor(1)

	base := []filterCase{
		{"name eq", predicate.Eq(staff.Name, "Maheshwaran")},
		{"name ne", predicate.Ne(staff.Name, "Maheshwaran")},
		{"name lt", predicate.Lt(staff.Name, "Priya")},
		{"name ge lowercase", predicate.Ge(staff.Name, "a")},
		{"name gt non-ascii", predicate.Gt(staff.Name, "Z")},
		{"id eq", predicate.Eq(staff.ID, first)},
		{"id ne", predicate.Ne(staff.ID, first)},
		{"experience le", predicate.Le(staff.Experience, 1)},
		{"experience gt", predicate.Gt(staff.Experience, 4)},
		{"working", predicate.Eq(staff.Working, true)},
		{"not working", predicate.IsFalse(staff.Working)},
		{"job eq", predicate.EqOpt(staff.Job, some("developer"))},
		{"job eq empty", predicate.EqOpt(staff.Job, some(""))},
		{"job ne", predicate.NeOpt(staff.Job, some("developer"))},
		{"job is nil", predicate.IsNil(staff.Job)},
		{"job not nil", predicate.NotNil(staff.Job)},
		{"job lt", predicate.LtOpt(staff.Job, some("tester"))},
		{"job ge", predicate.GeOpt(staff.Job, some("b"))},
		{"job gt absent", predicate.GtOpt(staff.Job, noJob)},
		{"experience le absent", predicate.LeOpt(staff.Experience, predicate.None[int]())},
		{"name eq absent", predicate.EqOpt(staff.Name, predicate.None[string]())},
		{"name ne absent", predicate.NeOpt(staff.Name, predicate.None[string]())},
		{"senior", predicate.And(predicate.Ge(staff.Experience, 1), predicate.Eq(staff.Working, true))},
		{"either", predicate.Or(predicate.IsNil(staff.Job), predicate.Gt(staff.Experience, 10))},
	}

	cases := append([]filterCase{}, base...)
	for _, c := range base {
		cases = append(cases, filterCase{"not " + c.name, predicate.Not(c.x)})
	}
	cases = append(cases,
		filterCase{"not not job lt", predicate.Not(predicate.Not(predicate.LtOpt(staff.Job, some("tester"))))},
		filterCase{"nested", predicate.Or(
			predicate.And(predicate.NotNil(staff.Job), predicate.Not(predicate.GeOpt(staff.Job, some("d")))),
			predicate.And(predicate.Lt(staff.Experience, 3), predicate.Not(predicate.Eq(staff.Working, true))),
		)},
	)
	return cases
}

func seedRoster(t *testing.T, s *Store) []staff.Employee {
	t.Helper()
	roster := testutil.Roster()
	_, err := PutAll(context.Background(), s, staff.Collection, roster)
	require.NoError(t, err)
	return roster
}

func names(list []staff.Employee) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Name
	}
	return out
}

// TestQuery_AgreesWithMatch checks that SQL evaluation and Expr.Match
// select the same employees, in the same order.
func TestQuery_AgreesWithMatch(t *testing.T) {
	s := createTestStore(t)
	roster := seedRoster(t, s)
	ctx := context.Background()

	for _, tc := range filterCases() {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Query(ctx, s, staff.Collection, predicate.Some(tc.x), 0)
			require.NoError(t, err)

			want := predicate.Filter(roster, tc.x)
			assert.Equal(t, names(want), names(got), "filter %s", tc.x)

			n, err := s.Count(ctx, staff.Collection, tc.x.Node())
			require.NoError(t, err)
			assert.Equal(t, len(want), n)
		})
	}
}

func TestQuery_Scenarios(t *testing.T) {
	s := createTestStore(t)
	seedRoster(t, s)
	ctx := context.Background()

	byName, err := Query(ctx, s, staff.Collection, predicate.Some(predicate.Eq(staff.Name, "Maheshwaran")), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Maheshwaran"}, names(byName))

	senior := predicate.And(predicate.Ge(staff.Experience, 1), predicate.Eq(staff.Working, true))
	got, err := Query(ctx, s, staff.Collection, predicate.Some(senior), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Maheshwaran", "Priya", "Karthik", "Zoe"}, names(got))

	optional := predicate.OrOpt(predicate.None[predicate.Expr[staff.Employee]](), predicate.Some(predicate.Gt(staff.Experience, 1)))
	got, err = Query(ctx, s, staff.Collection, optional, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Maheshwaran", "divya", "Karthik", "Zoe"}, names(got))
}

func TestQuery_AbsentFilterMatchesAll(t *testing.T) {
	s := createTestStore(t)
	roster := seedRoster(t, s)

	got, err := Query(context.Background(), s, staff.Collection, predicate.None[predicate.Expr[staff.Employee]](), 0)
	require.NoError(t, err)
	assert.Equal(t, roster, got)
}

func TestQuery_Limit(t *testing.T) {
	s := createTestStore(t)
	seedRoster(t, s)

	got, err := Query(context.Background(), s, staff.Collection, predicate.Some(predicate.Eq(staff.Working, true)), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Maheshwaran", "Priya"}, names(got))
}

func TestQuery_DecodesOptionalJob(t *testing.T) {
	s := createTestStore(t)
	seedRoster(t, s)

	got, err := Query(context.Background(), s, staff.Collection, predicate.Some(predicate.Eq(staff.Name, "Arun")), 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Job.IsPresent())
	assert.Equal(t, testutil.IDFor(3), got[0].ID)
}

func TestQuery_UnknownCollection(t *testing.T) {
	s := createTestStore(t)

	_, err := Query(context.Background(), s, "ghosts", predicate.None[predicate.Expr[staff.Employee]](), 0)
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestExplain(t *testing.T) {
	x := predicate.And(predicate.GtOpt(staff.Job, predicate.Some("a")), predicate.Eq(staff.Working, true))
	query, params, err := Explain(staff.Collection, x.Node(), 5)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT seq, id, doc FROM employees WHERE "+
			"((json_extract(doc, '$.job') IS NOT NULL AND json_extract(doc, '$.job') > ?) AND json_extract(doc, '$.working') = ?) "+
			"ORDER BY seq ASC, id ASC COLLATE BINARY LIMIT ?",
		query)
	assert.Equal(t, []any{"a", true, 5}, params)

	_, _, err = Explain("sqlite_master", nil, 0)
	assert.ErrorIs(t, err, ErrInvalidCollection)
}
