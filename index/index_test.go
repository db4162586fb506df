package index

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/lattice/record"
)

func userSchema() record.Schema {
	return record.Schema{
		"name":   record.KindString,
		"age":    record.KindInt,
		"score":  record.KindFloat,
		"active": record.KindBool,
	}
}

func userRecord(i int) record.Record {
	return record.Record{
		record.IDField: record.String(fmt.Sprintf("u-%04d", i)),
		"name":         record.String(fmt.Sprintf("user%03d", i%50)),
		"age":          record.Int(int64(18 + i%60)),
		"score":        record.Float(float64(i%100) / 10),
		"active":       record.Bool(i%2 == 0),
	}
}

func buildIndex(t *testing.T, n int) (*CollectionIndex, []record.Record) {
	t.Helper()
	ci := New(userSchema())
	records := make([]record.Record, n)
	for i := 0; i < n; i++ {
		records[i] = userRecord(i)
		require.NoError(t, ci.AddRecord(uint32(i), records[i]))
	}
	return ci, records
}

func TestQueryAndEmptyConditionsIsUniverse(t *testing.T) {
	ci, _ := buildIndex(t, 25)

	got := ci.QueryAnd(Conditions{})
	assert.EqualValues(t, 25, got.GetCardinality())
	assert.True(t, got.Equals(ci.Universe()))
}

func TestQueryOrEmptyConditionsIsEmpty(t *testing.T) {
	ci, _ := buildIndex(t, 25)

	got := ci.QueryOr(Conditions{})
	assert.True(t, got.IsEmpty())
}

func TestQueryUnknownFieldMatchesNothing(t *testing.T) {
	ci, _ := buildIndex(t, 10)

	and := ci.QueryAnd(Conditions{
		"age":     Range(record.Int(0), record.Int(200)),
		"missing": Eq(record.Int(1)),
	})
	assert.True(t, and.IsEmpty(), "unknown field forces empty intersection")

	or := ci.QueryOr(Conditions{
		"missing": Eq(record.Int(1)),
		"active":  Eq(record.Bool(true)),
	})
	assert.False(t, or.IsEmpty(), "unknown field contributes nothing to a union")
}

func TestQueryRangeAgainstLinearScan(t *testing.T) {
	const n = 1000
	ci, records := buildIndex(t, n)

	lo, hi := record.Int(18), record.Int(30)
	got := ci.QueryAnd(Conditions{"age": Range(lo, hi)})

	want := make(map[uint32]bool)
	for i, rec := range records {
		age, _ := rec["age"].AsInt64()
		if age >= 18 && age <= 30 {
			want[uint32(i)] = true
		}
	}

	require.EqualValues(t, len(want), got.GetCardinality())
	for _, pos := range got.ToArray() {
		assert.True(t, want[pos], "position %d outside range", pos)
	}
}

func TestQueryRangeAcrossIntAndFloat(t *testing.T) {
	ci := New(record.Schema{"score": record.KindFloat})
	scores := []float64{0.5, 1.0, 2.5, 3.0, 9.9}
	for i, s := range scores {
		rec := record.Record{
			record.IDField: record.String(fmt.Sprintf("r%d", i)),
			"score":        record.Float(s),
		}
		require.NoError(t, ci.AddRecord(uint32(i), rec))
	}

	got := ci.QueryAnd(Conditions{"score": Range(record.Int(1), record.Int(3))})
	assert.ElementsMatch(t, []uint32{1, 2, 3}, got.ToArray())
}

func TestQueryEq(t *testing.T) {
	ci, records := buildIndex(t, 200)

	got := ci.QueryAnd(Conditions{"name": Eq(record.String("user007"))})
	for _, pos := range got.ToArray() {
		name, _ := records[pos]["name"].AsString()
		assert.Equal(t, "user007", name)
	}
	assert.EqualValues(t, 4, got.GetCardinality())

	none := ci.QueryAnd(Conditions{"name": Eq(record.String("nobody"))})
	assert.True(t, none.IsEmpty())
}

func TestQueryPrefix(t *testing.T) {
	ci := New(record.Schema{"name": record.KindString})
	names := []string{"alpha", "alphabet", "beta", "alpaca", "gamma"}
	for i, name := range names {
		rec := record.Record{
			record.IDField: record.String(fmt.Sprintf("r%d", i)),
			"name":         record.String(name),
		}
		require.NoError(t, ci.AddRecord(uint32(i), rec))
	}

	got := ci.QueryAnd(Conditions{"name": Prefix("alph")})
	assert.ElementsMatch(t, []uint32{0, 1}, got.ToArray())

	all := ci.QueryAnd(Conditions{"name": Prefix("")})
	assert.EqualValues(t, len(names), all.GetCardinality())
}

func TestQueryRegex(t *testing.T) {
	ci := New(record.Schema{"name": record.KindString})
	names := []string{"alice", "bob", "carol", "albert"}
	for i, name := range names {
		rec := record.Record{
			record.IDField: record.String(fmt.Sprintf("r%d", i)),
			"name":         record.String(name),
		}
		require.NoError(t, ci.AddRecord(uint32(i), rec))
	}

	cond, err := Regex("^al")
	require.NoError(t, err)
	got := ci.QueryAnd(Conditions{"name": cond})
	assert.ElementsMatch(t, []uint32{0, 3}, got.ToArray())

	_, err = Regex("([")
	assert.Error(t, err)
}

func TestQueryInAndNot(t *testing.T) {
	ci, records := buildIndex(t, 100)

	in := ci.QueryAnd(Conditions{"name": In(record.String("user001"), record.String("user002"))})
	for _, pos := range in.ToArray() {
		name, _ := records[pos]["name"].AsString()
		assert.Contains(t, []string{"user001", "user002"}, name)
	}
	assert.EqualValues(t, 4, in.GetCardinality())

	not := ci.QueryAnd(Conditions{"active": Not(record.Bool(true))})
	assert.EqualValues(t, 50, not.GetCardinality())
	for _, pos := range not.ToArray() {
		active, _ := records[pos]["active"].AsBool()
		assert.False(t, active)
	}
}

func TestQueryAndIntersectsFields(t *testing.T) {
	ci, records := buildIndex(t, 300)

	got := ci.QueryAnd(Conditions{
		"age":    Range(record.Int(20), record.Int(25)),
		"active": Eq(record.Bool(true)),
	})
	for _, pos := range got.ToArray() {
		age, _ := records[pos]["age"].AsInt64()
		active, _ := records[pos]["active"].AsBool()
		assert.True(t, age >= 20 && age <= 25)
		assert.True(t, active)
	}

	want := 0
	for _, rec := range records {
		age, _ := rec["age"].AsInt64()
		active, _ := rec["active"].AsBool()
		if age >= 20 && age <= 25 && active {
			want++
		}
	}
	assert.EqualValues(t, want, got.GetCardinality())
}

func TestAddRecordEnforcesAppendOnly(t *testing.T) {
	ci := New(userSchema())
	require.NoError(t, ci.AddRecord(0, userRecord(0)))

	err := ci.AddRecord(5, userRecord(1))
	assert.Error(t, err)
}

func TestRebuildAfterMutation(t *testing.T) {
	ci, records := buildIndex(t, 10)

	// Drop every odd record and rebuild.
	kept := records[:0]
	for i, rec := range records {
		if i%2 == 0 {
			kept = append(kept, rec)
		}
	}
	require.NoError(t, ci.Rebuild(kept))

	assert.Equal(t, len(kept), ci.Len())
	got := ci.QueryAnd(Conditions{"active": Eq(record.Bool(true))})
	assert.EqualValues(t, len(kept), got.GetCardinality())
}

func TestStructuralQueries(t *testing.T) {
	ci := New(record.Schema{"color": record.KindString})
	colors := []string{"red", "blue", "red", "green", "red", "blue"}
	for i, c := range colors {
		rec := record.Record{
			record.IDField: record.String(fmt.Sprintf("r%d", i)),
			"color":        record.String(c),
		}
		require.NoError(t, ci.AddRecord(uint32(i), rec))
	}
	require.NoError(t, ci.Build())

	fi := ci.Field("color")
	require.NotNil(t, fi)

	v, err := fi.ValueAt(3)
	require.NoError(t, err)
	s, _ := v.AsString()
	assert.Equal(t, "green", s)

	n, err := fi.Occurrences(record.String("red"), 5)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = fi.Occurrences(record.String("purple"), 5)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	pos, err := fi.Position(record.String("blue"), 2)
	require.NoError(t, err)
	assert.Equal(t, 5, pos)

	_, err = fi.Position(record.String("blue"), 3)
	assert.Error(t, err)
}

func TestParseConditionMap(t *testing.T) {
	t.Run("literal equality", func(t *testing.T) {
		cond, err := ParseConditionMap("alice")
		require.NoError(t, err)
		assert.Equal(t, OpEq, cond.Op)
	})

	t.Run("range", func(t *testing.T) {
		cond, err := ParseConditionMap(map[string]any{"range": []any{18, 30}})
		require.NoError(t, err)
		assert.Equal(t, OpRange, cond.Op)
	})

	t.Run("in", func(t *testing.T) {
		cond, err := ParseConditionMap(map[string]any{"in": []any{"a", "b"}})
		require.NoError(t, err)
		assert.Equal(t, OpIn, cond.Op)
		assert.Len(t, cond.Values, 2)
	})

	t.Run("ambiguous forms rejected", func(t *testing.T) {
		_, err := ParseConditionMap(map[string]any{
			"range": []any{1, 2},
			"not":   5,
		})
		assert.ErrorIs(t, err, ErrAmbiguousCondition)
	})

	t.Run("unknown form rejected", func(t *testing.T) {
		_, err := ParseConditionMap(map[string]any{"between": []any{1, 2}})
		assert.ErrorIs(t, err, ErrUnknownCondition)
	})

	t.Run("malformed range rejected", func(t *testing.T) {
		_, err := ParseConditionMap(map[string]any{"range": []any{1}})
		assert.Error(t, err)
	})
}
