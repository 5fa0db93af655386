package ir

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type level string

type weekday int

func (d weekday) String() string { return [...]string{"sun", "mon", "tue"}[d] }

func TestFromGo(t *testing.T) {
	id := uuid.MustParse("0191e4a4-7c5e-7d2b-9a1e-3c4f5a6b7c8d")

	tests := []struct {
		name     string
		input    any
		expected IRValue
	}{
		{"string", "Maheshwaran", IRString("Maheshwaran")},
		{"named string", level("warn"), IRString("warn")},
		{"int", 7, IRInt(7)},
		{"int8", int8(-3), IRInt(-3)},
		{"uint32", uint32(9), IRInt(9)},
		{"bool", true, IRBool(true)},
		{"text marshaler", id, IRString("0191e4a4-7c5e-7d2b-9a1e-3c4f5a6b7c8d")},
		{"stringer", weekday(1), IRString("mon")},
		{"ir passthrough", IRInt(5), IRInt(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := FromGo(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestFromGoRejects(t *testing.T) {
	tests := []struct {
		name  string
		input any
		msg   string
	}{
		{"nil", nil, "null is forbidden"},
		{"float", 1.5, "floats are forbidden"},
		{"uint overflow", uint64(math.MaxUint64), "overflows int64"},
		{"slice", []int{1}, "unsupported type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromGo(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestCompareUTF16(t *testing.T) {
	assert.Negative(t, compareUTF16("a", "b"))
	assert.Zero(t, compareUTF16("a", "a"))
	// U+10000 encodes as surrogate 0xD800, before U+E000 in UTF-16.
	assert.Negative(t, compareUTF16("\U00010000", "\uE000"))
}
