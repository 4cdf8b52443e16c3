package optional

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSomeAndNone(t *testing.T) {
	t.Parallel()

	some := Some(42)
	assert.True(t, some.NonEmpty())
	assert.False(t, some.Empty())

	val, ok := some.Get()
	assert.True(t, ok)
	assert.Equal(t, 42, val)

	none := None[int]()
	assert.True(t, none.Empty())

	_, ok = none.Get()
	assert.False(t, ok)
	assert.Equal(t, 7, none.GetOrElse(7))
	assert.Equal(t, 42, some.GetOrElse(7))
}

func TestFromPointer(t *testing.T) {
	t.Parallel()

	name := "alice"

	assert.Equal(t, Some("alice"), FromPointer(&name))
	assert.True(t, FromPointer[string](nil).Empty())
}

func TestString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Some(3)", Some(3).String())
	assert.Equal(t, "None", None[int]().String())
}

func TestMap(t *testing.T) {
	t.Parallel()

	double := func(x int) int { return x * 2 }

	assert.Equal(t, Some(8), Map(Some(4), double))
	assert.True(t, Map(None[int](), double).Empty())
}

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		a, b      Value[int]
		noneFirst bool
		expected  int
	}{
		{"both present less", Some(1), Some(2), false, -1},
		{"both present greater", Some(3), Some(2), true, 1},
		{"both present equal", Some(2), Some(2), false, 0},
		{"both empty", None[int](), None[int](), false, 0},
		{"both empty none first", None[int](), None[int](), true, 0},
		{"empty vs present, none last", None[int](), Some(1), false, 1},
		{"present vs empty, none last", Some(1), None[int](), false, -1},
		{"empty vs present, none first", None[int](), Some(1), true, -1},
		{"present vs empty, none first", Some(1), None[int](), true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, Compare(tt.a, tt.b, cmp.Compare[int], tt.noneFirst))
		})
	}
}
