package shape

import (
	"reflect"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text     string
		expected *Shape
	}{
		{"string", Identifier("string")},
		{"time.Time", Identifier("time.Time")},
		{"*int", Optional(Identifier("int"))},
		{"**int", Optional(Identifier("int"))},
		{"Optional[int]", Optional(Identifier("int"))},
		{"codable.Optional[*int]", Optional(Identifier("int"))},
		{"[]Qux", Sequence(Identifier("Qux"))},
		{"Sequence[Qux]", Sequence(Identifier("Qux"))},
		{"*[]int", Optional(Sequence(Identifier("int")))},
		{"[][]int", Sequence(Sequence(Identifier("int")))},
		{"[]byte", Identifier("[]byte")},
		{"[4]int", Identifier("[4]int")},
		{"map[string]struct{}", Set(Identifier("string"))},
		{"Set[string]", Set(Identifier("string"))},
		{"map[string]int", Mapping(Identifier("string"), Identifier("int"))},
		{"Mapping[string, int]", Mapping(Identifier("string"), Identifier("int"))},
		{"map[string]*int", Mapping(Identifier("string"), Optional(Identifier("int")))},
		{"List[int]", Identifier("List[int]")},
		{"Pair[int, string]", Identifier("Pair[int, string]")},
		{"(int)", Identifier("int")},
		{"interface{}", Identifier("any")},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := Classify(tt.text)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "want %s (%s), got %s (%s)",
				tt.expected, tt.expected.Kind, got, got.Kind)
		})
	}
}

func TestClassify_CanonicalAndSyntaxAgree(t *testing.T) {
	pairs := [][2]string{
		{"[]X", "Sequence[X]"},
		{"*X", "Optional[X]"},
		{"map[X]struct{}", "Set[X]"},
		{"map[K]V", "Mapping[K, V]"},
	}

	for _, p := range pairs {
		a, err := Classify(p[0])
		require.NoError(t, err)

		b, err := Classify(p[1])
		require.NoError(t, err)

		assert.True(t, a.Equal(b), "%s vs %s", p[0], p[1])
	}
}

func TestClassify_Errors(t *testing.T) {
	_, err := Classify("")
	require.ErrorIs(t, err, ErrNoType)
	assert.Equal(t, "field must have an explicit type", err.Error())

	_, err = Classify("   ")
	require.ErrorIs(t, err, ErrNoType)

	for _, text := range []string{"func()", "chan int", "interface{ M() }", "[]int)"} {
		_, err := Classify(text)
		assert.True(t, errors.Is(err, ErrUnsupportedType), text)
	}
}

func TestShape_Queries(t *testing.T) {
	s, err := Classify("*[]int")
	require.NoError(t, err)

	assert.True(t, s.IsOptional())
	assert.True(t, s.IsCollection())
	assert.Equal(t, KindSequence, s.Unwrapped().Kind)
	assert.Equal(t, "*[]int", s.String())

	m := Mapping(Identifier("string"), Set(Identifier("int")))
	assert.Equal(t, "map[string]map[int]struct{}", m.String())
	assert.False(t, Identifier("int").IsCollection())
	assert.Equal(t, "mapping", KindMapping.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

type qux string

func TestFromType(t *testing.T) {
	tests := []struct {
		typ      reflect.Type
		expected *Shape
	}{
		{reflect.TypeFor[string](), Identifier("string")},
		{reflect.TypeFor[*int](), Optional(Identifier("int"))},
		{reflect.TypeFor[[]qux](), Sequence(Identifier("shape.qux"))},
		{reflect.TypeFor[[]byte](), Identifier("[]uint8")},
		{reflect.TypeFor[map[string]struct{}](), Set(Identifier("string"))},
		{reflect.TypeFor[map[string]int](), Mapping(Identifier("string"), Identifier("int"))},
		{reflect.TypeFor[*[]int](), Optional(Sequence(Identifier("int")))},
		{reflect.TypeFor[time.Time](), Identifier("time.Time")},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			got, err := FromType(tt.typ)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "got %s", got)
		})
	}

	_, err := FromType(reflect.TypeFor[chan int]())
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = FromType(nil)
	require.ErrorIs(t, err, ErrNoType)
}
