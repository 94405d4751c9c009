package codable_test

import (
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"codec-generator/codable"
	"codec-generator/internal/plan"
)

type Qux string

const (
	QuxOne Qux = "one"
	QuxTwo Qux = "two"
)

func (q *Qux) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch v := Qux(s); v {
	case QuxOne, QuxTwo:
		*q = v
		return nil
	default:
		return errors.Newf("invalid qux %q", s)
	}
}

type Foo struct {
	Bar           string
	Fus           string
	Dah           string
	Baz           *int
	Qux           []Qux
	Array         []string
	OptionalArray *[]int
	Dict          map[string]int
	Tags          map[string]struct{}
	NeverMindMe   string
	Immutable     int
}

var fooFields = []codable.Field{
	{Name: "Bar", Key: "beer.doo"},
	{Name: "Fus", Key: "beer.fus"},
	{Name: "Dah", Key: "ro.duh.dah"},
	{Name: "Baz", Key: "booz"},
	{Name: "Qux", Key: "qox", Default: `["one"]`},
	{Name: "Array", Key: "array", Default: `[]`},
	{Name: "OptionalArray", Key: "optionalArray"},
	{Name: "Dict", Key: "dict"},
	{Name: "Tags", Key: "meta.tags"},
	{Name: "NeverMindMe", Ignore: true, Default: `"some value"`},
	{Name: "Immutable", Immutable: true, Default: `7`},
}

func fooCodec(t *testing.T) *codable.Codec[Foo] {
	t.Helper()

	c, err := codable.Compile[Foo](fooFields, codable.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	return c
}

func intPtr(v int) *int { return &v }

type Small struct {
	Bar string
	Fus string
	Baz *int
}

func TestDecode_NestedWithAbsentOptional(t *testing.T) {
	c, err := codable.Compile[Small]([]codable.Field{
		{Name: "Bar", Key: "beer.doo"},
		{Name: "Fus", Key: "beer.fus"},
		{Name: "Baz", Key: "booz"},
	})
	require.NoError(t, err)

	root := c.Plan().Trie
	require.NotNil(t, root.Child("beer"))
	assert.Equal(t, "booz", root.Terminals[0].Key)

	got, err := c.Decode([]byte(`{"beer":{"doo":"x","fus":"y"}}`))
	require.NoError(t, err)
	assert.Equal(t, Small{Bar: "x", Fus: "y", Baz: nil}, got)
}

type Quxes struct {
	Qux []Qux
}

func TestDecode_BadElementDroppedWithoutDefault(t *testing.T) {
	c, err := codable.Compile[Quxes]([]codable.Field{{Name: "Qux", Key: "qox", Default: `["one"]`}})
	require.NoError(t, err)

	got, err := c.Decode([]byte(`{"qox":["1","two"]}`))
	require.NoError(t, err)
	assert.Equal(t, []Qux{QuxTwo}, got.Qux)

	got, err = c.Decode([]byte(`{"qox":"not an array"}`))
	require.NoError(t, err)
	assert.Equal(t, []Qux{QuxOne}, got.Qux)
}

type Ints struct {
	Nums []int
	Set  map[int]struct{}
	Dict map[string]int
}

func TestDecode_CodecAndSlotDropTheSameElements(t *testing.T) {
	c, err := codable.Compile[Ints]([]codable.Field{
		{Name: "Nums", Key: "nums"},
		{Name: "Set", Key: "set"},
		{Name: "Dict", Key: "dict"},
	})
	require.NoError(t, err)

	data := []byte(`{
		"nums": [1, "x", null, 2],
		"set": [1, null, "y", 1],
		"dict": {"a": 1, "b": null, "c": "z"}
	}`)

	got, err := c.Decode(data)
	require.NoError(t, err)

	root, err := codable.NewScope(data)
	require.NoError(t, err)

	nums, err := codable.DecodeSequence[int](root, "nums")
	require.NoError(t, err)
	set, err := codable.DecodeSet[int](root, "set")
	require.NoError(t, err)
	dict, err := codable.DecodeMapping[string, int](root, "dict")
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, got.Nums)
	assert.Equal(t, nums, got.Nums)
	assert.Equal(t, set, got.Set)
	assert.Equal(t, map[string]int{"a": 1}, got.Dict)
	assert.Equal(t, dict, got.Dict)
}

type Collide struct {
	Bar int
	Baz int
}

func TestTerminalAndNamespaceShareKey(t *testing.T) {
	c, err := codable.Compile[Collide]([]codable.Field{
		{Name: "Bar", Key: "bar"},
		{Name: "Baz", Key: "bar.baz"},
	})
	require.NoError(t, err)

	root := c.Plan().Trie
	_, ok := root.Terminal("bar")
	assert.True(t, ok)
	assert.NotNil(t, root.Child("bar"))

	_, err = c.Encode(Collide{Bar: 1, Baz: 2})
	require.ErrorIs(t, err, codable.ErrKeyConflict)

	_, err = c.Decode([]byte(`{"bar":1}`))
	require.ErrorIs(t, err, codable.ErrStructural)
}

func TestDecode_ElementIsolation(t *testing.T) {
	c := fooCodec(t)

	data := []byte(`{
		"beer": {"doo": "a", "fus": "b"},
		"ro": {"duh": {"dah": "c"}},
		"qox": ["one", 3, "bogus", null, "two"],
		"array": ["x", 1, "y"],
		"optionalArray": [1, "2", 3, {}],
		"dict": {"a": 1, "b": "two", "c": 3},
		"meta": {"tags": ["t1", 2, "t1", "t2"]}
	}`)

	got, err := c.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, []Qux{QuxOne, QuxTwo}, got.Qux)
	assert.Equal(t, []string{"x", "y"}, got.Array)
	require.NotNil(t, got.OptionalArray)
	assert.Equal(t, []int{1, 3}, *got.OptionalArray)
	assert.Equal(t, map[string]int{"a": 1, "c": 3}, got.Dict)
	assert.Equal(t, map[string]struct{}{"t1": {}, "t2": {}}, got.Tags)
}

func TestDecode_Fallbacks(t *testing.T) {
	c := fooCodec(t)

	got, err := c.Decode([]byte(`{"beer":{"doo":"a","fus":"b"},"ro":{"duh":{"dah":"c"}},"booz":"NaN","Immutable":99}`))
	require.NoError(t, err)

	assert.Nil(t, got.Baz)
	assert.Equal(t, []Qux{QuxOne}, got.Qux)
	assert.Empty(t, got.Array)
	assert.Nil(t, got.OptionalArray)
	assert.NotNil(t, got.Dict)
	assert.Empty(t, got.Dict)
	assert.NotNil(t, got.Tags)
	assert.Equal(t, "some value", got.NeverMindMe)
	assert.Equal(t, 7, got.Immutable)
}

func TestDecode_Propagation(t *testing.T) {
	c := fooCodec(t)

	_, err := c.Decode([]byte(`{"beer":{"doo":"a","fus":"b"}}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, codable.ErrStructural))

	re, ok := codable.AsReadError(err)
	require.True(t, ok)
	assert.Equal(t, "ro", re.Path)
	assert.Equal(t, codable.KindStructural, re.Kind)

	_, err = c.Decode([]byte(`{"beer":{"doo":"a","fus":1},"ro":{"duh":{"dah":"c"}}}`))
	require.ErrorIs(t, err, codable.ErrLeaf)

	re, ok = codable.AsReadError(err)
	require.True(t, ok)
	assert.Equal(t, "beer.fus", re.Path)

	_, err = c.Decode([]byte(`[1,2]`))
	require.ErrorIs(t, err, codable.ErrStructural)
}

type Top struct {
	Name string
}

func TestDecode_TopLevelScalarHasNoRecovery(t *testing.T) {
	c, err := codable.Compile[Top]([]codable.Field{{Name: "Name", Key: "name"}})
	require.NoError(t, err)

	assert.Equal(t, plan.FallbackNone, c.Plan().Decode[0].Fallback)

	_, err = c.Decode([]byte(`{}`))
	require.ErrorIs(t, err, codable.ErrLeaf)
	assert.ErrorIs(t, err, codable.ErrKeyNotFound)

	_, err = c.Decode([]byte(`{"name":null}`))
	require.ErrorIs(t, err, codable.ErrNull)
}

func TestRoundTrip(t *testing.T) {
	c := fooCodec(t)

	in := Foo{
		Bar:           "a",
		Fus:           "b",
		Dah:           "c",
		Baz:           intPtr(42),
		Qux:           []Qux{QuxTwo, QuxOne},
		Array:         []string{"x"},
		OptionalArray: &[]int{1, 2},
		Dict:          map[string]int{"k": 1},
		Tags:          map[string]struct{}{"b": {}, "a": {}},
		NeverMindMe:   "some value",
		Immutable:     7,
	}

	data, err := c.Encode(in)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "Immutable")
	assert.NotContains(t, string(data), "NeverMindMe")
	assert.Contains(t, string(data), `"tags":["a","b"]`)

	out, err := c.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	again, err := c.Encode(out)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
	assert.Equal(t, string(data), string(again))
}

func TestEncode_OptionalSkippedAndHoistedScopes(t *testing.T) {
	c := fooCodec(t)

	data, err := c.Encode(Foo{Dah: "c"})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"array": [], "dict": {}, "qox": [],
		"beer": {"doo": "", "fus": ""},
		"meta": {"tags": []},
		"ro": {"duh": {"dah": "c"}}
	}`, string(data))
	assert.NotContains(t, string(data), "booz")
}

type Checked struct {
	Min int
	Max int
}

func (c Checked) IsValid() bool { return c.Min <= c.Max }

func TestValidation(t *testing.T) {
	c, err := codable.Compile[Checked]([]codable.Field{
		{Name: "Min", Key: "range.min"},
		{Name: "Max", Key: "range.max"},
	}, codable.WithValidation())
	require.NoError(t, err)
	assert.True(t, c.Plan().Validate)

	_, err = c.Decode([]byte(`{"range":{"min":1,"max":2}}`))
	require.NoError(t, err)

	_, err = c.Decode([]byte(`{"range":{"min":3,"max":2}}`))
	require.ErrorIs(t, err, codable.ErrValidation)
	assert.False(t, errors.Is(err, codable.ErrLeaf))

	_, err = codable.Compile[Small]([]codable.Field{{Name: "Bar"}}, codable.WithValidation())
	require.ErrorIs(t, err, codable.ErrNoValidator)
}

type Custom struct {
	Total int
	Label string
}

func TestCustomRead(t *testing.T) {
	c, err := codable.Compile[Custom]([]codable.Field{
		{Name: "Total", Read: func(root *codable.Scope) (any, error) {
			parts, err := codable.DecodeSequence[int](root, "parts")
			if err != nil {
				return nil, err
			}

			sum := 0
			for _, p := range parts {
				sum += p
			}

			return sum, nil
		}},
		{Name: "Label", Key: "label"},
	})
	require.NoError(t, err)

	got, err := c.Decode([]byte(`{"parts":[1,2,"x",4],"label":"l"}`))
	require.NoError(t, err)
	assert.Equal(t, Custom{Total: 7, Label: "l"}, got)

	_, err = c.Decode([]byte(`{"label":"l"}`))
	require.ErrorIs(t, err, codable.ErrLeaf)

	bad, err := codable.Compile[Custom]([]codable.Field{
		{Name: "Total", Read: func(*codable.Scope) (any, error) { return "nope", nil }},
	})
	require.NoError(t, err)

	_, err = bad.Decode([]byte(`{}`))
	require.ErrorIs(t, err, codable.ErrLeaf)
}

func TestConstruct(t *testing.T) {
	c := fooCodec(t)

	got, err := c.Construct(map[string]any{
		"Bar":  "a",
		"Fus":  "b",
		"Dah":  "c",
		"Dict": map[string]int{},
		"Tags": map[string]struct{}{},
	})
	require.NoError(t, err)

	assert.Equal(t, []Qux{QuxOne}, got.Qux)
	assert.Empty(t, got.Array)
	assert.Nil(t, got.Baz)
	assert.Equal(t, "some value", got.NeverMindMe)
	assert.Equal(t, 7, got.Immutable)

	_, err = c.Construct(map[string]any{"Bar": "a"})
	require.ErrorIs(t, err, codable.ErrMissingArgument)

	_, err = c.Construct(map[string]any{"Immutable": 1})
	require.ErrorIs(t, err, codable.ErrUnknownArgument)

	_, err = c.Construct(map[string]any{
		"Bar": 1, "Fus": "b", "Dah": "c", "Dict": map[string]int{}, "Tags": map[string]struct{}{},
	})
	require.ErrorIs(t, err, codable.ErrArgumentType)
}

type unexported struct {
	hidden int
}

func TestCompile_Errors(t *testing.T) {
	_, err := codable.Compile[int](nil)
	require.ErrorIs(t, err, codable.ErrNotStruct)

	_, err = codable.Compile[Small]([]codable.Field{{Name: "Nope"}})
	require.ErrorIs(t, err, codable.ErrUnknownField)

	_, err = codable.Compile[unexported]([]codable.Field{{Name: "hidden"}})
	require.ErrorIs(t, err, codable.ErrUnexported)

	_, err = codable.Compile[Small]([]codable.Field{{Name: "Bar", Default: "{"}})
	require.ErrorIs(t, err, codable.ErrInvalidDefault)

	_, err = codable.Compile[Small]([]codable.Field{
		{Name: "Bar", Ignore: true, Read: func(*codable.Scope) (any, error) { return "", nil }},
	})
	require.Error(t, err)
}

type Registered struct {
	ID   int
	Name string
}

func TestRegistry(t *testing.T) {
	require.NoError(t, codable.Register[Registered]([]codable.Field{
		{Name: "ID", Key: "id"},
		{Name: "Name", Key: "meta.name"},
	}))

	err := codable.Register[Registered](nil)
	require.ErrorIs(t, err, codable.ErrAlreadyRegistered)

	var (
		wg     sync.WaitGroup
		codecs = make([]*codable.Codec[Registered], 16)
	)

	for i := range codecs {
		wg.Add(1)

		go func() {
			defer wg.Done()

			c, err := codable.For[Registered]()
			assert.NoError(t, err)

			codecs[i] = c
		}()
	}

	wg.Wait()

	for _, c := range codecs {
		assert.Same(t, codecs[0], c)
	}

	data, err := codable.Marshal(Registered{ID: 1, Name: "n"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"meta":{"name":"n"}}`, string(data))

	back, err := codable.Unmarshal[Registered](data)
	require.NoError(t, err)
	assert.Equal(t, Registered{ID: 1, Name: "n"}, back)

	_, err = codable.For[Checked]()
	require.ErrorIs(t, err, codable.ErrNotRegistered)
}

type Broken struct {
	A int
}

func TestRegistry_CompileErrorIsFinal(t *testing.T) {
	require.NoError(t, codable.Register[Broken]([]codable.Field{{Name: "Missing"}}))

	_, err := codable.For[Broken]()
	require.ErrorIs(t, err, codable.ErrUnknownField)

	_, err = codable.For[Broken]()
	require.ErrorIs(t, err, codable.ErrUnknownField)
}
