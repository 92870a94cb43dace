package hostenv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colloml/internal/hostenv"
	"colloml/internal/types"
	"colloml/internal/value"
)

func TestParseTypeStringSimpleAndCompound(t *testing.T) {
	cases := []struct {
		in   string
		want *types.Type
	}{
		{"Int", types.Int()},
		{"[Int]", types.ListOf(types.Int())},
		{"(Int, Bool)", types.TupleOf(types.Int(), types.Bool())},
		{"?Int", types.Maybe(types.Int())},
		{"Int | Bool", types.Union(types.Int(), types.Bool())},
		{"Student", types.ObjectOf("Student")},
	}
	for _, c := range cases {
		got, err := hostenv.ParseTypeString(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want.String(), got.String(), c.in)
	}
}

func TestParseTypeStringRejectsTrailingGarbage(t *testing.T) {
	_, err := hostenv.ParseTypeString("Int garbage")
	assert.Error(t, err)
}

func TestLoadConfigBuildsSchema(t *testing.T) {
	src := []byte(`
base_vars:
  assign:
    - Student
    - Int
objects:
  Student:
    id: Int
    name: String
`)
	cfg, err := hostenv.LoadConfig(src)
	require.NoError(t, err)

	schema, err := cfg.Schema()
	require.NoError(t, err)

	bv, ok := schema.LookupBaseVar("assign")
	require.True(t, ok)
	assert.Len(t, bv.Params, 2)

	obj, ok := schema.LookupObject("Student")
	require.True(t, ok)
	assert.True(t, obj.Fields["id"].Equal(types.Int()))
}

func TestStaticEnvFieldAccessReportsMissingField(t *testing.T) {
	env := hostenv.NewStaticEnv()
	_, err := env.FieldAccess(testObj{}, "nope")
	assert.Error(t, err)
}

type testObj struct{}

func (testObj) TypeName() string             { return "Thing" }
func (testObj) Equal(o value.Object) bool    { return true }
func (testObj) Less(o value.Object) bool     { return false }
func (testObj) String() string               { return "thing" }
