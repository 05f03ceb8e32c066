package jsondoc

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseKeepsKeyOrder(t *testing.T) {
	obj, err := ParseObject([]byte(`{"zeta":1,"alpha":{"b":true,"a":null},"mid":[1,"x"]}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, obj.Keys())

	alpha, ok := obj.Get("alpha")
	require.True(t, ok)
	inner, ok := alpha.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, inner.Keys())

	zeta, _ := obj.Get("zeta")
	assert.Equal(t, json.Number("1"), zeta)
}

func TestParseDuplicateKeyKeepsFirstPosition(t *testing.T) {
	obj, err := ParseObject([]byte(`{"a":1,"b":2,"a":3}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	v, _ := obj.Get("a")
	assert.Equal(t, json.Number("3"), v)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"trailing value", `{} {}`},
		{"trailing garbage", `{"a":1} x`},
		{"truncated", `{"a":`},
		{"empty", ``},
		{"bad key", `{1:2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestParseObjectRejectsNonObject(t *testing.T) {
	_, err := ParseObject([]byte(`[1,2]`))
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestParseTooDeep(t *testing.T) {
	deep := strings.Repeat("[", MaxDepth+1) + strings.Repeat("]", MaxDepth+1)
	_, err := Parse([]byte(deep))
	assert.ErrorIs(t, err, ErrTooDeep)

	ok := strings.Repeat("[", MaxDepth) + strings.Repeat("]", MaxDepth)
	_, err = Parse([]byte(ok))
	assert.NoError(t, err)
}

func TestMarshalFormat(t *testing.T) {
	obj, err := ParseObject([]byte(`{"b":"<a&b>","a":[1,2.50],"c":{}}`))
	require.NoError(t, err)

	out, err := Marshal(obj)
	require.NoError(t, err)

	want := "{\n  \"b\": \"<a&b>\",\n  \"a\": [\n    1,\n    2.50\n  ],\n  \"c\": {}\n}\n"
	assert.Equal(t, want, string(out))
}

func TestObjectSetDelete(t *testing.T) {
	obj := NewObject()
	obj.Set("a", 1)
	obj.Set("b", 2)
	obj.Set("c", 3)
	obj.Set("a", 4)

	assert.Equal(t, []string{"a", "b", "c"}, obj.Keys())
	assert.True(t, obj.Delete("b"))
	assert.False(t, obj.Delete("b"))
	assert.Equal(t, []string{"a", "c"}, obj.Keys())
	assert.Equal(t, 2, obj.Len())

	var nilObj *Object
	assert.Equal(t, 0, nilObj.Len())
	assert.False(t, nilObj.Has("a"))
}

func TestCloneIsDeep(t *testing.T) {
	obj, err := ParseObject([]byte(`{"a":{"b":[1,{"c":2}]}}`))
	require.NoError(t, err)

	clone := obj.Clone()
	a, _ := clone.Get("a")
	a.(*Object).Set("b", "replaced")

	out, err := Compact(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"b":[1,{"c":2}]}}`, string(out))
}

func TestSanitizeFuncReportsPointers(t *testing.T) {
	obj, err := ParseObject([]byte(`{"__proto__":{"x":1},"a":[{"constructor":1}],"b/c":{"prototype":2}}`))
	require.NoError(t, err)

	var dropped []string
	clean := SanitizeFunc(obj, func(p string) { dropped = append(dropped, p) })

	assert.Equal(t, []string{"/__proto__", "/a/0/constructor", "/b~1c/prototype"}, dropped)
	out, err := Compact(clean)
	require.NoError(t, err)
	assert.Equal(t, `{"a":[{}],"b/c":{}}`, string(out))
}

func TestEqual(t *testing.T) {
	a, _ := Parse([]byte(`{"x":[1,"a",true,null],"y":{"k":1.0}}`))
	b, _ := Parse([]byte(`{"y":{"k":1},"x":[1,"a",true,null]}`))
	c, _ := Parse([]byte(`{"y":{"k":2},"x":[1,"a",true,null]}`))

	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
	assert.True(t, Equal(json.Number("3"), 3))
	assert.False(t, Equal("3", json.Number("3")))
	assert.False(t, Equal(nil, false))
}

func TestParseYAML(t *testing.T) {
	v, err := ParseYAML([]byte("z: 1\na:\n  - on\n  - 2.5\n  - ~\n  - text\nb: true\n"))
	require.NoError(t, err)

	out, err := Compact(v)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":["on",2.5,null,"text"],"b":true}`, string(out))
}

func TestParseYAMLRejectsNonFinite(t *testing.T) {
	_, err := ParseYAML([]byte("x: .inf\n"))
	assert.Error(t, err)
}

func TestParseYAMLLimitsAliasExpansion(t *testing.T) {
	doc := `a: &a [x, x, x, x, x, x, x, x, x, x]
b: &b [*a, *a, *a, *a, *a, *a, *a, *a, *a, *a]
c: &c [*b, *b, *b, *b, *b, *b, *b, *b, *b, *b]
d: &d [*c, *c, *c, *c, *c, *c, *c, *c, *c, *c]
e: &e [*d, *d, *d, *d, *d, *d, *d, *d, *d, *d]
f: [*e, *e, *e, *e, *e, *e, *e, *e, *e, *e]
`
	_, err := ParseYAML([]byte(doc))
	assert.ErrorIs(t, err, ErrTooLarge)

	v, err := ParseYAML([]byte("base: &b {x: 1}\nuse: *b\n"))
	require.NoError(t, err)
	out, err := Compact(v)
	require.NoError(t, err)
	assert.Equal(t, `{"base":{"x":1},"use":{"x":1}}`, string(out))
}

func TestToYAMLKeepsOrderAndTypes(t *testing.T) {
	obj, err := ParseObject([]byte(`{"z":"true","a":[1,2.5,null,"42"],"m":{"on":false}}`))
	require.NoError(t, err)

	out, err := yaml.Marshal(ToYAML(obj))
	require.NoError(t, err)

	back, err := ParseYAML(out)
	require.NoError(t, err)
	assert.True(t, Equal(obj, back), "round trip through:\n%s", out)
	assert.Equal(t, []string{"z", "a", "m"}, back.(*Object).Keys())
}
