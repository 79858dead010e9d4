package fileio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-doc-translator/pkg/document"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDetectFormat(t *testing.T) {
	for path, want := range map[string]Format{
		"a.yml":  FormatYAML,
		"a.yaml": FormatYAML,
		"a.YAML": FormatYAML,
		"a.json": FormatJSON,
	} {
		got, err := DetectFormat(path)
		require.NoError(t, err)
		assert.Equal(t, want, got, path)
	}

	_, err := DetectFormat("a.txt")
	assert.Error(t, err)
}

func TestLoadYAMLPreservesKeyOrder(t *testing.T) {
	path := writeTemp(t, "doc.yaml", `zebra: Hello world
alpha: Good morning
nested:
  second: Close the window
  first: Open the door
`)

	doc, format, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, format)

	require.Equal(t, document.KindObject, doc.Kind)
	keys := make([]string, 0, len(doc.Fields))
	for _, f := range doc.Fields {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"zebra", "alpha", "nested"}, keys)

	nested := doc.Fields[2].Value
	assert.Equal(t, "second", nested.Fields[0].Key)
	assert.Equal(t, "first", nested.Fields[1].Key)
}

func TestLoadYAMLScalarTypes(t *testing.T) {
	path := writeTemp(t, "doc.yaml", `text: Hello world
count: 42
ratio: 0.5
enabled: true
missing: null
`)

	doc, _, err := Load(path)
	require.NoError(t, err)

	assert.True(t, doc.Fields[0].Value.IsStr)
	for _, f := range doc.Fields[1:] {
		assert.False(t, f.Value.IsStr, f.Key)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	original := `title: Hello world
version: 1.0.0
count: 42
enabled: true
steps:
  - Open the door
  - Close the window
nested:
  greeting: Good morning
`
	path := writeTemp(t, "doc.yaml", original)

	doc, format, err := Load(path)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Save(out, doc, format))

	reloaded, _, err := Load(out)
	require.NoError(t, err)
	assert.True(t, doc.Equal(reloaded), "round trip changed the document")
}

func TestLoadJSONPreservesKeyOrder(t *testing.T) {
	path := writeTemp(t, "doc.json", `{
    "zebra": "Hello world",
    "alpha": "Good morning",
    "list": ["one", 2, true, null]
}`)

	doc, format, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, format)

	assert.Equal(t, "zebra", doc.Fields[0].Key)
	assert.Equal(t, "alpha", doc.Fields[1].Key)

	list := doc.Fields[2].Value
	require.Equal(t, document.KindSequence, list.Kind)
	require.Len(t, list.Items, 4)
	assert.True(t, list.Items[0].IsStr)
	assert.False(t, list.Items[1].IsStr)
}

func TestJSONRoundTrip(t *testing.T) {
	path := writeTemp(t, "doc.json", `{
    "title": "Hello <b>world</b>",
    "count": 42,
    "ratio": 0.5,
    "big": 9007199254740993,
    "enabled": true,
    "missing": null,
    "steps": ["Open the door", "Close the window"],
    "empty_obj": {},
    "empty_list": []
}`)

	doc, format, err := Load(path)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, Save(out, doc, format))

	reloaded, _, err := Load(out)
	require.NoError(t, err)
	assert.True(t, doc.Equal(reloaded), "round trip changed the document")

	// 大整数与 HTML 字符不得被改写
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "9007199254740993")
	assert.Contains(t, string(data), "<b>world</b>")
}

func TestLoadEmptyDocument(t *testing.T) {
	path := writeTemp(t, "empty.yaml", "")
	_, _, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestLoadMalformedJSON(t *testing.T) {
	path := writeTemp(t, "bad.json", `{"a": `)
	_, _, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
