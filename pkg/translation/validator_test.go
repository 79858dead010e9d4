package translation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-doc-translator/pkg/document"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    map[string]interface{}
		wantErr bool
	}{
		{
			name: "bare object",
			raw:  `{"a.b": "Bonjour le monde"}`,
			want: map[string]interface{}{"a.b": "Bonjour le monde"},
		},
		{
			name: "fenced json block",
			raw:  "```json\n{\"a.b\": \"Bonjour le monde\"}\n```",
			want: map[string]interface{}{"a.b": "Bonjour le monde"},
		},
		{
			name: "fenced block without language tag",
			raw:  "```\n{\"k\": \"v\"}\n```",
			want: map[string]interface{}{"k": "v"},
		},
		{
			name: "object surrounded by prose",
			raw:  "Here is the translation you asked for:\n{\"k\": \"v\"}\nLet me know if you need more.",
			want: map[string]interface{}{"k": "v"},
		},
		{
			name: "leading json label",
			raw:  "json {\"k\": \"v\"}",
			want: map[string]interface{}{"k": "v"},
		},
		{
			name:    "no json at all",
			raw:     "I cannot translate this.",
			wantErr: true,
		},
		{
			name:    "array payload",
			raw:     `["a", "b"]`,
			wantErr: true,
		},
		{
			name:    "truncated object",
			raw:     `{"k": "v"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSONObjectRepairIdempotent(t *testing.T) {
	// 已经干净的 JSON 再次通过修复路径必须得到相同结果
	clean := `{"greeting": "Xin chào", "farewell": "Tạm biệt"}`
	first, err := ExtractJSONObject(clean)
	require.NoError(t, err)
	second, err := ExtractJSONObject(clean)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestValidateResponse(t *testing.T) {
	batch := document.Batch{
		Entries: map[string]string{
			"a.b": "Hello world",
			"a.c": "Good morning",
		},
	}

	t.Run("complete response", func(t *testing.T) {
		res, err := ValidateResponse(`{"a.b": "Bonjour le monde", "a.c": "Bonjour"}`, batch)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"a.b": "Bonjour le monde",
			"a.c": "Bonjour",
		}, res.Translations)
		assert.Empty(t, res.MissingKeys)
		assert.Empty(t, res.ExtraKeys)
		assert.False(t, res.NoOp)
	})

	t.Run("missing key", func(t *testing.T) {
		res, err := ValidateResponse(`{"a.b": "Bonjour le monde"}`, batch)
		require.ErrorIs(t, err, ErrMissingKeys)
		require.NotNil(t, res)
		assert.Equal(t, []string{"a.c"}, res.MissingKeys)
		assert.Equal(t, "Bonjour le monde", res.Translations["a.b"])
	})

	t.Run("extra keys dropped", func(t *testing.T) {
		res, err := ValidateResponse(
			`{"a.b": "Bonjour le monde", "a.c": "Bonjour", "z.unwanted": "x", "b.extra": "y"}`, batch)
		require.NoError(t, err)
		assert.Equal(t, []string{"b.extra", "z.unwanted"}, res.ExtraKeys)
		assert.Len(t, res.Translations, 2)
		assert.NotContains(t, res.Translations, "z.unwanted")
	})

	t.Run("non string value treated as missing", func(t *testing.T) {
		res, err := ValidateResponse(`{"a.b": "Bonjour le monde", "a.c": 42}`, batch)
		require.ErrorIs(t, err, ErrMissingKeys)
		assert.Equal(t, []string{"a.c"}, res.MissingKeys)
	})

	t.Run("echo detected as noop", func(t *testing.T) {
		res, err := ValidateResponse(`{"a.b": "Hello world", "a.c": "Good morning"}`, batch)
		require.NoError(t, err)
		assert.True(t, res.NoOp)
	})

	t.Run("partial echo is not noop", func(t *testing.T) {
		res, err := ValidateResponse(`{"a.b": "Hello world", "a.c": "Chào buổi sáng"}`, batch)
		require.NoError(t, err)
		assert.False(t, res.NoOp)
	})

	t.Run("malformed passes error through", func(t *testing.T) {
		res, err := ValidateResponse("not json at all", batch)
		require.ErrorIs(t, err, ErrMalformedResponse)
		assert.Nil(t, res)
	})
}
