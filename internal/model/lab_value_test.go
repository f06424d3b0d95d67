package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLabValue(t *testing.T) {
	t.Run("numeric", func(t *testing.T) {
		v := ParseLabValue("5.7")
		f, ok := v.Float()
		require.True(t, ok)
		assert.Equal(t, 5.7, f)
		assert.Equal(t, "5.7", v.String())
	})

	t.Run("comma decimal separator", func(t *testing.T) {
		v := ParseLabValue("12,3")
		f, ok := v.Float()
		require.True(t, ok)
		assert.Equal(t, 12.3, f)
		assert.Equal(t, "12,3", v.String())
	})

	t.Run("qualified value stays raw", func(t *testing.T) {
		v := ParseLabValue("<5.7")
		_, ok := v.Float()
		assert.False(t, ok)
		assert.Equal(t, "<5.7", v.String())
	})

	t.Run("text value stays raw", func(t *testing.T) {
		v := ParseLabValue("positivo")
		assert.False(t, v.IsNumeric())
		assert.Equal(t, "positivo", v.String())
	})

	t.Run("surrounding whitespace trimmed", func(t *testing.T) {
		v := ParseLabValue("  98  ")
		f, ok := v.Float()
		require.True(t, ok)
		assert.Equal(t, 98.0, f)
	})
}

func TestLabValueJSON(t *testing.T) {
	t.Run("numeric marshals as number", func(t *testing.T) {
		data, err := json.Marshal(ParseLabValue("5.7"))
		require.NoError(t, err)
		assert.Equal(t, "5.7", string(data))
	})

	t.Run("raw marshals as string", func(t *testing.T) {
		data, err := json.Marshal(ParseLabValue("<5.7"))
		require.NoError(t, err)
		assert.Equal(t, `"<5.7"`, string(data))
	})

	t.Run("qualified value round trips", func(t *testing.T) {
		original := ParseLabValue("<5.7")
		data, err := json.Marshal(original)
		require.NoError(t, err)

		var decoded LabValue
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "<5.7", decoded.String())
		assert.False(t, decoded.IsNumeric())
	})

	t.Run("number round trips", func(t *testing.T) {
		var decoded LabValue
		require.NoError(t, json.Unmarshal([]byte("98.2"), &decoded))
		f, ok := decoded.Float()
		require.True(t, ok)
		assert.Equal(t, 98.2, f)
	})

	t.Run("rejects other types", func(t *testing.T) {
		var decoded LabValue
		assert.Error(t, json.Unmarshal([]byte(`{"v":1}`), &decoded))
	})
}

func TestLabValueSQL(t *testing.T) {
	t.Run("stores raw text", func(t *testing.T) {
		v, err := ParseLabValue("<5.7").Value()
		require.NoError(t, err)
		assert.Equal(t, "<5.7", v)
	})

	t.Run("scan reclassifies", func(t *testing.T) {
		var v LabValue
		require.NoError(t, v.Scan("12,3"))
		f, ok := v.Float()
		require.True(t, ok)
		assert.Equal(t, 12.3, f)

		require.NoError(t, v.Scan([]byte("<5.7")))
		assert.False(t, v.IsNumeric())
		assert.Equal(t, "<5.7", v.String())
	})

	t.Run("scan rejects unsupported types", func(t *testing.T) {
		var v LabValue
		assert.Error(t, v.Scan(42))
	})
}
