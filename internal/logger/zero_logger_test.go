package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroLogger(t *testing.T) {
	t.Run("WritesStructuredFields", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewZeroLogger(&buf, LevelInfo, Fields{"service": "settle"})

		l.Info("bet placed", map[string]interface{}{"amount": 100})

		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "bet placed", line["message"])
		assert.Equal(t, "settle", line["service"])
		assert.Equal(t, float64(100), line["amount"])
		assert.Equal(t, "info", line["level"])
	})

	t.Run("RespectsLevel", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewZeroLogger(&buf, LevelError, nil)

		l.Info("hidden", nil)
		l.Debug("hidden", nil)
		assert.Zero(t, buf.Len())

		l.Error(errors.New("visible"), nil)
		assert.Contains(t, buf.String(), "visible")

		buf.Reset()
		l.SetLevel(LevelDebug)
		l.Debug("now visible", nil)
		assert.Contains(t, buf.String(), "now visible")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelOff, ParseLevel("OFF"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
	assert.Equal(t, "ERROR", LevelError.String())
}
