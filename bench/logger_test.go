package bench

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "DEBUG")

	assert.Equal(t, zerolog.DebugLevel, log.GetLevel())
	log.Debug().Msg("connected")
	assert.Contains(t, buf.String(), "connected")
	assert.Contains(t, buf.String(), "run_id=")
}

func TestNewLogger_Fallback(t *testing.T) {
	for _, level := range []string{"loud", ""} {
		var buf bytes.Buffer
		log := NewLogger(&buf, level)

		assert.Equal(t, zerolog.InfoLevel, log.GetLevel(), level)
		assert.Contains(t, buf.String(), "fallback to info", level)
	}
}
