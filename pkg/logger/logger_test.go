package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	New(Config{Level: "verbose"})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestNew_ParsesLevel(t *testing.T) {
	New(Config{Level: "warn"})
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestNew_StampsServiceField(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Service: "foresight"}).Output(&buf)

	log.Info().Msg("ready")

	assert.Contains(t, buf.String(), `"service":"foresight"`)
}

func TestNew_OmitsServiceFieldWhenUnset(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info"}).Output(&buf)

	log.Info().Msg("ready")

	assert.NotContains(t, buf.String(), `"service"`)
}
