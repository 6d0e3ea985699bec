package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("ruido"))
}

func TestNewNop_NoPanica(t *testing.T) {
	l := NewNop().Named("test")
	l.Info().Str("k", "v").Msg("descartado")
	assert.Equal(t, zerolog.Disabled, l.Zerolog().GetLevel())
}
