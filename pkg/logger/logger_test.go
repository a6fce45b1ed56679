package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

func TestNewWithWriter_EmiteJSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "debug").Named("inventory")

	log.Info().Int64("product_id", 7).Msg("stock repuesto")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "inventory", line["component"])
	assert.Equal(t, float64(7), line["product_id"])
	assert.Equal(t, "stock repuesto", line["message"])
	assert.Contains(t, line, "time")
}

func TestNewWithWriter_RespetaNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "warn")

	log.Info().Msg("descartado")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("emitido")
	assert.NotZero(t, buf.Len())
}

func TestNewWithWriter_NivelDesconocidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "verbose")

	log.Debug().Msg("descartado")
	assert.Zero(t, buf.Len())
	log.Info().Msg("emitido")
	assert.NotZero(t, buf.Len())
}
