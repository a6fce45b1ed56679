package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<catalogo>
  <categoria nombre="Bebidas" descripcion="Frías y calientes">
    <producto nombre="Café" precio="10.50" costo="8.40" stock="0" estado="active"/>
    <producto nombre="Té O'Brien" precio="4" stock="12"/>
    <producto nombre="Malo" precio="abc" stock="1"/>
  </categoria>
  <categoria nombre="Snacks">
    <producto nombre="Papas" precio="3.00" stock="5" estado="INACTIVE"/>
    <producto nombre="Raro" precio="1" stock="1" estado="ARCHIVED"/>
    <producto nombre="Caro" precio="100000000" stock="1"/>
  </categoria>
  <categoria nombre="Bebidas">
    <producto nombre="Agua" precio="1" stock="2"/>
  </categoria>
</catalogo>`

func TestParseCatalog(t *testing.T) {
	cat, skipped, err := parseCatalog(strings.NewReader(sampleXML))
	require.NoError(t, err)

	require.Len(t, cat.Categories, 2)
	assert.Equal(t, 4, cat.productCount())
	assert.Len(t, skipped, 3)

	drinks := cat.Categories[0]
	assert.Equal(t, "Bebidas", drinks.Name)
	require.Len(t, drinks.Products, 3)
	assert.Equal(t, entity.StateOutOfStock, drinks.Products[0].State, "stock 0 fuerza OUT_OF_STOCK")
	assert.Equal(t, entity.StateActive, drinks.Products[1].State, "sin estado usa el de defecto")
	assert.False(t, drinks.Products[1].PurchaseCost.Valid)
	assert.Equal(t, "Agua", drinks.Products[2].Name)

	assert.Equal(t, entity.StateInactive, cat.Categories[1].Products[0].State)
}

func TestParseCatalog_ISO88591(t *testing.T) {
	raw := `<?xml version="1.0" encoding="ISO-8859-1"?><catalogo><categoria nombre="Lácteos"><producto nombre="Leche" precio="2" stock="1"/></categoria></catalogo>`
	encoded, err := charmap.ISO8859_1.NewEncoder().String(raw)
	require.NoError(t, err)

	cat, _, err := parseCatalog(strings.NewReader(encoded))
	require.NoError(t, err)
	require.Len(t, cat.Categories, 1)
	assert.Equal(t, "Lácteos", cat.Categories[0].Name)
}

func TestWriteSeed(t *testing.T) {
	cat, _, err := parseCatalog(strings.NewReader(sampleXML))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSeed(&buf, cat))
	sql := buf.String()

	assert.Contains(t, sql, "('Bebidas', 'Frías y calientes'),")
	assert.Contains(t, sql, "ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description;")
	assert.Contains(t, sql, "SELECT 'Café', '', 10.50, 8.40, 0, 'OUT_OF_STOCK', c.id FROM categories c")
	assert.Contains(t, sql, "SELECT 'Té O''Brien', '', 4.00, NULL, 12, 'ACTIVE', c.id")
	assert.Equal(t, 4, strings.Count(sql, "NOT EXISTS"))
}
