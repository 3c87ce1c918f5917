package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseInventoryCSV_Latin1(t *testing.T) {
	src := "name,sku,quantity,min_stock_level,unit_price,cost_price\n" +
		"Líquido de frenos,LF-01,12,4,\"18,50\",11\n" +
		"Bujía,BJ-7,0,,6.25,\n"
	encoded, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(src))
	require.NoError(t, err)

	rows, err := parseInventoryCSV(bytes.NewReader(encoded), "latin1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Líquido de frenos", rows[0].Name)
	assert.Equal(t, 12, rows[0].Quantity)
	require.NotNil(t, rows[0].MinStockLevel)
	assert.Equal(t, 4, *rows[0].MinStockLevel)
	assert.Equal(t, "18.5", rows[0].UnitPrice.String())
	require.NotNil(t, rows[0].CostPrice)
	assert.Equal(t, "11", rows[0].CostPrice.String())

	assert.Equal(t, "Bujía", rows[1].Name)
	assert.Nil(t, rows[1].MinStockLevel)
	assert.Nil(t, rows[1].CostPrice)
}

func TestParseInventoryCSV_Errores(t *testing.T) {
	_, err := parseInventoryCSV(strings.NewReader("sku\nX\n"), "utf-8")
	assert.ErrorContains(t, err, "name")

	_, err = parseInventoryCSV(strings.NewReader("name,quantity\nAceite,-3\n"), "utf-8")
	assert.ErrorContains(t, err, "línea 2")

	_, err = parseInventoryCSV(strings.NewReader("name\nAceite\n"), "ebcdic")
	assert.ErrorContains(t, err, "charset")
}

func TestParseInventoryCSV_EncabezadoConBOM(t *testing.T) {
	rows, err := parseInventoryCSV(strings.NewReader("\ufeffName,Quantity\nFiltro,3\n"), "utf8")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Quantity)
}
