package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cboldwyn/pick-list/internal/types"
)

func TestWriteCSV(t *testing.T) {
	rows := []types.NormalizedRow{
		{
			Customer:           "Acme",
			OrderNumber:        "SO1",
			Category:           "Flower",
			Product:            "OG",
			BatchNumber:        "B-100-1",
			InputPackageNumber: "PKG-IN-99",
			Quantity:           "10",
			Cases:              2.5,
			HasCases:           true,
		},
		{
			Customer:    "Beta",
			OrderNumber: "SO2",
			Category:    "Vapes",
			Product:     "Cart, 1g \"Indica\"",
			Quantity:    "5",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Header, records[0])
	assert.Equal(t,
		[]string{"Acme", "SO1", "Flower", "OG", "B-100-1", "PKG-IN-99", "10", "2.50"},
		records[1])

	// Blank cases export as empty, never "0"; quoting round-trips cleanly.
	assert.Equal(t, "", records[2][7])
	assert.Equal(t, `Cart, 1g "Indica"`, records[2][3])
}

func TestWriteCSV_EmptyRowSetStillHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	got := strings.TrimRight(buf.String(), "\n")
	assert.Equal(t, strings.Join(Header, ","), got)
}
