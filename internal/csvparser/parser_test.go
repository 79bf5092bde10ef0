package csvparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cboldwyn/pick-list/internal/config"
	"github.com/cboldwyn/pick-list/internal/types"
)

func settings(metadataRows int) config.CSVSettings {
	return config.CSVSettings{Delimiter: ",", MetadataRows: metadataRows}
}

func TestParseBytes_MetadataSkip(t *testing.T) {
	data := []byte("Export generated by InventorySuite\nLicense: 123-456\n\n" +
		"Customer,Quantity\n" +
		"Acme,10\n" +
		"Burl & Co,5\n")

	table, err := ParseBytes(data, settings(3))
	require.NoError(t, err)

	assert.Equal(t, []string{"Customer", "Quantity"}, table.Headers)
	require.Equal(t, 2, table.RowCount)
	assert.Equal(t, "Acme", table.Rows[0]["Customer"])
	assert.Equal(t, "5", table.Rows[1]["Quantity"])
	assert.Equal(t, 2, table.ColumnCount)
}

func TestParseBytes_SkipIsPositionalNotSniffed(t *testing.T) {
	// The first three lines look exactly like data; they go anyway.
	data := []byte("Customer,Quantity\nAcme,1\nAcme,2\nCustomer,Quantity\nZeta,9\n")

	table, err := ParseBytes(data, settings(3))
	require.NoError(t, err)

	assert.Equal(t, []string{"Customer", "Quantity"}, table.Headers)
	require.Equal(t, 1, table.RowCount)
	assert.Equal(t, "Zeta", table.Rows[0]["Customer"])
}

func TestParseBytes_TooShort(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"only metadata", "meta1\nmeta2\nmeta3"},
		{"metadata with trailing newline", "meta1\nmeta2\nmeta3\n"},
		{"two lines", "meta1\nmeta2"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseBytes([]byte(tc.data), settings(3))
			var loadErr *types.LoadError
			require.ErrorAs(t, err, &loadErr)
		})
	}
}

func TestParseBytes_HeaderOnlyYieldsEmptyTable(t *testing.T) {
	// Exactly metadata + header: nothing to pick, but structurally fine.
	table, err := ParseBytes([]byte("m1\nm2\nm3\nCustomer,Quantity\n"), settings(3))
	require.NoError(t, err)
	assert.Equal(t, 0, table.RowCount)
	assert.Equal(t, []string{"Customer", "Quantity"}, table.Headers)
}

func TestParseBytes_InvalidUTF8(t *testing.T) {
	_, err := ParseBytes([]byte{0xff, 0xfe, 'a', '\n'}, settings(0))
	var loadErr *types.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Reason, "UTF-8")
}

func TestParseBytes_ShortRowsPadded(t *testing.T) {
	data := []byte("A,B,C\n1,2\n")

	table, err := ParseBytes(data, settings(0))
	require.NoError(t, err)
	require.Equal(t, 1, table.RowCount)
	assert.Equal(t, "", table.Rows[0]["C"])
}

func TestParseBytes_LongRowsFail(t *testing.T) {
	data := []byte("A,B\n1,2,3\n")

	_, err := ParseBytes(data, settings(0))
	var loadErr *types.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Reason, "header has 2 columns")
}

func TestParseBytes_EmptyRowsDropped(t *testing.T) {
	data := []byte("A,B\n1,2\n,\n\n3,4\n")

	table, err := ParseBytes(data, settings(0))
	require.NoError(t, err)
	assert.Equal(t, 2, table.RowCount)
}

func TestParseBytes_DelimiterVariants(t *testing.T) {
	tests := []struct {
		delimiter string
		data      string
	}{
		{"|", "A|B\n1|2\n"},
		{"pipe", "A|B\n1|2\n"},
		{";", "A;B\n1;2\n"},
		{"tab", "A\tB\n1\t2\n"},
	}

	for _, tc := range tests {
		t.Run(tc.delimiter, func(t *testing.T) {
			table, err := ParseBytes([]byte(tc.data), config.CSVSettings{Delimiter: tc.delimiter})
			require.NoError(t, err)
			assert.Equal(t, []string{"A", "B"}, table.Headers)
			assert.Equal(t, "2", table.Rows[0]["B"])
		})
	}
}

func TestParseBytes_EmptyHeaderNamedByPosition(t *testing.T) {
	table, err := ParseBytes([]byte("A,,C\n1,2,3\n"), settings(0))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "Column_2", "C"}, table.Headers)
	assert.Equal(t, "2", table.Rows[0]["Column_2"])
}

func TestFromRows_NoHeader(t *testing.T) {
	_, err := FromRows(nil)
	var loadErr *types.LoadError
	require.ErrorAs(t, err, &loadErr)
}
