package address_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetengine/address"
)

func TestColumnLettersRoundTrip(t *testing.T) {
	cases := map[int]string{1: "A", 26: "Z", 27: "AA", 52: "AZ", 53: "BA", 702: "ZZ", 703: "AAA"}
	for col, letters := range cases {
		assert.Equal(t, letters, address.ColumnLetters(col))
		assert.Equal(t, col, address.ColumnIndex(letters))
	}
}

func TestParseSingleCell(t *testing.T) {
	r, err := address.Parse("B7", "Sheet1")
	require.NoError(t, err)
	assert.True(t, r.IsSingleCell())
	assert.Equal(t, address.Address{Sheet: "Sheet1", Col: 2, Row: 7}, r.Start)
}

func TestParseRangeAcrossSheetQualifier(t *testing.T) {
	r, err := address.Parse("'My Sheet'!A1:B2", "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, "My Sheet", r.Start.Sheet)
	assert.Equal(t, 2, r.Rows())
	assert.Equal(t, 2, r.Cols())
}

func TestParseWholeColumnExpandsToMaxRow(t *testing.T) {
	r, err := address.Parse("A:A", "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Start.Row)
	assert.Equal(t, address.MaxRow, r.End.Row)
}

func TestParseWholeRowExpandsToBoundedColumns(t *testing.T) {
	r, err := address.Parse("1:1", "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Start.Col)
	assert.True(t, r.End.Col > 1)
}

func TestCellsEnumeratesRowMajor(t *testing.T) {
	r, err := address.Parse("A1:B2", "Sheet1")
	require.NoError(t, err)
	cells := r.Cells()
	assert.Equal(t, []address.Address{
		{Sheet: "Sheet1", Col: 1, Row: 1},
		{Sheet: "Sheet1", Col: 2, Row: 1},
		{Sheet: "Sheet1", Col: 1, Row: 2},
		{Sheet: "Sheet1", Col: 2, Row: 2},
	}, cells)
}

func TestAddressStringQuotesSheetWhenNeeded(t *testing.T) {
	a := address.New("My Sheet", 1, 1)
	assert.Equal(t, "'My Sheet'!A1", a.String())

	plain := address.New("Sheet1", 1, 1)
	assert.Equal(t, "Sheet1!A1", plain.String())
}
