package gateway

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadRows_CSV(t *testing.T) {
	rows, err := ReadRows(strings.NewReader("\ufeffBooking ID,Cancelled?\n12345678,No,extra\n"))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "Booking ID", rows[0][0])
	assert.Len(t, rows[1], 3)
}

func TestReadRows_Empty(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadRows_Workbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Booking ID", "Cancelled?", "Total"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"12345678", "Yes", "$10.00"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ReadRows(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"12345678", "Yes", "$10.00"}, rows[1])

	set, err := ParseBookings(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, set.Records, 1)
	assert.True(t, set.Records[0].IsCancelled)
}

func TestReadRows_CorruptWorkbook(t *testing.T) {
	_, err := ReadRows(strings.NewReader("PK\x03\x04not really a zip"))
	assert.Error(t, err)
}
