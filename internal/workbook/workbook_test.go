package workbook

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/invkeeper/internal/common"
	"github.com/dmitrijs2005/invkeeper/internal/testutil"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetection(t *testing.T) {
	wb := testutil.Workbook(t, common.InventorySheet, nil)

	require.True(t, IsZip(wb))
	require.True(t, IsWorkbook(wb))
	require.False(t, IsOLE(wb))

	require.False(t, IsWorkbook([]byte("PK\x03\x04garbage")))
	require.False(t, IsWorkbook([]byte("plain text")))
	require.True(t, IsOLE([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0x00}))
}

func TestOpen_NotAWorkbook(t *testing.T) {
	_, err := Open([]byte("nope"))
	require.ErrorIs(t, err, common.ErrCorrupt)
}

func TestReadRows_MissingSheet(t *testing.T) {
	f, err := Open(testutil.Workbook(t, "Other", nil))
	require.NoError(t, err)
	defer f.Close()

	_, err = ReadRows(f, common.InventorySheet)
	require.ErrorIs(t, err, common.ErrMissingSheet)
}

func TestReadRows_PositionalAndDates(t *testing.T) {
	when := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	row := testutil.InventoryRow("pc-01", "Windows 11", "Latitude")
	row[0] = when

	f, err := Open(testutil.Workbook(t, common.InventorySheet, [][]any{row}))
	require.NoError(t, err)
	defer f.Close()

	rows, err := ReadRows(f, common.InventorySheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Inventario", rows[0][0])
	require.Equal(t, "fecha", rows[1][0])

	data := rows[2]
	require.Equal(t, "2024-03-15 09:30:00", data[0])
	require.Equal(t, "pc-01", data[2])
	require.Equal(t, "Latitude", data[5])
	require.Equal(t, "10.0.0.1", data[13])
}

func TestReadRows_PlainNumbersStayRaw(t *testing.T) {
	row := testutil.InventoryRow("pc-02", "Ubuntu", "ThinkPad")
	row[12] = 3

	f, err := Open(testutil.Workbook(t, common.InventorySheet, [][]any{row}))
	require.NoError(t, err)
	defer f.Close()

	rows, err := ReadRows(f, common.InventorySheet)
	require.NoError(t, err)
	require.Equal(t, "3", rows[2][12])
}

func TestOOXML_RoundTripAndWrongPassword(t *testing.T) {
	wb := testutil.Workbook(t, common.InventorySheet, [][]any{testutil.InventoryRow("pc", "Win", "M")})

	enc, err := EncryptOOXML(wb, "secreto1")
	require.NoError(t, err)
	require.True(t, IsOLE(enc))

	_, err = DecryptOOXML(enc, "wrong")
	require.ErrorIs(t, err, common.ErrWrongPassword)

	plain, err := DecryptOOXML(enc, "secreto1")
	require.NoError(t, err)
	require.True(t, IsWorkbook(plain))

	f, err := Open(plain)
	require.NoError(t, err)
	defer f.Close()
	rows, err := ReadRows(f, common.InventorySheet)
	require.NoError(t, err)
	require.Equal(t, "pc", rows[2][2])
}

func TestEncryptOOXML_Rejects(t *testing.T) {
	_, err := EncryptOOXML([]byte("x"), "")
	require.ErrorIs(t, err, common.ErrEmptyPassword)

	_, err = EncryptOOXML([]byte("not a workbook"), "pw")
	require.ErrorIs(t, err, common.ErrCorrupt)
}

func TestDecryptOOXML_NotOLE(t *testing.T) {
	_, err := DecryptOOXML([]byte("PK\x03\x04"), "pw")
	require.ErrorIs(t, err, common.ErrCorrupt)
}

func TestDateStyleDetection(t *testing.T) {
	tests := []struct {
		name string
		fmt  string
		want bool
	}{
		{"iso", "yyyy-mm-dd hh:mm:ss", true},
		{"time only", "hh:mm", true},
		{"number", "#,##0.00", false},
		{"quoted letters", `0 "days"`, false},
		{"bracket color", "[Red]0.00", false},
		{"general", "General", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, isDateFormatCode(tt.fmt))
		})
	}

	require.True(t, isBuiltInDateFormat(14))
	require.True(t, isBuiltInDateFormat(22))
	require.False(t, isBuiltInDateFormat(0))
	require.False(t, isBuiltInDateFormat(4))

	custom := "dd/mm/yyyy"
	require.True(t, isDateStyle(&excelize.Style{CustomNumFmt: &custom}))
	require.False(t, isDateStyle(nil))
}
