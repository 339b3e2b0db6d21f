// Package workbook wraps the excelize codec for the few operations the
// pipeline needs from a spreadsheet: recognising an unencrypted workbook,
// unlocking or producing Excel "agile" encrypted packages, and reading a
// worksheet as positional string cells.
package workbook

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/invkeeper/internal/common"
	"github.com/xuri/excelize/v2"
)

// DateTimeLayout is how date-formatted numeric cells are rendered.
const DateTimeLayout = "2006-01-02 15:04:05"

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// IsZip reports whether raw starts like an OOXML (zip) package.
func IsZip(raw []byte) bool {
	return bytes.HasPrefix(raw, zipMagic)
}

// IsOLE reports whether raw is a compound document, which is how Excel
// stores password protected workbooks.
func IsOLE(raw []byte) bool {
	return bytes.HasPrefix(raw, oleMagic)
}

// IsWorkbook reports whether raw is an unencrypted workbook excelize can open.
func IsWorkbook(raw []byte) bool {
	if !IsZip(raw) {
		return false
	}
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// Open parses an unencrypted workbook. Parse failures wrap common.ErrCorrupt.
func Open(raw []byte) (*excelize.File, error) {
	if !IsZip(raw) {
		return nil, fmt.Errorf("%w: not a workbook package", common.ErrCorrupt)
	}
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCorrupt, err)
	}
	return f, nil
}

// DecryptOOXML unlocks an Excel encrypted package and returns the inner
// workbook bytes. The result is only accepted if it parses as a workbook;
// anything else is reported as a wrong password.
func DecryptOOXML(raw []byte, password string) (out []byte, err error) {
	if !IsOLE(raw) {
		return nil, fmt.Errorf("%w: not an encrypted workbook", common.ErrCorrupt)
	}
	defer func() {
		// excelize panics on some malformed compound documents
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %v", common.ErrCorrupt, r)
		}
	}()

	plain, err := excelize.Decrypt(raw, &excelize.Options{Password: password})
	if err != nil || !IsWorkbook(plain) {
		return nil, common.ErrWrongPassword
	}
	return plain, nil
}

// EncryptOOXML produces an Excel-openable encrypted package from workbook bytes.
func EncryptOOXML(raw []byte, password string) ([]byte, error) {
	if password == "" {
		return nil, common.ErrEmptyPassword
	}
	if !IsWorkbook(raw) {
		return nil, fmt.Errorf("%w: payload is not a workbook", common.ErrCorrupt)
	}
	return excelize.Encrypt(raw, &excelize.Options{Password: password})
}

// ReadRows returns every row of sheet with cells coerced to strings.
// Date formatted numeric cells are rendered with DateTimeLayout; all other
// cells keep their raw value. A missing sheet wraps common.ErrMissingSheet.
func ReadRows(f *excelize.File, sheet string) ([][]string, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", common.ErrMissingSheet, sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read rows: %v", common.ErrCorrupt, err)
	}

	for r, row := range rows {
		for c, v := range row {
			row[c] = coerceCell(f, sheet, c, r, v)
		}
	}
	return rows, nil
}

func coerceCell(f *excelize.File, sheet string, col, row int, raw string) string {
	raw = strings.TrimSpace(raw)
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}

	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return raw
	}
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil || styleID == 0 {
		return raw
	}
	style, err := f.GetStyle(styleID)
	if err != nil || !isDateStyle(style) {
		return raw
	}

	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return raw
	}
	return t.Round(time.Second).Format(DateTimeLayout)
}

func isDateStyle(s *excelize.Style) bool {
	if s == nil {
		return false
	}
	if s.CustomNumFmt != nil {
		return isDateFormatCode(*s.CustomNumFmt)
	}
	return isBuiltInDateFormat(s.NumFmt)
}

// Built-in number formats that render a date or time, per ECMA-376 18.8.30
// plus the locale specific ranges excelize maps.
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

func isDateFormatCode(code string) bool {
	inQuote := false
	inBracket := false
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		case r == 'y' || r == 'd' || r == 'h' || r == 's' || r == 'm':
			return true
		}
	}
	return false
}
