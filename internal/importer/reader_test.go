package importer

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
)

func texts(row []Cell) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = c.Text
	}
	return out
}

func TestCSVReader_Fixture(t *testing.T) {
	f, err := os.Open("../../testdata/kb_statement.csv")
	require.NoError(t, err)
	defer f.Close()

	rows, err := (&CSVReader{Name: "csv"}).Read(f)
	require.NoError(t, err)
	require.Len(t, rows, 11)
	assert.Equal(t, []string{"KB국민은행 거래내역조회"}, texts(rows[0]))
	assert.Equal(t, "거래일시", rows[2][0].Text)
	assert.Equal(t, "150,000", rows[3][3].Text)
}

func TestCSVReader_StripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("일자,내용,입금\n2024-01-02,후원,1000\n")...)
	rows, err := (&CSVReader{Name: "csv"}).Read(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "일자", rows[0][0].Text)
}

func TestCSVReader_DecodesCP949(t *testing.T) {
	encoded, err := korean.EUCKR.NewEncoder().String("거래일자,내용,맡기신금액,찾으신금액\n2024-01-02,후원금,\"10,000\",0\n")
	require.NoError(t, err)

	rows, err := (&CSVReader{Name: "csv"}).Read(strings.NewReader(encoded))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"거래일자", "내용", "맡기신금액", "찾으신금액"}, texts(rows[0]))
	assert.Equal(t, "후원금", rows[1][1].Text)
}

func TestCSVReader_SniffsTabs(t *testing.T) {
	rows, err := (&CSVReader{Name: "txt"}).Read(strings.NewReader("일자\t내용\t입금\n2024-01-02\t이자, 결산\t15\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-02", "이자, 결산", "15"}, texts(rows[1]))
}

func TestCSVReader_RaggedRows(t *testing.T) {
	rows, err := (&CSVReader{Name: "csv"}).Read(strings.NewReader("title\na,b,c,d\n1,2\n"))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Len(t, rows[2], 2)
}

func TestXLSXReader_NativeDates(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"거래일시", "적요", "출금액", "입금액", "잔액"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{time.Date(2024, 3, 5, 9, 12, 0, 0, time.UTC), "국민연금 납부", 150000, 0, 2350000}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"2024.03.06", "후원", 0, 50000, 2400000}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := (&XLSXReader{}).Read(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.True(t, rows[1][0].IsDate())
	assert.Equal(t, "2024-03-05", rows[1][0].Text)
	assert.Equal(t, "150000", rows[1][2].Text)
	assert.False(t, rows[1][2].IsDate(), "plain numbers are not dates")

	assert.False(t, rows[2][0].IsDate())
	assert.Equal(t, "2024.03.06", rows[2][0].Text)
}

func TestXLSXReader_NotAWorkbook(t *testing.T) {
	_, err := (&XLSXReader{}).Read(strings.NewReader("plain text"))
	assert.ErrorContains(t, err, "opening workbook")
}

func TestIsCustomDateFormat(t *testing.T) {
	assert.True(t, isCustomDateFormat("yyyy-mm-dd"))
	assert.True(t, isCustomDateFormat(`yyyy"년" m"월" d"일"`))
	assert.False(t, isCustomDateFormat("#,##0"))
	assert.False(t, isCustomDateFormat(`#,##0"day"`))
	assert.False(t, isCustomDateFormat("[Red]#,##0"))
}
