package spreadsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildXLSX(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		expected    Format
		wantErr     bool
	}{
		{name: "xlsx extension", filename: "grades.xlsx", expected: FormatXLSX},
		{name: "csv extension upper case", filename: "GRADES.CSV", expected: FormatCSV},
		{name: "content type fallback csv", filename: "grades", contentType: "text/csv; charset=utf-8", expected: FormatCSV},
		{
			name:        "content type fallback xlsx",
			filename:    "upload",
			contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			expected:    FormatXLSX,
		},
		{name: "extension wins over content type", filename: "grades.csv", contentType: "application/octet-stream", expected: FormatCSV},
		{name: "legacy xls rejected", filename: "grades.xls", contentType: "application/vnd.ms-excel", wantErr: true},
		{name: "pdf rejected", filename: "grades.pdf", contentType: "application/pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := DetectFormat(tt.filename, tt.contentType)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestDecodeCSV(t *testing.T) {
	data := []byte("\xef\xbb\xbfStudent_ID, Student_Name ,Total_Marks,Marks_Obtained\n" +
		"S501,Quinn Flores,100,100\n" +
		",,,\n" +
		"S502,  Morgan Nguyen ,100,52\n")

	rows, err := Decode(FormatCSV, data)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, Row{
		"Student_ID":     "S501",
		"Student_Name":   "Quinn Flores",
		"Total_Marks":    "100",
		"Marks_Obtained": "100",
	}, rows[0])
	assert.Equal(t, "Morgan Nguyen", rows[1]["Student_Name"])
}

func TestDecodeCSV_EmptyCellsOmitted(t *testing.T) {
	data := []byte("ID,Name,MaxMarks,ObtainedMarks,Notes\nS1,Ada,50,,\n")

	rows, err := Decode(FormatCSV, data)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, present := rows[0]["ObtainedMarks"]
	assert.False(t, present)
	_, present = rows[0]["Notes"]
	assert.False(t, present)
}

func TestDecodeCSV_DuplicateHeaderFirstWins(t *testing.T) {
	data := []byte("ID,ID,Name\nfirst,second,Ada\n")

	rows, err := Decode(FormatCSV, data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "first", rows[0]["ID"])
}

func TestDecodeCSV_HeaderOnly(t *testing.T) {
	rows, err := Decode(FormatCSV, []byte("Student_ID,Student_Name,Total_Marks,Marks_Obtained\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = Decode(FormatCSV, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDecodeCSV_Malformed(t *testing.T) {
	_, err := Decode(FormatCSV, []byte("ID,Name\n\"S1,Ada\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeXLSX(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"StudentID", "StudentName", "TotalMarks", "MarksObtained"},
		{"S501", "Quinn Flores", 100, 100},
		{"S503", "Riley Chen", 80, 62.5},
	})

	rows, err := Decode(FormatXLSX, data)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "S501", rows[0]["StudentID"])
	assert.Equal(t, "100", rows[0]["TotalMarks"])
	assert.Equal(t, "Riley Chen", rows[1]["StudentName"])
	assert.Equal(t, "62.5", rows[1]["MarksObtained"])
}

func TestDecodeXLSX_Corrupt(t *testing.T) {
	_, err := Decode(FormatXLSX, []byte("this is not a zip archive"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecode_UnknownFormat(t *testing.T) {
	_, err := Decode(Format("ods"), []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
