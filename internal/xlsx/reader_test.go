package xlsx

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func writeWorkbook(t *testing.T, sharedStrings, sheet string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.xlsx")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating workbook: %v", err)
	}
	defer file.Close()

	writer := zip.NewWriter(file)
	parts := map[string]string{}
	if sharedStrings != "" {
		parts[sharedStringsPart] = sharedStrings
	}
	if sheet != "" {
		parts[worksheetPart] = sheet
	}
	for name, content := range parts {
		part, err := writer.Create(name)
		if err != nil {
			t.Fatalf("creating part %s: %v", name, err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("writing part %s: %v", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing workbook: %v", err)
	}
	return path
}

func collectRows(t *testing.T, path string) []Row {
	t.Helper()
	var rows []Row
	if err := NewReader(path).ForEach(func(row Row) error {
		rows = append(rows, row)
		return nil
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	return rows
}

func TestReaderResolvesSharedStrings(t *testing.T) {
	shared := `<?xml version="1.0"?><sst><si><t>Pytanie</t></si><si><t>TAK &amp; NIE</t></si></sst>`
	sheet := `<?xml version="1.0"?><worksheet><sheetData>` +
		`<row r="1"><c r="A1" t="s"><v>0</v></c></row>` +
		`<row r="2"><c r="A2" t="s"><v>1</v></c><c r="B2"><v>12</v></c></row>` +
		`</sheetData></worksheet>`
	path := writeWorkbook(t, shared, sheet)

	rows := collectRows(t, path)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Number != 1 || rows[0].Cells["A"] != "Pytanie" {
		t.Errorf("row 1 = %+v", rows[0])
	}
	if rows[1].Cells["A"] != "TAK & NIE" {
		t.Errorf("shared string entity not unescaped: %q", rows[1].Cells["A"])
	}
	if rows[1].Cells["B"] != "12" {
		t.Errorf("literal value = %q, want 12", rows[1].Cells["B"])
	}
}

func TestReaderJoinsRichTextRuns(t *testing.T) {
	shared := `<sst><si><r><t>Znak </t></r><r><t xml:space="preserve">B-1</t></r></si></sst>`
	sheet := `<worksheet><sheetData><row r="1"><c r="C1" t="s"><v>0</v></c></row></sheetData></worksheet>`
	path := writeWorkbook(t, shared, sheet)

	rows := collectRows(t, path)
	if got := rows[0].Cells["C"]; got != "Znak B-1" {
		t.Errorf("rich text = %q, want %q", got, "Znak B-1")
	}
}

func TestReaderSkipsCellsWithoutValue(t *testing.T) {
	shared := `<sst></sst>`
	sheet := `<worksheet><sheetData>` +
		`<row r="1"><c r="A1"/><c r="B1"><v>x</v></c><c r="AB1"><v>wide</v></c></row>` +
		`</sheetData></worksheet>`
	path := writeWorkbook(t, shared, sheet)

	rows := collectRows(t, path)
	if _, present := rows[0].Cells["A"]; present {
		t.Error("cell without value-tag must be absent")
	}
	if rows[0].Cells["B"] != "x" || rows[0].Cells["AB"] != "wide" {
		t.Errorf("cells = %+v", rows[0].Cells)
	}
}

func TestReaderHandlesInlineStrings(t *testing.T) {
	shared := `<sst></sst>`
	sheet := `<worksheet><sheetData>` +
		`<row r="1"><c r="A1" t="inlineStr"><is><t>inline &lt;text&gt;</t></is></c></row>` +
		`</sheetData></worksheet>`
	path := writeWorkbook(t, shared, sheet)

	rows := collectRows(t, path)
	if got := rows[0].Cells["A"]; got != "inline <text>" {
		t.Errorf("inline string = %q", got)
	}
}

func TestReaderOutOfRangeSharedIndexIsEmpty(t *testing.T) {
	shared := `<sst><si><t>only</t></si></sst>`
	sheet := `<worksheet><sheetData><row r="1"><c r="A1" t="s"><v>7</v></c></row></sheetData></worksheet>`
	path := writeWorkbook(t, shared, sheet)

	rows := collectRows(t, path)
	if got, present := rows[0].Cells["A"]; !present || got != "" {
		t.Errorf("out-of-range shared index: got %q present=%v, want empty string", got, present)
	}
}

func TestReaderErrorsOnMissingParts(t *testing.T) {
	noShared := writeWorkbook(t, "", `<worksheet><sheetData/></worksheet>`)
	if err := NewReader(noShared).ForEach(func(Row) error { return nil }); err == nil {
		t.Error("expected error for missing shared strings part")
	}

	noSheet := writeWorkbook(t, `<sst></sst>`, "")
	if err := NewReader(noSheet).ForEach(func(Row) error { return nil }); err == nil {
		t.Error("expected error for missing worksheet part")
	}

	if err := NewReader(filepath.Join(t.TempDir(), "absent.xlsx")).ForEach(func(Row) error { return nil }); err == nil {
		t.Error("expected error for missing container")
	}
}

func TestReaderIsSinglePass(t *testing.T) {
	path := writeWorkbook(t, `<sst></sst>`, `<worksheet><sheetData/></worksheet>`)
	reader := NewReader(path)
	if err := reader.ForEach(func(Row) error { return nil }); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if err := reader.ForEach(func(Row) error { return nil }); err == nil {
		t.Error("second pass must fail, reader is non-restartable")
	}
}
