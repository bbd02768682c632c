// Package xlsx reads the minimal subset of the spreadsheet container format
// the question sheet uses: the shared-string part and the single worksheet
// part. Styles, formulas, merged ranges and additional sheets are ignored.
package xlsx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	sharedStringsPart = "xl/sharedStrings.xml"
	worksheetPart     = "xl/worksheets/sheet1.xml"
)

// Row is one worksheet row. Cells maps column letters ("A", "AB") to the raw
// text value; only cells carrying a value are present.
type Row struct {
	Number int
	Cells  map[string]string
}

// Reader is a lazy, single-pass, non-restartable row source over one
// container file.
type Reader struct {
	path     string
	consumed bool
}

func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// ForEach streams rows in file order, including the header row; skipping it
// is the caller's concern. Returning an error from fn stops the scan and the
// error is passed through.
func (r *Reader) ForEach(fn func(Row) error) error {
	if r.consumed {
		return fmt.Errorf("xlsx reader for %s already consumed", r.path)
	}
	r.consumed = true

	archive, err := zip.OpenReader(r.path)
	if err != nil {
		return fmt.Errorf("cannot open container %s: %w", r.path, err)
	}
	defer archive.Close()

	shared, err := loadSharedStrings(&archive.Reader)
	if err != nil {
		return err
	}

	sheet, err := openPart(&archive.Reader, worksheetPart)
	if err != nil {
		return err
	}
	defer sheet.Close()

	return scanWorksheet(sheet, shared, fn)
}

func openPart(archive *zip.Reader, name string) (io.ReadCloser, error) {
	for _, file := range archive.File {
		if file.Name == name {
			rc, err := file.Open()
			if err != nil {
				return nil, fmt.Errorf("cannot read %s: %w", name, err)
			}
			return rc, nil
		}
	}
	return nil, fmt.Errorf("container part %s not found", name)
}

func loadSharedStrings(archive *zip.Reader) ([]string, error) {
	part, err := openPart(archive, sharedStringsPart)
	if err != nil {
		return nil, err
	}
	defer part.Close()

	var table []string
	decoder := xml.NewDecoder(part)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return table, nil
		}
		if err != nil {
			return nil, fmt.Errorf("malformed shared strings part: %w", err)
		}
		if start, ok := token.(xml.StartElement); ok && start.Name.Local == "si" {
			text, err := collectText(decoder, "si")
			if err != nil {
				return nil, err
			}
			table = append(table, text)
		}
	}
}

// collectText concatenates the character data of every <t> element until the
// closing tag named by outer. Rich-text runs split one string over several
// <t> fragments.
func collectText(decoder *xml.Decoder, outer string) (string, error) {
	var builder strings.Builder
	inText := false
	for {
		token, err := decoder.Token()
		if err != nil {
			return "", fmt.Errorf("malformed shared strings part: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
			if t.Name.Local == outer {
				return builder.String(), nil
			}
		case xml.CharData:
			if inText {
				builder.Write(t)
			}
		}
	}
}

func scanWorksheet(part io.Reader, shared []string, fn func(Row) error) error {
	decoder := xml.NewDecoder(part)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("malformed worksheet part: %w", err)
		}
		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "row" {
			continue
		}

		row := Row{Number: rowNumber(start), Cells: map[string]string{}}
		if err := scanRow(decoder, shared, &row); err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

func scanRow(decoder *xml.Decoder, shared []string, row *Row) error {
	for {
		token, err := decoder.Token()
		if err != nil {
			return fmt.Errorf("malformed worksheet part: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "c" {
				if err := scanCell(decoder, t, shared, row); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "row" {
				return nil
			}
		}
	}
}

func scanCell(decoder *xml.Decoder, start xml.StartElement, shared []string, row *Row) error {
	var reference, cellType string
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "r":
			reference = attr.Value
		case "t":
			cellType = attr.Value
		}
	}

	var value, inline string
	hasValue := false
	inValue := false
	inInline := false
	for {
		token, err := decoder.Token()
		if err != nil {
			return fmt.Errorf("malformed worksheet part: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "v":
				inValue = true
				hasValue = true
			case "t":
				inInline = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "v":
				inValue = false
			case "t":
				inInline = false
			case "c":
				column := columnOf(reference)
				if column == "" {
					return nil
				}
				switch {
				case cellType == "s" && hasValue:
					if index, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && index >= 0 && index < len(shared) {
						row.Cells[column] = shared[index]
					} else {
						row.Cells[column] = ""
					}
				case cellType == "inlineStr":
					row.Cells[column] = inline
				case hasValue:
					row.Cells[column] = value
				}
				return nil
			}
		case xml.CharData:
			if inValue {
				value += string(t)
			}
			if inInline {
				inline += string(t)
			}
		}
	}
}

func rowNumber(start xml.StartElement) int {
	for _, attr := range start.Attr {
		if attr.Name.Local == "r" {
			if n, err := strconv.Atoi(attr.Value); err == nil {
				return n
			}
		}
	}
	return 0
}

// columnOf extracts the column letters from a cell reference like "AB12".
func columnOf(reference string) string {
	for i, r := range reference {
		if r >= '0' && r <= '9' {
			return reference[:i]
		}
	}
	return reference
}
