package processor

import (
	"bytes"
	"encoding/csv"
	"os"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

// TextConverter reads plain text and markdown files as-is.
type TextConverter struct{}

// NewTextConverter creates a new TextConverter.
func NewTextConverter() *TextConverter {
	return &TextConverter{}
}

func (c *TextConverter) AcceptedExtensions() []string {
	return []string{".txt", ".md"}
}

func (c *TextConverter) AcceptedMimeTypes() []string {
	return []string{"text/plain", "text/markdown"}
}

func (c *TextConverter) Load(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(content)), nil
}

// CsvConverter renders CSV files one record per line.
type CsvConverter struct{}

// NewCsvConverter creates a new CsvConverter.
func NewCsvConverter() *CsvConverter {
	return &CsvConverter{}
}

func (c *CsvConverter) AcceptedExtensions() []string {
	return []string{".csv"}
}

func (c *CsvConverter) AcceptedMimeTypes() []string {
	return []string{"text/csv"}
}

func (c *CsvConverter) Load(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, record := range records {
		sb.WriteString(strings.Join(record, ", "))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// PdfConverter extracts the plain text of a PDF.
type PdfConverter struct{}

// NewPdfConverter creates a new PdfConverter.
func NewPdfConverter() *PdfConverter {
	return &PdfConverter{}
}

func (c *PdfConverter) AcceptedExtensions() []string {
	return []string{".pdf"}
}

func (c *PdfConverter) AcceptedMimeTypes() []string {
	return []string{"application/pdf"}
}

func (c *PdfConverter) Load(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	body, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// HTMLConverter converts HTML to markdown so downstream extraction sees
// readable text instead of markup.
type HTMLConverter struct{}

// NewHTMLConverter creates a new HTMLConverter.
func NewHTMLConverter() *HTMLConverter {
	return &HTMLConverter{}
}

func (c *HTMLConverter) AcceptedExtensions() []string {
	return []string{".html", ".htm"}
}

func (c *HTMLConverter) AcceptedMimeTypes() []string {
	return []string{"text/html"}
}

func (c *HTMLConverter) Load(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return htmltomarkdown.ConvertString(string(content))
}

// XlsxConverter renders each sheet of an .xlsx workbook as a markdown table.
type XlsxConverter struct{}

// NewXlsxConverter creates a new XlsxConverter.
func NewXlsxConverter() *XlsxConverter {
	return &XlsxConverter{}
}

func (c *XlsxConverter) AcceptedExtensions() []string {
	return []string{".xlsx"}
}

func (c *XlsxConverter) AcceptedMimeTypes() []string {
	return []string{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"}
}

func (c *XlsxConverter) Load(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil || len(rows) == 0 {
			continue
		}

		sb.WriteString("## " + sheetName + "\n\n")
		sb.WriteString("| " + strings.Join(rows[0], " | ") + " |\n")
		sb.WriteString("|" + strings.Repeat("---|", len(rows[0])) + "\n")
		for _, row := range rows[1:] {
			sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
