// Package export writes task and person lists as JSON, CSV or PDF.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/idilsaglam/taskhub/internal/model"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

var Formats = []string{FormatJSON, FormatCSV, FormatPDF}

// table is the common shape of everything we export.
type table struct {
	title  string
	header []string
	rows   [][]string
	v      any // JSON payload
}

func taskTable(tasks []model.Task) table {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{strconv.FormatInt(t.ID, 10), t.Title, strconv.FormatBool(t.Done)})
	}
	return table{
		title:  fmt.Sprintf("Tasks (%d open of %d)", model.OpenCount(tasks), len(tasks)),
		header: []string{"id", "title", "done"},
		rows:   rows,
		v:      model.CloneTasks(tasks),
	}
}

func personTable(persons []model.Person) table {
	rows := make([][]string, 0, len(persons))
	for _, p := range persons {
		rows = append(rows, []string{p.ID.String(), p.Vorname, p.Nachname, strconv.FormatBool(p.Aktiv)})
	}
	return table{
		title:  fmt.Sprintf("Personen (%d)", len(persons)),
		header: []string{"id", "vorname", "nachname", "aktiv"},
		rows:   rows,
		v:      model.ClonePersons(persons),
	}
}

func Tasks(w io.Writer, format string, tasks []model.Task) error {
	return write(w, format, taskTable(tasks))
}

func Persons(w io.Writer, format string, persons []model.Person) error {
	return write(w, format, personTable(persons))
}

func write(w io.Writer, format string, t table) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t.v)
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(t.header); err != nil {
			return err
		}
		if err := cw.WriteAll(t.rows); err != nil {
			return err
		}
		return cw.Error()
	case FormatPDF:
		return writePDF(w, t)
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

func writePDF(w io.Writer, t table) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, tr(t.title))
	pdf.Ln(12)

	colW := 190.0 / float64(len(t.header))
	pdf.SetFont("Arial", "B", 10)
	for _, h := range t.header {
		pdf.CellFormat(colW, 7, tr(h), "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, row := range t.rows {
		for _, cell := range row {
			pdf.CellFormat(colW, 6, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf.Output(w)
}
