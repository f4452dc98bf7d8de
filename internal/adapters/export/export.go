package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"github.com/taskmaster/todo/internal/application/services"
	"github.com/taskmaster/todo/internal/domain/entities"
	"github.com/taskmaster/todo/internal/ports"
)

// Supported formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Exporter renders the current board in a portable format
type Exporter struct {
	store     ports.TaskStore
	presenter *services.ListPresenter
	loc       *time.Location
}

func NewExporter(store ports.TaskStore, presenter *services.ListPresenter, loc *time.Location) *Exporter {
	if loc == nil {
		loc = time.Local
	}
	return &Exporter{store: store, presenter: presenter, loc: loc}
}

// Formats lists the accepted format names
func Formats() []string {
	return []string{FormatJSON, FormatYAML, FormatCSV, FormatPDF}
}

func (e *Exporter) Export(format string) ([]byte, error) {
	board := e.presenter.Board(e.store.GetAll())

	switch strings.ToLower(format) {
	case FormatJSON:
		return json.MarshalIndent(board, "", "  ")
	case FormatYAML:
		return yaml.Marshal(board)
	case FormatCSV:
		return e.csv(board)
	case FormatPDF:
		return e.pdf(board)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func (e *Exporter) csv(board services.Board) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "text", "completed", "created_at", "due_date", "due_time", "urgency"})

	rows := make([]services.TaskView, 0, len(board.Pending)+len(board.Completed))
	rows = append(rows, board.Pending...)
	rows = append(rows, board.Completed...)

	for _, v := range rows {
		date, clock := entities.FormatDueDate(v.Task, e.loc)
		urgency := ""
		if v.Urgency != nil {
			urgency = string(v.Urgency.Level)
		}
		_ = w.Write([]string{
			v.ID,
			v.Text,
			strconv.FormatBool(v.Completed),
			v.CreatedTime().In(e.loc).Format(time.RFC3339),
			date,
			clock,
			urgency,
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Exporter) pdf(board services.Board) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task List")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(40, 6, "Generated "+board.GeneratedAt.In(e.loc).Format("2006-01-02 15:04"))
	pdf.Ln(10)

	if board.Empty {
		pdf.SetFont("Arial", "I", 11)
		pdf.MultiCell(0, 6, services.EmptyBoardMessage, "0", "L", false)
	} else {
		e.pdfSection(pdf, "Pending", board.Pending)
		e.pdfSection(pdf, "Completed", board.Completed)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Exporter) pdfSection(pdf *gofpdf.Fpdf, title string, tasks []services.TaskView) {
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 8, fmt.Sprintf("%s (%d)", title, len(tasks)))
	pdf.Ln(9)
	pdf.SetFont("Arial", "", 10)

	for _, v := range tasks {
		mark := "[ ]"
		if v.Completed {
			mark = "[x]"
		}
		line := mark + " " + v.Text
		if v.Urgency != nil {
			line += "  - " + DescribeUrgency(*v.Urgency, e.loc)
		}
		pdf.MultiCell(0, 6, line, "0", "L", false)
	}
	pdf.Ln(4)
}

// DescribeUrgency renders an urgency as a short human label
func DescribeUrgency(u entities.Urgency, loc *time.Location) string {
	switch u.Level {
	case entities.UrgencyOverdue:
		if u.Days == 1 {
			return "overdue by 1 day"
		}
		return fmt.Sprintf("overdue by %d days", u.Days)
	case entities.UrgencyDueToday:
		return "due today"
	case entities.UrgencyDueSoon:
		return fmt.Sprintf("due in %d days", u.Days)
	default:
		return "due " + u.DueAt.In(loc).Format("Jan 2, 2006 15:04")
	}
}
