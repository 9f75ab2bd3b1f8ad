package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/Aryansemwal011/web-dev-project/internal/repository"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Exporter выгружает список задач владельца в переносимом формате
type Exporter struct {
	repo repository.TaskRepository
}

func NewExporter(repo repository.TaskRepository) *Exporter {
	return &Exporter{repo: repo}
}

// Export возвращает задачи владельца в формате json, csv или pdf
// вместе с content-type ответа
func (e *Exporter) Export(ctx context.Context, ownerID int64, format string) ([]byte, string, error) {
	tasks, err := e.repo.ListTasksByOwner(ctx, ownerID)
	if err != nil {
		return nil, "", err
	}

	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return nil, "", err
		}
		return data, "application/json", nil

	case "csv":
		var b strings.Builder
		w := csv.NewWriter(&b)
		_ = w.Write([]string{"id", "title", "description", "due_date", "due_time", "complete"})
		for _, t := range tasks {
			_ = w.Write([]string{
				strconv.FormatInt(t.ID, 10), t.Title, t.Description,
				t.DueDate, t.DueTime, strconv.FormatBool(t.Complete),
			})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, "", err
		}
		return []byte(b.String()), "text/csv", nil

	case "pdf":
		pdf := gofpdf.New("P", "mm", "A4", "")
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(40, 10, "To-Do List")
		pdf.Ln(12)
		pdf.SetFont("Arial", "", 10)
		for _, t := range tasks {
			mark := "[ ]"
			if t.Complete {
				mark = "[x]"
			}
			line := fmt.Sprintf("%s %s - %s (due %s %s)", mark, t.Title, t.Description, t.DueDate, t.DueTime)
			pdf.MultiCell(0, 6, line, "0", "L", false)
		}
		var buf bytes.Buffer
		if err := pdf.Output(&buf); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "application/pdf", nil

	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}
