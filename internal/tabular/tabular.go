package tabular

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/greyCat08/LLMAgentsForPM/internal/domain"
)

const DefaultReviewColumn = "review"

// outputFileMode matches what os.Create would give the result file under
// the usual umask; os.CreateTemp alone leaves it owner-only.
const outputFileMode os.FileMode = 0o644

var (
	ErrMissingColumn     = errors.New("required column is missing")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// OutputHeader is the fixed column layout of the result table.
func OutputHeader() []string {
	return []string{"review", "category", "tool_output", "assistant_summary"}
}

func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// ReadReviews loads the review column of a CSV or XLSX file. Rows shorter
// than the header produce empty reviews.
func ReadReviews(path string, column string) ([]domain.Review, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch format {
	case FormatCSV:
		rows, err = readCSV(path)
	case FormatXLSX:
		rows, err = readXLSX(path)
	}
	if err != nil {
		return nil, err
	}

	return reviewsFromRows(rows, column)
}

func reviewsFromRows(rows [][]string, column string) ([]domain.Review, error) {
	column = strings.TrimSpace(column)
	if column == "" {
		column = DefaultReviewColumn
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q (file has no header)", ErrMissingColumn, column)
	}

	index := -1
	for i, h := range rows[0] {
		if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) == column {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, column)
	}

	reviews := make([]domain.Review, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var text string
		if index < len(row) {
			text = row[index]
		}
		reviews = append(reviews, domain.Review{Text: text})
	}

	return reviews, nil
}

func recordsToRows(records []domain.OutputRecord) [][]string {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, OutputHeader())

	for _, r := range records {
		rows = append(rows, []string{
			r.Review,
			string(r.Category),
			r.ToolOutput,
			r.AssistantSummary,
		})
	}

	return rows
}

// WriteRecords writes the whole result table at once. The file only
// appears at path once it has been written completely.
func WriteRecords(path string, records []domain.OutputRecord) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if err = tmp.Chmod(outputFileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}

	rows := recordsToRows(records)

	switch format {
	case FormatCSV:
		err = writeCSV(tmp, rows)
	case FormatXLSX:
		err = writeXLSX(tmp, rows)
	}
	if err != nil {
		_ = tmp.Close()
		return err
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("move output into place: %w", err)
	}

	return nil
}
