package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/DjordjeVuckovic/pipeline-sweep/internal/apperr"
)

// Writer appends measurements to a CSV result file. Each Append is flushed
// to the OS so rows written before an abort stay on disk.
type Writer struct {
	f *os.File
	w *csv.Writer
	n int
}

// Create truncates path and writes the header row.
func Create(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create results dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create results file: %w", err)
	}
	w := &Writer{f: f, w: csv.NewWriter(f)}
	if err := w.write(Header); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

func (w *Writer) Append(m Measurement) error {
	if err := w.write(encode(m)); err != nil {
		return err
	}
	w.n++
	return nil
}

// Count is the number of measurements appended so far.
func (w *Writer) Count() int { return w.n }

func (w *Writer) Flush() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return fmt.Errorf("flush results: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	flushErr := w.Flush()
	closeErr := w.f.Close()
	return errors.Join(flushErr, closeErr)
}

func (w *Writer) write(record []string) error {
	if err := w.w.Write(record); err != nil {
		return fmt.Errorf("write results row: %w", err)
	}
	return w.Flush()
}

func encode(m Measurement) []string {
	row := []string{m.Framework, strconv.Itoa(m.Iteration), "", "", strconv.FormatFloat(m.TotalTimeUS, 'f', -1, 64)}
	if m.NumThreads != nil {
		row[2] = strconv.Itoa(*m.NumThreads)
	}
	if m.StageTimeUS != nil {
		row[3] = strconv.FormatInt(*m.StageTimeUS, 10)
	}
	return row
}

func ReadAll(path string) ([]Measurement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a result file. The header must match Header exactly.
func Read(r io.Reader) ([]Measurement, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &apperr.SchemaError{Message: "missing header"}
	}
	if err != nil {
		return nil, &apperr.SchemaError{Message: err.Error(), Line: 1}
	}
	if !slices.Equal(header, Header) {
		return nil, &apperr.SchemaError{Message: fmt.Sprintf("unexpected header %v", header), Line: 1}
	}

	var out []Measurement
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &apperr.SchemaError{Message: pe.Err.Error(), Line: pe.Line}
			}
			return nil, &apperr.SchemaError{Message: err.Error()}
		}
		line, _ := cr.FieldPos(0)
		m, err := decode(row)
		if err != nil {
			return nil, &apperr.SchemaError{Message: err.Error(), Line: line}
		}
		out = append(out, m)
	}
	return out, nil
}

func decode(row []string) (Measurement, error) {
	if len(row) != len(Header) {
		return Measurement{}, fmt.Errorf("expected %d fields, got %d", len(Header), len(row))
	}

	var m Measurement
	switch row[0] {
	case FrameworkPipeline, FrameworkBaseline:
		m.Framework = row[0]
	default:
		return Measurement{}, fmt.Errorf("unknown framework %q", row[0])
	}

	iter, err := strconv.Atoi(row[1])
	if err != nil {
		return Measurement{}, fmt.Errorf("iteration: %w", err)
	}
	m.Iteration = iter

	if row[2] != "" {
		n, err := strconv.Atoi(row[2])
		if err != nil {
			return Measurement{}, fmt.Errorf("num_threads: %w", err)
		}
		m.NumThreads = &n
	}
	if row[3] != "" {
		v, err := strconv.ParseInt(row[3], 10, 64)
		if err != nil {
			return Measurement{}, fmt.Errorf("stage_time_us: %w", err)
		}
		m.StageTimeUS = &v
	}

	total, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return Measurement{}, fmt.Errorf("total_time_us: %w", err)
	}
	m.TotalTimeUS = total
	return m, nil
}
