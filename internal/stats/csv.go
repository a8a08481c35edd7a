package stats

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sync"
)

// CSVSink appends rows to a delimited file, writing Header once when the file is empty.
type CSVSink struct {
	mu   sync.Mutex
	file *os.File
}

func NewCSVSink(path string) (*CSVSink, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("can't open stats file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("can't stat stats file: %w", err)
	}

	if info.Size() == 0 {
		writer := csv.NewWriter(file)
		if err = writer.Write(Header); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("can't write stats header: %w", err)
		}

		writer.Flush()
		if err = writer.Error(); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("can't write stats header: %w", err)
		}
	}

	return &CSVSink{file: file}, nil
}

func (that *CSVSink) Append(_ context.Context, rows []Row) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	writer := csv.NewWriter(that.file)
	for _, row := range rows {
		if err := writer.Write(row.Strings()); err != nil {
			return fmt.Errorf("can't write stats row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("can't flush stats rows: %w", err)
	}

	return nil
}

func (that *CSVSink) Close() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.file.Close(); err != nil {
		return fmt.Errorf("can't close stats file: %w", err)
	}

	return nil
}
