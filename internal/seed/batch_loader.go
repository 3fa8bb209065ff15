// Package seed loads batch intake files through the ledger.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"medstock/m/domain"
)

// BatchAdder is the ledger operation used for each row.
type BatchAdder interface {
	AddBatch(ctx context.Context, pharmacyID int64, in domain.NewBatch) (int64, error)
}

// Header is the column layout expected on the first line.
var Header = []string{"medication_id", "batch_number", "quantity", "expiration_date"}

// Rejection describes a row that was not imported.
type Rejection struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Result summarises an import.
type Result struct {
	Imported   int         `json:"imported"`
	Rejections []Rejection `json:"rejections"`
}

// ImportBatches adds one batch per CSV row. A bad row is recorded as a
// rejection and the import carries on; only an unreadable header stops it.
func ImportBatches(ctx context.Context, ledger BatchAdder, pharmacyID int64, r io.Reader) (Result, error) {
	result := Result{Rejections: []Rejection{}}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return result, fmt.Errorf("reading batch header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return result, err
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			line := 0
			if errors.As(err, &parseErr) {
				line = parseErr.StartLine
			}
			result.Rejections = append(result.Rejections, Rejection{Line: line, Reason: err.Error()})
			continue
		}
		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}
		in, err := parseRecord(record)
		if err != nil {
			result.Rejections = append(result.Rejections, Rejection{Line: line, Reason: err.Error()})
			continue
		}
		if _, err := ledger.AddBatch(ctx, pharmacyID, in); err != nil {
			result.Rejections = append(result.Rejections, Rejection{Line: line, Reason: err.Error()})
			continue
		}
		result.Imported++
	}
	return result, nil
}

// ImportFile runs ImportBatches on a file and logs the outcome.
func ImportFile(ctx context.Context, ledger BatchAdder, pharmacyID int64, path string, logger *slog.Logger) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening batch file %s: %w", path, err)
	}
	defer file.Close()

	result, err := ImportBatches(ctx, ledger, pharmacyID, file)
	if err != nil {
		return result, err
	}
	for _, rej := range result.Rejections {
		logger.Warn("batch row rejected", "file", path, "line", rej.Line, "reason", rej.Reason)
	}
	logger.Info("seeded batches", "file", path, "pharmacy_id", pharmacyID,
		"imported", result.Imported, "rejected", len(result.Rejections))
	return result, nil
}

func checkHeader(header []string) error {
	if len(header) < len(Header) {
		return fmt.Errorf("batch header must be %s", strings.Join(Header, ","))
	}
	for i, want := range Header {
		got := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
		if got != want {
			return fmt.Errorf("batch header column %d is %q, want %q", i+1, got, want)
		}
	}
	return nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func parseRecord(record []string) (domain.NewBatch, error) {
	if len(record) < len(Header) {
		return domain.NewBatch{}, fmt.Errorf("expected %d columns, got %d", len(Header), len(record))
	}
	medicationID, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
	if err != nil {
		return domain.NewBatch{}, fmt.Errorf("medication_id %q is not a number", record[0])
	}
	quantity, err := strconv.ParseInt(strings.TrimSpace(record[2]), 10, 64)
	if err != nil {
		return domain.NewBatch{}, fmt.Errorf("quantity %q is not a number", record[2])
	}
	expires, err := domain.ParseDate(record[3])
	if err != nil {
		return domain.NewBatch{}, err
	}
	return domain.NewBatch{
		MedicationID:   medicationID,
		BatchNumber:    strings.TrimSpace(record[1]),
		Quantity:       quantity,
		ExpirationDate: expires,
	}, nil
}
