// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest loads funder-supplied funding CSV files into records
// ready for reconciliation. The award column is renamed to award_id so
// downstream code and output files use one name regardless of what the
// funder called it; all other columns pass through untouched.
package ingest

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/adambuttrick/openalex-grants-overlap-analysis/pkg/types"
)

var (
	// ErrNotFound means the input file does not exist.
	ErrNotFound = errors.New("input file not found")

	// ErrMissingColumn means a required column is absent from the header.
	ErrMissingColumn = errors.New("required column missing")
)

// awardColumn is the canonical award-id column name in loaded inputs
// and output files.
const awardColumn = "award_id"

// Input is a loaded funder CSV: the header (with the award column
// renamed to award_id) and one record per data row.
type Input struct {
	// Columns is the header in file order.
	Columns []string

	Records []types.FunderRecord
}

// LoadFunderCSV reads the funding CSV at path. awardField names the
// column holding award ids; it is required and renamed to award_id.
// A doi column is optional: when present its values are lowercased and
// trimmed, and blank DOIs are treated as absent. Blank award cells are
// treated as absent.
func LoadFunderCSV(path, awardField string) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("opening input file %s: %w", path, err)
	}
	defer f.Close()

	in, err := readFunderCSV(f, awardField)
	if err != nil {
		return nil, fmt.Errorf("reading input file %s: %w", path, err)
	}
	return in, nil
}

func readFunderCSV(r io.Reader, awardField string) (*Input, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s (file is empty)", ErrMissingColumn, awardField)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	awardIdx := -1
	doiIdx := -1
	columns := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == awardField {
			name = awardColumn
			awardIdx = i
		}
		if name == "doi" {
			doiIdx = i
		}
		columns[i] = name
	}
	if awardIdx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, awardField)
	}

	in := &Input{Columns: columns}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(in.Records)+2, err)
		}

		rec := types.FunderRecord{Fields: make(map[string]string, len(columns))}
		for i, name := range columns {
			if i >= len(row) {
				rec.Fields[name] = ""
				continue
			}
			rec.Fields[name] = row[i]
		}

		if doiIdx >= 0 && doiIdx < len(row) {
			rec.DOI = strings.ToLower(strings.TrimSpace(row[doiIdx]))
			rec.Fields["doi"] = rec.DOI
		}
		if awardIdx < len(row) && row[awardIdx] != "" {
			rec.AwardID = sql.NullString{String: row[awardIdx], Valid: true}
		}

		in.Records = append(in.Records, rec)
	}

	return in, nil
}
