// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grantsdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/adambuttrick/openalex-grants-overlap-analysis/pkg/types"
)

// DatabaseStats summarizes the whole grants table.
type DatabaseStats struct {
	TotalRecords  int `json:"total_records" yaml:"total_records"`
	UniqueDOIs    int `json:"unique_dois" yaml:"unique_dois"`
	UniqueFunders int `json:"unique_funders" yaml:"unique_funders"`
	UniqueAwards  int `json:"unique_awards" yaml:"unique_awards"`
	ParsedRows    int `json:"parsed_rows" yaml:"parsed_rows"`
}

// Format renders the statistics as the human-readable block printed
// after builds and by the info command.
func (st DatabaseStats) Format() string {
	var b strings.Builder
	b.WriteString("\nDatabase Statistics:\n")
	fmt.Fprintf(&b, "  Total records: %d\n", st.TotalRecords)
	fmt.Fprintf(&b, "  Unique DOIs: %d\n", st.UniqueDOIs)
	fmt.Fprintf(&b, "  Unique funders: %d\n", st.UniqueFunders)
	fmt.Fprintf(&b, "  Unique awards: %d\n", st.UniqueAwards)
	fmt.Fprintf(&b, "  Rows with valid funder: %d\n", st.ParsedRows)
	return b.String()
}

// FunderCount is one row of the top-funders ranking.
type FunderCount struct {
	Funder string `json:"funder" yaml:"funder"`
	Count  int    `json:"count" yaml:"count"`
}

// DatabaseStatistics computes whole-table counts.
func (s *Store) DatabaseStatistics(ctx context.Context) (DatabaseStats, error) {
	var st DatabaseStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT doi), COUNT(DISTINCT funder), COUNT(DISTINCT award_id)
		FROM grants`,
	).Scan(&st.TotalRecords, &st.UniqueDOIs, &st.UniqueFunders, &st.UniqueAwards)
	if err != nil {
		return DatabaseStats{}, fmt.Errorf("computing database statistics: %w", err)
	}
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM grants WHERE funder IS NOT NULL`,
	).Scan(&st.ParsedRows)
	if err != nil {
		return DatabaseStats{}, fmt.Errorf("counting parsed rows: %w", err)
	}
	return st, nil
}

// FunderStatistics computes counts for a single funder.
func (s *Store) FunderStatistics(ctx context.Context, funderID string) (types.FunderStats, error) {
	var st types.FunderStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT doi), COUNT(DISTINCT award_id), COUNT(*)
		FROM grants
		WHERE funder = ?`, funderID,
	).Scan(&st.UniqueDOIs, &st.UniqueAwards, &st.TotalRecords)
	if err != nil {
		return types.FunderStats{}, fmt.Errorf("computing funder statistics: %w", err)
	}
	return st, nil
}

// TopFunders returns the funders with the most grant rows, descending.
func (s *Store) TopFunders(ctx context.Context, limit int) ([]FunderCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT funder, COUNT(*) as count
		FROM grants
		WHERE funder IS NOT NULL
		GROUP BY funder
		ORDER BY count DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying top funders: %w", err)
	}
	defer rows.Close()

	var out []FunderCount
	for rows.Next() {
		var fc FunderCount
		if err := rows.Scan(&fc.Funder, &fc.Count); err != nil {
			return nil, fmt.Errorf("scanning funder count: %w", err)
		}
		out = append(out, fc)
	}
	return out, rows.Err()
}

// GrantsForFunder returns every grant row for the funder, in load order.
func (s *Store) GrantsForFunder(ctx context.Context, funderID string) ([]types.GrantRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT work_id, doi, field_name, subfield_path, funder, award_id,
		       source_id, doi_prefix, source_file_path
		FROM grants
		WHERE funder = ?`, funderID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying grants for funder %s: %w", funderID, err)
	}
	defer rows.Close()

	var out []types.GrantRecord
	for rows.Next() {
		var g types.GrantRecord
		var doi sql.NullString
		err := rows.Scan(&g.WorkID, &doi, &g.FieldName, &g.SubfieldPath,
			&g.Funder, &g.AwardID, &g.SourceID, &g.DOIPrefix, &g.SourceFile)
		if err != nil {
			return nil, fmt.Errorf("scanning grant row: %w", err)
		}
		g.DOI = doi.String
		out = append(out, g)
	}
	return out, rows.Err()
}

// WorkIDsForDOIs resolves each DOI to a work id under any funder.
// DOIs with no grant row are absent from the result.
func (s *Store) WorkIDsForDOIs(ctx context.Context, dois []string) (map[string]string, error) {
	stmt, err := s.db.PrepareContext(ctx,
		`SELECT work_id FROM grants WHERE doi = ? LIMIT 1`)
	if err != nil {
		return nil, fmt.Errorf("preparing work id lookup: %w", err)
	}
	defer stmt.Close()

	out := make(map[string]string, len(dois))
	for _, doi := range dois {
		var workID string
		err := stmt.QueryRowContext(ctx, doi).Scan(&workID)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolving work id for %s: %w", doi, err)
		}
		out[doi] = workID
	}
	return out, nil
}
