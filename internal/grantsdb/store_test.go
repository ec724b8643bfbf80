// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grantsdb

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adambuttrick/openalex-grants-overlap-analysis/pkg/types"
)

const testGrantsCSV = `work_id,doi,field_name,subfield_path,value,source_id,doi_prefix,source_file_path
https://openalex.org/W1,10.1234/ABC,grants,grants[0],"{""funder"": ""https://openalex.org/F1"", ""award_id"": ""NSF-123456""}",S1,10.1234,part_000
https://openalex.org/W2, 10.1234/DEF ,grants,grants[0],"{""funder"": ""https://openalex.org/F1"", ""award_id"": null}",S1,10.1234,part_000
https://openalex.org/W3,10.5678/ghi,grants,grants[1],"{""funder"": ""https://openalex.org/F2"", ""award_id"": ""DFG-431100""}",S2,10.5678,part_001
https://openalex.org/W4,,grants,grants[0],not json at all,S2,10.5678,part_001
https://openalex.org/W5,10.5678/jkl,grants,grants[0],"{""funder"": ""https://openalex.org/F1"", ""award_id"": 987654}",S2,10.5678,part_001
`

func buildTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "grants.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(testGrantsCSV), 0o644))

	store, err := Create(filepath.Join(dir, "grants.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	var buf bytes.Buffer
	cfg := types.BuildConfig{GrantsCSV: csvPath, DBPath: store.Path(), ChunkSize: 2}
	require.NoError(t, store.Build(context.Background(), cfg, &buf), buf.String())
	assert.Contains(t, buf.String(), "Loaded 5 total rows")
	return store
}

func TestBuildAndStatistics(t *testing.T) {
	store := buildTestStore(t)
	ctx := context.Background()

	stats, err := store.DatabaseStatistics(ctx)
	require.NoError(t, err)
	want := DatabaseStats{TotalRecords: 5, UniqueDOIs: 4, UniqueFunders: 2, UniqueAwards: 3, ParsedRows: 4}
	assert.Equal(t, want, stats)

	assert.NoError(t, store.Verify(ctx))

	meta, err := store.Metadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, "5", meta["total_rows"])
	assert.Equal(t, "4", meta["parsed_rows"])
	assert.NotEmpty(t, meta["build_date"])
	assert.NotEmpty(t, meta["source_file"])
}

func TestFunderQueries(t *testing.T) {
	store := buildTestStore(t)
	ctx := context.Background()

	fs, err := store.FunderStatistics(ctx, "https://openalex.org/F1")
	require.NoError(t, err)
	assert.Equal(t, types.FunderStats{UniqueDOIs: 3, UniqueAwards: 2, TotalRecords: 3}, fs)

	grants, err := store.GrantsForFunder(ctx, "https://openalex.org/F1")
	require.NoError(t, err)
	require.Len(t, grants, 3)

	assert.Equal(t, "https://openalex.org/W1", grants[0].WorkID)
	assert.Equal(t, "10.1234/abc", grants[0].DOI, "DOI should be lowercased")
	require.True(t, grants[0].AwardID.Valid)
	assert.Equal(t, "NSF-123456", grants[0].AwardID.String)

	assert.Equal(t, "10.1234/def", grants[1].DOI, "DOI should be trimmed")
	assert.False(t, grants[1].AwardID.Valid, "null award should stay NULL")

	require.True(t, grants[2].AwardID.Valid)
	assert.Equal(t, "987654", grants[2].AwardID.String, "numeric award should load as text")

	top, err := store.TopFunders(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, FunderCount{Funder: "https://openalex.org/F1", Count: 3}, top[0])
}

func TestWorkIDsForDOIs(t *testing.T) {
	store := buildTestStore(t)

	got, err := store.WorkIDsForDOIs(context.Background(),
		[]string{"10.5678/ghi", "10.9999/none"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"10.5678/ghi": "https://openalex.org/W3"}, got)
}

func TestCreateRefusesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grants.db")
	store, err := Create(path, false)
	require.NoError(t, err)
	store.Close()

	_, err = Create(path, false)
	assert.ErrorIs(t, err, ErrExists)

	forced, err := Create(path, true)
	require.NoError(t, err)
	forced.Close()
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.db"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseGrantValue(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		funder     string
		award      string
		wantFunder bool
		wantAward  bool
	}{
		{"both present", `{"funder": "F1", "award_id": "A-1"}`, "F1", "A-1", true, true},
		{"null award", `{"funder": "F1", "award_id": null}`, "F1", "", true, false},
		{"missing keys", `{}`, "", "", false, false},
		{"not json", `oops`, "", "", false, false},
		{"numeric award", `{"funder": "F1", "award_id": 42}`, "F1", "42", true, true},
		{"nested award", `{"funder": "F1", "award_id": {"x": 1}}`, "F1", "", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			funder, award := parseGrantValue(tt.value)
			assert.Equal(t, tt.wantFunder, funder.Valid)
			assert.Equal(t, tt.funder, funder.String)
			assert.Equal(t, tt.wantAward, award.Valid)
			assert.Equal(t, tt.award, award.String)
		})
	}
}
