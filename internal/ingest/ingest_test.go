package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFunderCSV(t *testing.T) {
	path := writeInput(t, strings.Join([]string{
		"title,doi,grant_number,pi_name",
		"First,10.1234/ABC,NSF-123456,Smith",
		"Second, 10.5678/def ,,Jones",
		"Third,,DFG-431100,Lee",
	}, "\n"))

	in, err := LoadFunderCSV(path, "grant_number")
	if err != nil {
		t.Fatal(err)
	}

	wantCols := []string{"title", "doi", "award_id", "pi_name"}
	if !reflect.DeepEqual(in.Columns, wantCols) {
		t.Errorf("Columns = %v, want %v", in.Columns, wantCols)
	}
	if len(in.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(in.Records))
	}

	r0 := in.Records[0]
	if r0.DOI != "10.1234/abc" {
		t.Errorf("record 0 DOI = %q, want lowercased", r0.DOI)
	}
	if !r0.AwardID.Valid || r0.AwardID.String != "NSF-123456" {
		t.Errorf("record 0 award = %+v", r0.AwardID)
	}
	if r0.Fields["title"] != "First" || r0.Fields["pi_name"] != "Smith" {
		t.Errorf("record 0 fields = %v", r0.Fields)
	}
	if r0.Fields["doi"] != "10.1234/abc" {
		t.Errorf("record 0 doi field = %q, want normalized form", r0.Fields["doi"])
	}

	r1 := in.Records[1]
	if r1.DOI != "10.5678/def" {
		t.Errorf("record 1 DOI = %q, want trimmed and lowercased", r1.DOI)
	}
	if r1.AwardID.Valid {
		t.Errorf("record 1 award = %+v, want absent for blank cell", r1.AwardID)
	}

	r2 := in.Records[2]
	if r2.DOI != "" {
		t.Errorf("record 2 DOI = %q, want empty", r2.DOI)
	}
	if !r2.AwardID.Valid || r2.AwardID.String != "DFG-431100" {
		t.Errorf("record 2 award = %+v", r2.AwardID)
	}
}

func TestLoadFunderCSVDefaultAwardColumn(t *testing.T) {
	path := writeInput(t, "doi,award_id\n10.1/x,A-1\n")
	in, err := LoadFunderCSV(path, "award_id")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in.Columns, []string{"doi", "award_id"}) {
		t.Errorf("Columns = %v", in.Columns)
	}
}

func TestLoadFunderCSVNoDOIColumn(t *testing.T) {
	path := writeInput(t, "award_id,title\nA-1,First\n")
	in, err := LoadFunderCSV(path, "award_id")
	if err != nil {
		t.Fatal(err)
	}
	if in.Records[0].DOI != "" {
		t.Errorf("DOI = %q, want empty when file has no doi column", in.Records[0].DOI)
	}
	if !in.Records[0].AwardID.Valid {
		t.Error("award unexpectedly absent")
	}
}

func TestLoadFunderCSVMissingAwardColumn(t *testing.T) {
	path := writeInput(t, "doi,title\n10.1/x,First\n")
	_, err := LoadFunderCSV(path, "grant_number")
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("err = %v, want ErrMissingColumn", err)
	}
}

func TestLoadFunderCSVMissingFile(t *testing.T) {
	_, err := LoadFunderCSV(filepath.Join(t.TempDir(), "nope.csv"), "award_id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLoadFunderCSVShortRow(t *testing.T) {
	path := writeInput(t, "doi,award_id,title\n10.1/x,A-1\n")
	in, err := LoadFunderCSV(path, "award_id")
	if err != nil {
		t.Fatal(err)
	}
	rec := in.Records[0]
	if rec.Fields["title"] != "" {
		t.Errorf("title = %q, want empty for short row", rec.Fields["title"])
	}
	if !rec.AwardID.Valid || rec.AwardID.String != "A-1" {
		t.Errorf("award = %+v", rec.AwardID)
	}
}
