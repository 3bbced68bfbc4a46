package plink

import "testing"

func TestPhenoTable(t *testing.T) {
	// Mixed tabs and spaces; blank and NA cells are missing.
	path := writeFixture(t, "pheno.txt",
		"FID\tIID\tseverity\tage\n"+
			"F1 1 2 40\n"+
			"F2\t1\tNA\t51\n"+
			"F3 1 -9 63\n")

	table, err := PhenoTable(path)
	if err != nil {
		t.Fatal(err)
	}

	if n := table.NRows(); n != 3 {
		t.Fatalf("got %d rows, expected 3", n)
	}
	if !table.HasColumn("severity") || !table.HasColumn("age") {
		t.Fatalf("data columns missing: %v", table.ColumnNames())
	}
	if v := table.Cell("severity", 1); v.Valid {
		t.Errorf("NA cell should be missing, got %+v", v)
	}

	// The loader keeps -9 as a value; sentinel recoding happens at merge.
	if v := table.Cell("severity", 2); !v.Valid || v.Float64 != -9 {
		t.Errorf("-9 cell should load as -9, got %+v", v)
	}
}

func TestPhenoTableErrors(t *testing.T) {
	for _, v := range []struct {
		name     string
		contents string
	}{
		{"empty file", ""},
		{"no data columns", "FID IID\nF1 1\n"},
		{"misnamed leader", "FID SAMPLE severity\nF1 1 2\n"},
		{"ragged row", "FID IID severity\nF1 1\n"},
		{"duplicate sample", "FID IID severity\nF1 1 2\nF1 1 3\n"},
	} {
		path := writeFixture(t, "pheno.txt", v.contents)
		if _, err := PhenoTable(path); err == nil {
			t.Errorf("%s: expected a parse error", v.name)
		}
	}
}
