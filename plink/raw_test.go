package plink

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, name, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestRawTable(t *testing.T) {
	path := writeFixture(t, "geno.raw",
		"FID IID PAT MAT SEX PHENOTYPE rs1_A rs2_C 9snp_G\n"+
			"F1 1 0 0 1 2 0 1 NA\n"+
			"F2 1 0 0 2 3 2 0 1\n")

	table, snps, err := RawTable(path)
	if err != nil {
		t.Fatal(err)
	}

	if want := []string{"rs1_A", "rs2_C", "X9snp_G"}; len(snps) != len(want) {
		t.Fatalf("got %d variant columns, expected %d", len(snps), len(want))
	} else {
		for i := range want {
			if snps[i] != want[i] {
				t.Errorf("variant column %d: got %q, expected %q", i, snps[i], want[i])
			}
		}
	}

	if n := table.NRows(); n != 2 {
		t.Fatalf("got %d rows, expected 2", n)
	}
	if _, ok := table.Row("F1_1"); !ok {
		t.Error("sample F1_1 not keyed by FID_IID")
	}
	if table.HasColumn("SEX") || table.HasColumn("PAT") || table.HasColumn("MAT") {
		t.Error("parental/sex columns should have been dropped")
	}

	if v := table.Cell(DefaultPhenotype, 1); !v.Valid || v.Float64 != 3 {
		t.Errorf("PHENOTYPE row 2: got %+v, expected 3", v)
	}
	if v := table.Cell("X9snp_G", 0); v.Valid {
		t.Errorf("NA dosage should be missing, got %+v", v)
	}
	if v := table.Cell("rs1_A", 1); !v.Valid || v.Float64 != 2 {
		t.Errorf("rs1_A row 2: got %+v, expected 2", v)
	}
}

func TestRawTableErrors(t *testing.T) {
	for _, v := range []struct {
		name     string
		contents string
	}{
		{"missing leading columns", "FID IID SEX PHENOTYPE rs1_A\nF1 1 1 2 0\n"},
		{"no variant columns", "FID IID PAT MAT SEX PHENOTYPE\nF1 1 0 0 1 2\n"},
		{"misnamed leader", "FamID IID PAT MAT SEX PHENOTYPE rs1_A\nF1 1 0 0 1 2 0\n"},
		{"non-numeric dosage", "FID IID PAT MAT SEX PHENOTYPE rs1_A\nF1 1 0 0 1 2 bad\n"},
		{"ragged row", "FID IID PAT MAT SEX PHENOTYPE rs1_A\nF1 1 0 0 1 2\n"},
		{"duplicate sample", "FID IID PAT MAT SEX PHENOTYPE rs1_A\nF1 1 0 0 1 2 0\nF1 1 0 0 1 2 1\n"},
	} {
		path := writeFixture(t, "geno.raw", v.contents)
		if _, _, err := RawTable(path); err == nil {
			t.Errorf("%s: expected a parse error", v.name)
		}
	}
}
