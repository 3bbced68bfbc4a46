package plink

import (
	"testing"

	"gopkg.in/guregu/null.v3"
)

func TestInnerJoin(t *testing.T) {
	left, err := NewTable([]string{"rs1_A"})
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"F1_1", "F2_1", "F3_1"} {
		if err := left.AppendRow(id, []null.Float{null.FloatFrom(1)}); err != nil {
			t.Fatal(err)
		}
	}

	right, err := NewTable([]string{"severity", "age"})
	if err != nil {
		t.Fatal(err)
	}
	// F2_1 is absent from the right table and must be dropped.
	for _, id := range []string{"F3_1", "F1_1"} {
		if err := right.AppendRow(id, []null.Float{null.FloatFrom(2), null.FloatFrom(50)}); err != nil {
			t.Fatal(err)
		}
	}

	joined, dropped, err := InnerJoin(left, right, []string{"severity"})
	if err != nil {
		t.Fatal(err)
	}

	if dropped != 1 {
		t.Errorf("got %d dropped samples, expected 1", dropped)
	}
	if joined.NRows() != 2 {
		t.Fatalf("got %d rows, expected 2", joined.NRows())
	}

	// Left-table row order survives the join.
	if joined.IDs[0] != "F1_1" || joined.IDs[1] != "F3_1" {
		t.Errorf("row order not preserved: %v", joined.IDs)
	}
	if joined.HasColumn("age") {
		t.Error("unrequested right-hand column was joined")
	}

	if _, _, err := InnerJoin(left, right, []string{"bmi"}); err == nil {
		t.Error("expected a named-column-not-found error")
	}
}
