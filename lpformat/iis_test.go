package lpformat

import (
	"os"
	"reflect"
	"testing"
)

// A degenerate IIS that is only "min / obj: / st / bounds / end" yields
// constraints: ["obj"], variables: [].
func TestParseIISDegenerate(t *testing.T) {
	content := "min\nobj:\nst\nbounds\nend\n"
	iis := ParseIIS(content)
	if !reflect.DeepEqual(iis.Constraints, []string{"obj"}) {
		t.Errorf("Constraints = %v, want [obj]", iis.Constraints)
	}
	if len(iis.Variables) != 0 {
		t.Errorf("Variables = %v, want none", iis.Variables)
	}
}

// A bound line "0 <= xName <= 5" produces xName once; both sides
// referencing the same variable deduplicate.
func TestParseIISBoundLineDeduplicates(t *testing.T) {
	iis := ParseIIS("0 <= xName <= 5\n")
	if !reflect.DeepEqual(iis.Variables, []string{"xName"}) {
		t.Errorf("Variables = %v, want [xName] exactly once", iis.Variables)
	}
}

// Lines starting with "\" are never classified as constraints, even when
// they contain a colon.
func TestParseIISBackslashCommentIgnored(t *testing.T) {
	iis := ParseIIS("\\ c1: this looks like a constraint\nc2: x <= 1\n")
	if !reflect.DeepEqual(iis.Constraints, []string{"c2"}) {
		t.Errorf("Constraints = %v, want [c2] only", iis.Constraints)
	}
}

func TestParseIISFreeLine(t *testing.T) {
	iis := ParseIIS("y free\n")
	if !reflect.DeepEqual(iis.Variables, []string{"y"}) {
		t.Errorf("Variables = %v, want [y]", iis.Variables)
	}
}

func TestParseIISMultipleConstraintsPreserveOrder(t *testing.T) {
	iis := ParseIIS("c1: x + y <= 1\nc2: x - y >= 0\nc1: x + y <= 1\n")
	if !reflect.DeepEqual(iis.Constraints, []string{"c1", "c2"}) {
		t.Errorf("Constraints = %v, want [c1 c2] with duplicates removed", iis.Constraints)
	}
}

func TestIISFromFileMissing(t *testing.T) {
	_, ok := IISFromFile("/nonexistent/path/to/iis.lp")
	if ok {
		t.Error("IISFromFile on a missing path should report false")
	}
}

func TestIISFromFileEmpty(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/empty.lp"
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, ok := IISFromFile(path)
	if ok {
		t.Error("IISFromFile on an empty file should report false")
	}
}
