package record

import (
	"testing"

	"github.com/verimetric/dimtol/internal/domain/notation"
)

func fptr(v float64) *float64 { return &v }

func toleranced() Character {
	return Character{
		ItemNo:        "12",
		Dimension:     "25.55±0.1",
		ToleranceType: "symmetric",
		Nominal:       fptr(25.55),
		LowerLimit:    fptr(25.45),
		UpperLimit:    fptr(25.65),
	}
}

func TestApplyNotation(t *testing.T) {
	res, ok := notation.Recognize("25.55±0.1")
	if !ok {
		t.Fatal("callout did not recognize")
	}

	var c Character
	c.ApplyNotation(res)

	if c.ToleranceType != "symmetric" {
		t.Errorf("tolerance type = %q", c.ToleranceType)
	}
	if c.Nominal == nil || *c.Nominal != 25.55 {
		t.Errorf("nominal = %v", c.Nominal)
	}
	if c.LowerLimit == nil || c.UpperLimit == nil {
		t.Fatal("limits not copied")
	}
}

func TestEvaluate_FlagPolicy(t *testing.T) {
	c := toleranced()

	out := c.Evaluate("25.9")
	if out.Compliant {
		t.Fatal("25.9 above upper limit judged compliant")
	}
	if !c.OutOfTolerance {
		t.Fatal("violation did not set the out-of-tolerance flag")
	}

	// A later compliant measurement never clears the flag.
	out = c.Evaluate("25.5")
	if !out.Compliant {
		t.Fatal("25.5 within limits judged non-compliant")
	}
	if !c.OutOfTolerance {
		t.Error("compliant re-evaluation cleared the flag")
	}
}

func TestToggleOutOfTolerance(t *testing.T) {
	c := toleranced()
	c.OutOfTolerance = true

	c.ToggleOutOfTolerance()
	if c.OutOfTolerance {
		t.Error("toggle did not clear the flag")
	}
	c.ToggleOutOfTolerance()
	if !c.OutOfTolerance {
		t.Error("toggle did not set the flag")
	}
}

func TestStatusText(t *testing.T) {
	c := toleranced()
	if got := c.StatusText(); got != "toleranced (symmetric)" {
		t.Errorf("status = %q", got)
	}

	c.OutOfTolerance = true
	if got := c.StatusText(); got != "out of tolerance" {
		t.Errorf("status = %q", got)
	}

	plain := Character{ItemNo: "1", Dimension: "see note"}
	if got := plain.StatusText(); got != "no tolerance defined" {
		t.Errorf("status = %q", got)
	}
}

func TestSummarize(t *testing.T) {
	chars := []Character{
		{ItemNo: "1", Tooling: "CMM", ToleranceType: "symmetric", Actual: "25.5"},
		{ItemNo: "2", Tooling: "CMM", ToleranceType: "geometric", Actual: "0.02", OutOfTolerance: true},
		{ItemNo: "3", Tooling: "Caliper", Actual: ""},
		{ItemNo: "4", Tooling: "Caliper", ToleranceType: "maximum", Actual: "6.1"},
	}

	s := Summarize(chars)
	if s.Total != 4 {
		t.Errorf("total = %d", s.Total)
	}
	if s.Measured != 3 {
		t.Errorf("measured = %d", s.Measured)
	}
	if s.Parsed != 3 || s.Unparsed != 1 {
		t.Errorf("parsed/unparsed = %d/%d", s.Parsed, s.Unparsed)
	}
	if s.OutOfTolerance != 1 {
		t.Errorf("out of tolerance = %d", s.OutOfTolerance)
	}
	if s.ToolingCounts["CMM"] != 2 || s.ToolingCounts["Caliper"] != 2 {
		t.Errorf("tooling counts = %v", s.ToolingCounts)
	}
}
