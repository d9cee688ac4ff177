package notation

import "testing"

func TestMatchSymmetric(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		nominal float64
		tol     float64
	}{
		{"plus-minus sign", "25.55±0.1", 25.55, 0.1},
		{"ascii spelling", "40 +/- 0.25", 40, 0.25},
		{"no spaces", "12.5±0.05", 12.5, 0.05},
		{"embedded in text", "Hole ∅10 ± 0.2 thru", 10, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := Recognize(tt.text)
			if !ok {
				t.Fatalf("Recognize(%q) = no match", tt.text)
			}
			if res.Format != FormatSymmetric {
				t.Fatalf("format = %q, want %q", res.Format, FormatSymmetric)
			}
			if res.Nominal == nil || *res.Nominal != tt.nominal {
				t.Errorf("nominal = %v, want %v", res.Nominal, tt.nominal)
			}
			if *res.LowerLimit != tt.nominal-tt.tol {
				t.Errorf("lower = %v, want %v", *res.LowerLimit, tt.nominal-tt.tol)
			}
			if *res.UpperLimit != tt.nominal+tt.tol {
				t.Errorf("upper = %v, want %v", *res.UpperLimit, tt.nominal+tt.tol)
			}
		})
	}
}

func TestMatchAsymmetric(t *testing.T) {
	res, ok := Recognize("250 +0.1/-0.2")
	if !ok {
		t.Fatal("no match")
	}
	if res.Format != FormatAsymmetric {
		t.Fatalf("format = %q, want %q", res.Format, FormatAsymmetric)
	}
	if *res.Nominal != 250 {
		t.Errorf("nominal = %v, want 250", *res.Nominal)
	}
	if *res.UpperLimit != 250+0.1 {
		t.Errorf("upper = %v, want %v", *res.UpperLimit, 250+0.1)
	}
	if *res.LowerLimit != 250-0.2 {
		t.Errorf("lower = %v, want %v", *res.LowerLimit, 250-0.2)
	}
}

func TestMatchAsymmetric_SpacedSlash(t *testing.T) {
	res, ok := Recognize("100 + 0.05 / - 0.1")
	if !ok {
		t.Fatal("no match")
	}
	if res.Format != FormatAsymmetric {
		t.Fatalf("format = %q, want %q", res.Format, FormatAsymmetric)
	}
	if *res.UpperLimit != 100+0.05 || *res.LowerLimit != 100-0.1 {
		t.Errorf("limits = %v/%v", *res.LowerLimit, *res.UpperLimit)
	}
}

func TestMatchMaximum(t *testing.T) {
	tests := []struct {
		text  string
		bound float64
	}{
		{"MAX 6.3", 6.3},
		{"max 6.3", 6.3},
		{"6.3 MAX", 6.3},
		{"R2.5 MAX", 2.5},
		{"Ra 3.2 max", 3.2},
	}

	for _, tt := range tests {
		res, ok := Recognize(tt.text)
		if !ok {
			t.Fatalf("Recognize(%q) = no match", tt.text)
		}
		if res.Format != FormatMaximum {
			t.Errorf("Recognize(%q) format = %q", tt.text, res.Format)
		}
		if res.UpperLimit == nil || *res.UpperLimit != tt.bound {
			t.Errorf("Recognize(%q) upper = %v, want %v", tt.text, res.UpperLimit, tt.bound)
		}
		if res.LowerLimit != nil {
			t.Errorf("Recognize(%q) carries a lower limit", tt.text)
		}
	}
}

func TestMatchMinimum(t *testing.T) {
	tests := []struct {
		text  string
		bound float64
	}{
		{"MIN 0.5", 0.5},
		{"MIN R0.5", 0.5},
		{"0.5 MIN", 0.5},
		{"R1.2 MIN", 1.2},
	}

	for _, tt := range tests {
		res, ok := Recognize(tt.text)
		if !ok {
			t.Fatalf("Recognize(%q) = no match", tt.text)
		}
		if res.Format != FormatMinimum {
			t.Errorf("Recognize(%q) format = %q", tt.text, res.Format)
		}
		if res.LowerLimit == nil || *res.LowerLimit != tt.bound {
			t.Errorf("Recognize(%q) lower = %v, want %v", tt.text, res.LowerLimit, tt.bound)
		}
		if res.UpperLimit != nil {
			t.Errorf("Recognize(%q) carries an upper limit", tt.text)
		}
	}
}
