package notation

import "testing"

func TestRecognize_FormatDispatch(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		format Format
	}{
		{"symmetric plus-minus sign", "25.55±0.1", FormatSymmetric},
		{"symmetric ascii", "40 +/- 0.25", FormatSymmetric},
		{"asymmetric", "250 +0.1/-0.2", FormatAsymmetric},
		{"maximum", "MAX 6.3", FormatMaximum},
		{"maximum trailing", "6.3 MAX", FormatMaximum},
		{"minimum", "MIN R0.5", FormatMinimum},
		{"form keyword", "Flatness 0.05", FormatGeometric},
		{"orientation bracket", "[ Perpendicularity | 0.05 | A ]", FormatGeometric},
		{"location bracket", "[ Position | ∅0.02 | A | B ]", FormatGeometric},
		{"runout", "Circular Runout 0.03 A", FormatGeometric},
		{"unilateral profile", "SP 0.8(U)0.3", FormatGeometric},
		{"symbol glyph", "⏜ 0.1", FormatSymbol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := Recognize(tt.text)
			if !ok {
				t.Fatalf("Recognize(%q) = no match", tt.text)
			}
			if res.Format != tt.format {
				t.Errorf("Recognize(%q) format = %q, want %q", tt.text, res.Format, tt.format)
			}
		})
	}
}

func TestRecognize_NoMatch(t *testing.T) {
	tests := []string{
		"",
		"see note 4",
		"Flatness",     // keyword without a magnitude
		"[ Position ]", // bracket without a value segment
		"N/A",
	}

	for _, text := range tests {
		if res, ok := Recognize(text); ok {
			t.Errorf("Recognize(%q) = %+v, want no match", text, res)
		}
	}
}

func TestRecognize_BoundInvariant(t *testing.T) {
	// Every recognized callout must carry at least one limit.
	texts := []string{
		"25.55±0.1",
		"250 +0.1/-0.2",
		"MAX 6.3",
		"MIN 0.5",
		"Flatness 0.05",
		"[ Position | ∅0.02 | A | B ]",
		"SP 0.8(U)0.3",
		"⌖ 0.25",
	}

	for _, text := range texts {
		res, ok := Recognize(text)
		if !ok {
			t.Fatalf("Recognize(%q) = no match", text)
		}
		if res.LowerLimit == nil && res.UpperLimit == nil {
			t.Errorf("Recognize(%q) carries no limits", text)
		}
	}
}

func TestRecognize_GeometricBeforeNumeric(t *testing.T) {
	// A GDT callout with an embedded plain number must classify as geometric,
	// not fall through to the numeric families.
	res, ok := Recognize("TRUE POSITION 0.1")
	if !ok {
		t.Fatal("no match")
	}
	if res.Format != FormatGeometric {
		t.Fatalf("format = %q, want %q", res.Format, FormatGeometric)
	}
	if res.Class != ClassLocation {
		t.Errorf("class = %q, want %q", res.Class, ClassLocation)
	}
	// POSITION precedes TRUE POSITION in the keyword table, first hit wins.
	if res.Subtype != "Position" {
		t.Errorf("subtype = %q, want %q", res.Subtype, "Position")
	}
}

func TestRecognize_Deterministic(t *testing.T) {
	text := "[ Position | ∅0.02 (M) | A | B | C ]"
	first, ok1 := Recognize(text)
	second, ok2 := Recognize(text)
	if ok1 != ok2 {
		t.Fatal("match outcome differs between calls")
	}
	if first.Subtype != second.Subtype || first.Format != second.Format {
		t.Error("classification differs between calls")
	}
	if len(first.DatumRefs) != len(second.DatumRefs) {
		t.Fatal("datum reference count differs between calls")
	}
	for i := range first.DatumRefs {
		if first.DatumRefs[i] != second.DatumRefs[i] {
			t.Errorf("datum ref %d differs: %q vs %q", i, first.DatumRefs[i], second.DatumRefs[i])
		}
	}
}
