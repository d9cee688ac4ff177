package notation

import (
	"reflect"
	"testing"
)

func TestMatchFamily_BracketedForm(t *testing.T) {
	res, ok := Recognize("[ Flatness | 0.05 ]")
	if !ok {
		t.Fatal("no match")
	}
	if res.Class != ClassForm || res.Subtype != "Flatness" {
		t.Errorf("got class %q subtype %q", res.Class, res.Subtype)
	}
	if res.ToleranceValue == nil || *res.ToleranceValue != 0.05 {
		t.Errorf("tolerance value = %v, want 0.05", res.ToleranceValue)
	}
	if res.UpperLimit == nil || *res.UpperLimit != 0.05 {
		t.Errorf("upper limit = %v, want 0.05", res.UpperLimit)
	}
	if res.Diameter {
		t.Error("diameter flag set without glyph")
	}
	if len(res.DatumRefs) != 0 {
		t.Errorf("form family extracted refs %v", res.DatumRefs)
	}
}

func TestMatchFamily_DiameterZone(t *testing.T) {
	res, ok := Recognize("[ Position | ∅0.02 | A | B ]")
	if !ok {
		t.Fatal("no match")
	}
	if !res.Diameter {
		t.Error("diameter flag not set")
	}
	if *res.ToleranceValue != 0.02 {
		t.Errorf("tolerance value = %v, want 0.02", *res.ToleranceValue)
	}
	// The closing bracket rides along with the last pipe segment, so only
	// the inner segments qualify as datum references.
	if want := []string{"A"}; !reflect.DeepEqual(res.DatumRefs, want) {
		t.Errorf("datum refs = %v, want %v", res.DatumRefs, want)
	}
}

func TestExtractDatumRefs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"three pipe refs keep first two", "[ Position | ∅0.02 | A | B | C ]", []string{"A", "B"}},
		{"compound wins over pipes", "[ Concentricity | 0.01 | A-B ]", []string{"A", "B"}},
		{"compound anywhere", "Runout 0.05 C-D", []string{"C", "D"}},
		{"pipe ref with modifier", "[ Position | 0.1 | A (M) | B ]", []string{"A"}},
		{"bare fallback", "Circular Runout 0.03 A", []string{"A"}},
		{"bare fallback skips modifier letters", "Position 0.1 A (M) B", []string{"A", "B"}},
		{"no refs", "Flatness 0.05", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractDatumRefs(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("extractDatumRefs(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractModifiers(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"[ Position | ∅0.1 (M) | A (L) ]", []string{"M", "L"}},
		{"0.2 (m)(M)", []string{"M"}}, // case-folded and deduplicated
		{"0.2 (X)", nil},              // not a material-condition letter
	}

	for _, tt := range tests {
		got := extractModifiers(tt.text)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("extractModifiers(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestMatchProfile_Unilateral(t *testing.T) {
	res, ok := Recognize("SP 0.8(U)0.3")
	if !ok {
		t.Fatal("no match")
	}
	if res.Class != ClassProfile {
		t.Errorf("class = %q, want %q", res.Class, ClassProfile)
	}
	if res.Subtype != "Profile of a Line" {
		t.Errorf("subtype = %q, want %q", res.Subtype, "Profile of a Line")
	}
	if *res.ToleranceValue != 0.8 || *res.UpperLimit != 0.8 {
		t.Errorf("primary magnitude = %v/%v, want 0.8", *res.ToleranceValue, *res.UpperLimit)
	}
	if res.UnilateralSecondary == nil || *res.UnilateralSecondary != 0.3 {
		t.Errorf("secondary magnitude = %v, want 0.3", res.UnilateralSecondary)
	}
	if want := []string{"U"}; !reflect.DeepEqual(res.Modifiers, want) {
		t.Errorf("modifiers = %v, want %v", res.Modifiers, want)
	}
}

func TestMatchProfile_SurfaceKeyword(t *testing.T) {
	res, ok := Recognize("[ Profile of a Surface | 0.4 | A ]")
	if !ok {
		t.Fatal("no match")
	}
	if res.Subtype != "Profile of a Surface" {
		t.Errorf("subtype = %q, want %q", res.Subtype, "Profile of a Surface")
	}
	if res.Diameter {
		t.Error("profile family must not set the diameter flag")
	}
}

func TestMatchRunout_Subtypes(t *testing.T) {
	tests := []struct {
		text    string
		subtype string
	}{
		{"Circular Runout 0.03 A", "Circular Runout"},
		{"Total Runout 0.05 A-B", "Total Runout"},
		{"Runout 0.1 A", "Runout"},
	}

	for _, tt := range tests {
		res, ok := Recognize(tt.text)
		if !ok {
			t.Fatalf("Recognize(%q) = no match", tt.text)
		}
		if res.Class != ClassRunout {
			t.Errorf("Recognize(%q) class = %q", tt.text, res.Class)
		}
		if res.Subtype != tt.subtype {
			t.Errorf("Recognize(%q) subtype = %q, want %q", tt.text, res.Subtype, tt.subtype)
		}
	}
}

func TestMatchSymbol(t *testing.T) {
	tests := []struct {
		text    string
		subtype string
		value   float64
	}{
		{"⏜ 0.1", "Straightness", 0.1},
		{"⟂ 0.05", "Perpendicularity", 0.05},
		{"⌖ ∅0.25", "Position", 0.25},
		{"∠ 0.5", "Angularity", 0.5},
		{"⏩ 0.03", "Runout", 0.03},
	}

	for _, tt := range tests {
		res, ok := Recognize(tt.text)
		if !ok {
			t.Fatalf("Recognize(%q) = no match", tt.text)
		}
		if res.Format != FormatSymbol {
			t.Errorf("Recognize(%q) format = %q", tt.text, res.Format)
		}
		if res.Subtype != tt.subtype {
			t.Errorf("Recognize(%q) subtype = %q, want %q", tt.text, res.Subtype, tt.subtype)
		}
		if res.UpperLimit == nil || *res.UpperLimit != tt.value {
			t.Errorf("Recognize(%q) upper = %v, want %v", tt.text, res.UpperLimit, tt.value)
		}
		if res.Class != "" {
			t.Errorf("symbol result carries class %q", res.Class)
		}
	}
}

func TestMatchSymbol_GlyphWithoutNumber(t *testing.T) {
	if res, ok := Recognize("⏜ ref"); ok {
		t.Errorf("Recognize(⏜ ref) = %+v, want no match", res)
	}
}
