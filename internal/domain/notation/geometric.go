package notation

import (
	"regexp"
	"strconv"
	"strings"
)

// keywordEntry maps a drawing keyword to its canonical subtype name.
// Keywords are matched as substrings of the uppercased callout.
type keywordEntry struct {
	keyword string
	subtype string
}

// Keyword tables are ordered and the first keyword found wins; no attempt is
// made to find a longer or "better" match.
var (
	formKeywords = []keywordEntry{
		{"STRAIGHTNESS", "Straightness"},
		{"FLATNESS", "Flatness"},
		{"CIRCULARITY", "Circularity"},
		{"CYLINDRICITY", "Cylindricity"},
	}

	orientationKeywords = []keywordEntry{
		{"PERPENDICULARITY", "Perpendicularity"},
		{"ANGULARITY", "Angularity"},
		{"PARALLELISM", "Parallelism"},
		{"ANG", "Angularity"},
	}

	locationKeywords = []keywordEntry{
		{"POSITION", "Position"},
		{"TRUE POSITION", "True Position"},
		{"TP", "True Position"},
		{"CONCENTRICITY", "Concentricity"},
		{"SYMMETRY", "Symmetry"},
	}

	profileKeywords = []keywordEntry{
		{"PROFILE OF A LINE", "Profile of a Line"},
		{"PROFILE OF A SURFACE", "Profile of a Surface"},
		{"LP", "Profile of a Line"},
		{"SP", "Profile of a Surface"},
	}

	runoutKeywords = []keywordEntry{
		{"CIRCULAR RUNOUT", "Circular Runout"},
		{"TOTAL RUNOUT", "Total Runout"},
		{"RUNOUT", "Runout"},
	}
)

// geometricFamily describes one GDT family: its keyword table and which
// optional parts it extracts from a callout.
type geometricFamily struct {
	class     Class
	keywords  []keywordEntry
	refs      bool
	modifiers bool
	diameter  bool
}

var (
	formFamily        = geometricFamily{class: ClassForm, keywords: formKeywords, modifiers: true, diameter: true}
	orientationFamily = geometricFamily{class: ClassOrientation, keywords: orientationKeywords, refs: true, modifiers: true, diameter: true}
	locationFamily    = geometricFamily{class: ClassLocation, keywords: locationKeywords, refs: true, modifiers: true, diameter: true}
	profileFamily     = geometricFamily{class: ClassProfile, keywords: profileKeywords, refs: true, modifiers: true}
	runoutFamily      = geometricFamily{class: ClassRunout, keywords: runoutKeywords, refs: true}
)

func matchForm(text string) (Result, bool)        { return matchFamily(text, formFamily) }
func matchOrientation(text string) (Result, bool) { return matchFamily(text, orientationFamily) }
func matchLocation(text string) (Result, bool)    { return matchFamily(text, locationFamily) }
func matchRunout(text string) (Result, bool)      { return matchFamily(text, runoutFamily) }

// unilateralRe matches the profile "V1(U)V2" shape, two magnitudes joined by
// a literal (U) with no separators.
var unilateralRe = regexp.MustCompile(`(?i)(\d+\.?\d*)\(U\)(\d+\.?\d*)`)

// matchProfile checks the unilateral "V1(U)V2" shape before the shared
// bracketed/bare paths; when it hits, it pre-empts them entirely.
func matchProfile(text string) (Result, bool) {
	if m := unilateralRe.FindStringSubmatch(text); m != nil {
		v1, err1 := strconv.ParseFloat(m[1], 64)
		v2, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			upper := v1
			return Result{
				Format:              FormatGeometric,
				UpperLimit:          &upper,
				ToleranceValue:      &v1,
				Class:               ClassProfile,
				Subtype:             "Profile of a Line",
				Modifiers:           []string{"U"},
				DatumRefs:           extractDatumRefs(text),
				UnilateralSecondary: &v2,
			}, true
		}
	}
	return matchFamily(text, profileFamily)
}

// matchFamily implements the two input shapes every GDT family shares: the
// bracketed "[ keyword | value | references ]" form, then the bare form with
// the keyword anywhere in the callout. A keyword without a parseable numeric
// magnitude is not a match — a label alone is not a valid tolerance.
func matchFamily(text string, fam geometricFamily) (Result, bool) {
	upper := strings.ToUpper(text)

	if m := bracketRe.FindStringSubmatch(text); m != nil {
		keywordPart := strings.ToUpper(strings.TrimSpace(m[1]))
		valuePart := strings.TrimSpace(m[2])
		for _, kw := range fam.keywords {
			if !strings.Contains(keywordPart, kw.keyword) {
				continue
			}
			if v := extractValue(valuePart); v != nil {
				return buildGeometric(text, valuePart, fam, kw.subtype, *v), true
			}
		}
	}

	for _, kw := range fam.keywords {
		if !strings.Contains(upper, kw.keyword) {
			continue
		}
		if v := extractValue(text); v != nil {
			return buildGeometric(text, text, fam, kw.subtype, *v), true
		}
	}

	return Result{}, false
}

// buildGeometric assembles a geometric Result. The diameter flag comes from
// valueSegment; modifiers and references are scanned across the whole
// original callout, not just the matched segment.
func buildGeometric(text, valueSegment string, fam geometricFamily, subtype string, value float64) Result {
	upper := value
	res := Result{
		Format:         FormatGeometric,
		UpperLimit:     &upper,
		ToleranceValue: &value,
		Class:          fam.class,
		Subtype:        subtype,
	}
	if fam.diameter {
		res.Diameter = hasDiameter(valueSegment)
	}
	if fam.modifiers {
		res.Modifiers = extractModifiers(text)
	}
	if fam.refs {
		res.DatumRefs = extractDatumRefs(text)
	}
	return res
}

// symbolTable maps single Unicode GDT glyphs to their subtype names, in fixed
// order. Symbol callouts carry no references or modifiers.
var symbolTable = []struct {
	glyph   string
	subtype string
}{
	{"⏜", "Straightness"},
	{"⟂", "Perpendicularity"},
	{"⌖", "Position"},
	{"∠", "Angularity"},
	{"⏩", "Runout"},
}

// matchSymbol recognizes a bare GDT glyph followed by a numeric value, with
// no keyword. The first standalone number anywhere in the callout is taken
// as the tolerance magnitude.
func matchSymbol(text string) (Result, bool) {
	for _, sym := range symbolTable {
		if !strings.Contains(text, sym.glyph) {
			continue
		}
		num := numberRe.FindString(text)
		if num == "" {
			continue
		}
		v, err := strconv.ParseFloat(num, 64)
		if err != nil {
			continue
		}
		upper := v
		return Result{
			Format:         FormatSymbol,
			UpperLimit:     &upper,
			ToleranceValue: &v,
			Subtype:        sym.subtype,
		}, true
	}
	return Result{}, false
}
