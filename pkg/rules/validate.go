package rules

import "fmt"

// WarningKind classifies a rule problem.
type WarningKind uint8

const (
	// WarnInvertedRange is an enabled range with Min above Max.
	WarnInvertedRange WarningKind = iota
	// WarnLayerIndex is a layer or prototype index the terrain does not have.
	WarnLayerIndex
	// WarnChance is a detail chance outside [0, 1].
	WarnChance
	// WarnDensity is a negative density or one asking for more than
	// MaxTreesPerArea trees in an area.
	WarnDensity
	// WarnNilArea is a tree area with no polygon.
	WarnNilArea
	// WarnEmptyArea is a tree area polygon that encloses no ground.
	WarnEmptyArea
)

// String returns the kind name.
func (k WarningKind) String() string {
	switch k {
	case WarnInvertedRange:
		return "inverted-range"
	case WarnLayerIndex:
		return "layer-index"
	case WarnChance:
		return "chance"
	case WarnDensity:
		return "density"
	case WarnNilArea:
		return "nil-area"
	case WarnEmptyArea:
		return "empty-area"
	default:
		return fmt.Sprintf("WarningKind(%d)", k)
	}
}

// Warning describes a rule that will paint nothing or less than intended.
// Warnings never stop a paint pass.
type Warning struct {
	Kind    WarningKind
	Rule    int
	Field   string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("rule %d: %s: %s", w.Rule, w.Field, w.Message)
}

func checkConditions(i int, c Conditions) []Warning {
	var out []Warning
	if c.UseHeightRange && c.Height.Inverted() {
		out = append(out, Warning{
			Kind: WarnInvertedRange, Rule: i, Field: "height",
			Message: fmt.Sprintf("range %v is inverted and matches nothing", c.Height),
		})
	}
	if c.UseSlopeRange && c.Slope.Inverted() {
		out = append(out, Warning{
			Kind: WarnInvertedRange, Rule: i, Field: "slope",
			Message: fmt.Sprintf("range %v is inverted and matches nothing", c.Slope),
		})
	}
	return out
}

func checkIndex(i int, field string, index, count int) []Warning {
	if index >= 0 && index < count {
		return nil
	}
	return []Warning{{
		Kind: WarnLayerIndex, Rule: i, Field: field,
		Message: fmt.Sprintf("index %d outside [0, %d); rule is skipped", index, count),
	}}
}

// ValidateSplat checks splat rules against the number of splat layers.
func ValidateSplat(rs []SplatRule, layers int) []Warning {
	var out []Warning
	for i, r := range rs {
		out = append(out, checkConditions(i, r.Conditions)...)
		out = append(out, checkIndex(i, "layer", r.SplatIndex, layers)...)
	}
	return out
}

// ValidateDetail checks detail rules against the number of detail layers.
func ValidateDetail(rs []DetailRule, layers int) []Warning {
	var out []Warning
	for i, r := range rs {
		out = append(out, checkConditions(i, r.Conditions)...)
		out = append(out, checkIndex(i, "layer", r.DetailIndex, layers)...)
		if r.Chance < 0 || r.Chance > 1 {
			out = append(out, Warning{
				Kind: WarnChance, Rule: i, Field: "chance",
				Message: fmt.Sprintf("chance %g outside [0, 1]", r.Chance),
			})
		}
	}
	return out
}

// ValidateTrees checks tree rules against the number of tree prototypes.
// terrainArea is the ground covered by rules without areas.
func ValidateTrees(rs []TreeRule, prototypes int, terrainArea float32) []Warning {
	var out []Warning
	for i, r := range rs {
		out = append(out, checkConditions(i, r.Conditions)...)
		out = append(out, checkIndex(i, "tree", r.TreeIndex, prototypes)...)
		if r.Density < 0 {
			out = append(out, Warning{
				Kind: WarnDensity, Rule: i, Field: "density",
				Message: fmt.Sprintf("density %g is negative", r.Density),
			})
		}
		if r.Unrestricted() {
			out = append(out, checkTreeCount(i, "density", terrainArea, r.Density)...)
		}
		for a, area := range r.Areas {
			field := fmt.Sprintf("areas[%d]", a)
			switch {
			case area == nil:
				out = append(out, Warning{
					Kind: WarnNilArea, Rule: i, Field: field,
					Message: "missing polygon is skipped",
				})
			case area.Area() == 0:
				out = append(out, Warning{
					Kind: WarnEmptyArea, Rule: i, Field: field,
					Message: fmt.Sprintf("polygon with %d vertices encloses nothing", area.Len()),
				})
			default:
				out = append(out, checkTreeCount(i, field, area.Area(), r.Density)...)
			}
		}
	}
	return out
}

func checkTreeCount(i int, field string, area, density float32) []Warning {
	if _, capped := TreeCount(area, density); !capped {
		return nil
	}
	return []Warning{{
		Kind: WarnDensity, Rule: i, Field: field,
		Message: fmt.Sprintf("density %g over area %g exceeds %d trees; placement is capped",
			density, area, MaxTreesPerArea),
	}}
}
