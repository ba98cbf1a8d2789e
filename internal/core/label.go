package core

import "mortalitycore/pkg/domain"

// SeriesLabel derives the display label for one demographic combination. Any
// dimension at its All sentinel is collapsed out of the text; the synthetic
// All Deaths morbidity collapses the same way. The composition reproduces the
// dashboard's historical label cascade exactly:
//
//	all dimensions collapsed            "Total Pop."
//	race only                           "<race> Pop."
//	age group only                      "<age group> Pop."
//	morbidity only                      "Pop. with <morbidity>"
//	sex only                            "<sex> Pop."
//	sex and race                        "<sex>, <race> Pop."
//	age, sex, and race                  "Ages: <age group> for <sex>, <race> Pop."
//	all four concrete                   "Ages: <age group> for <sex>, <race> Pop. with <morbidity>"
//
// Label text must stay byte-stable across versions; chart legends and saved
// dashboards key off it.
func SeriesLabel(c domain.Combination) string {
	hasAge := !c.AgeGroup.IsAll()
	hasSex := !c.Sex.IsAll()
	hasRace := !c.Race.IsAll()
	hasMorbidity := !c.Morbidity.IsAll()

	if !hasAge && !hasSex && !hasRace && !hasMorbidity {
		return "Total Pop."
	}

	var label string
	switch {
	case hasSex && hasRace:
		label = string(c.Sex) + ", " + string(c.Race) + " Pop."
	case hasSex:
		label = string(c.Sex) + " Pop."
	case hasRace:
		label = string(c.Race) + " Pop."
	default:
		label = "Pop."
	}

	if hasAge {
		if hasSex || hasRace {
			label = "Ages: " + string(c.AgeGroup) + " for " + label
		} else {
			label = string(c.AgeGroup) + " " + label
		}
	}
	if hasMorbidity {
		label += " with " + c.Morbidity.Display()
	}
	return label
}
