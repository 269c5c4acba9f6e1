package extract

import "strings"

// obligationMarkers flag a clause as actionable. English modal obligations
// plus the French forms common in EU source texts.
//
// Heuristic: a clause without any marker is treated as definition or
// preamble and dropped. That is a design decision, not a guaranteed-correct
// classification - an obligation phrased without a modal will be missed.
var obligationMarkers = []string{
	"shall",
	"must",
	"is required to",
	"are required to",
	"doit",
	"doivent",
	"obligatoire",
}

// isActionable reports whether a clause states an obligation.
func isActionable(clause string) bool {
	lower := strings.ToLower(clause)
	for _, marker := range obligationMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
