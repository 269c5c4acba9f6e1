package model

// ImpactAssessment is the computed effect of one requirement on the product:
// the components it touches, the tests that must cover it, and the documents
// that describe it.
//
// Assessments are a pure function of (requirement text, cross-reference model
// version). The three sets are sorted and never nil, so identical inputs
// serialize byte-identically.
type ImpactAssessment struct {
	RequirementID string   `json:"requirement_id"`
	ModelVersion  string   `json:"model_version"`
	Components    []string `json:"components"`
	Tests         []string `json:"tests"`
	Documents     []string `json:"documents"`
}
