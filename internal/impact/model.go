package impact

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// modelSchema constrains a cross-reference model file. Every rule needs at
// least one keyword; the three artifact lists may each be empty.
const modelSchema = `
model_version: string & != ""
rules: [...{
	match: [string, ...string]
	components: [...string]
	tests: [...string]
	documents: [...string]
}]
`

//go:embed default_crossref.cue
var defaultModelCUE []byte

// Rule maps a set of trigger keywords to the product artifacts they imply.
type Rule struct {
	Match      []string `json:"match"`
	Components []string `json:"components"`
	Tests      []string `json:"tests"`
	Documents  []string `json:"documents"`
}

// CrossRefModel is one validated version of the cross-reference
// configuration. Immutable after load; Resolver.Reload swaps whole models.
type CrossRefModel struct {
	ModelVersion string `json:"model_version"`
	Rules        []Rule `json:"rules"`
}

// LoadModel reads and validates a cross-reference model from a CUE file.
// An empty path loads the embedded default model.
func LoadModel(path string) (*CrossRefModel, error) {
	data := defaultModelCUE
	name := "default_crossref.cue"
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("load cross-reference model: %w", err)
		}
		name = path
	}
	return parseModel(name, data)
}

// parseModel compiles model CUE, unifies it with the schema, and decodes.
// Uses the CUE SDK's Go API directly (not CLI subprocess).
func parseModel(filename string, data []byte) (*CrossRefModel, error) {
	cuectx := cuecontext.New()

	schema := cuectx.CompileString(modelSchema, cue.Filename("crossref-schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("cross-reference schema: %w", err)
	}

	value := cuectx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("cross-reference model %s: %s", filename, cueerrors.Details(err, nil))
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("cross-reference model %s: %s", filename, cueerrors.Details(err, nil))
	}

	var m CrossRefModel
	if err := unified.Decode(&m); err != nil {
		return nil, fmt.Errorf("cross-reference model %s: decode: %w", filename, err)
	}

	// Keywords match case-insensitively; normalize once at load.
	for i := range m.Rules {
		for j, kw := range m.Rules[i].Match {
			m.Rules[i].Match[j] = strings.ToLower(strings.TrimSpace(kw))
		}
	}
	return &m, nil
}
