package impact

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/model"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/store"
)

// Resolver computes impact assessments against the current cross-reference
// model. Resolution is a read-only operation and needs no coordination
// beyond the model RWMutex; it may run in parallel freely.
type Resolver struct {
	store *store.Store

	mu    sync.RWMutex
	model *CrossRefModel
	cache map[cacheKey]model.ImpactAssessment
}

type cacheKey struct {
	requirementID string
	modelVersion  string
}

// NewResolver creates a Resolver over a loaded model.
func NewResolver(st *store.Store, m *CrossRefModel) *Resolver {
	return &Resolver{
		store: st,
		model: m,
		cache: make(map[cacheKey]model.ImpactAssessment),
	}
}

// ModelVersion returns the active cross-reference model version.
func (r *Resolver) ModelVersion() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.model.ModelVersion
}

// Reload swaps in a new model and drops all cached assessments.
func (r *Resolver) Reload(m *CrossRefModel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.model = m
	r.cache = make(map[cacheKey]model.ImpactAssessment)
}

// Resolve computes the impact assessment for one requirement.
//
// Returns NOT_FOUND only when the requirement id itself is unknown. A
// requirement matching no rule yields an assessment with three empty,
// non-nil sets - a valid outcome the caller can tell apart from a lookup
// failure.
func (r *Resolver) Resolve(ctx context.Context, requirementID string) (model.ImpactAssessment, error) {
	rec, err := r.store.GetRequirement(ctx, requirementID)
	if err != nil {
		return model.ImpactAssessment{}, err
	}

	r.mu.RLock()
	m := r.model
	key := cacheKey{requirementID: requirementID, modelVersion: m.ModelVersion}
	if cached, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	assessment := assess(rec, m)

	r.mu.Lock()
	// The model may have been reloaded while we computed; only cache a
	// result that still belongs to the active version.
	if r.model.ModelVersion == m.ModelVersion {
		r.cache[key] = assessment
	}
	r.mu.Unlock()

	return assessment, nil
}

// assess is the pure matching core: lowercase substring search of every rule
// keyword over the requirement's raw and engineering text, union of all
// matching rules' artifacts, sorted output.
func assess(rec model.RequirementRecord, m *CrossRefModel) model.ImpactAssessment {
	text := strings.ToLower(rec.TextRaw + " " + rec.TextEngineering)

	components := map[string]struct{}{}
	tests := map[string]struct{}{}
	documents := map[string]struct{}{}

	for _, rule := range m.Rules {
		if !ruleMatches(rule, text) {
			continue
		}
		for _, c := range rule.Components {
			components[c] = struct{}{}
		}
		for _, t := range rule.Tests {
			tests[t] = struct{}{}
		}
		for _, d := range rule.Documents {
			documents[d] = struct{}{}
		}
	}

	return model.ImpactAssessment{
		RequirementID: rec.ID,
		ModelVersion:  m.ModelVersion,
		Components:    sortedSet(components),
		Tests:         sortedSet(tests),
		Documents:     sortedSet(documents),
	}
}

func ruleMatches(rule Rule, text string) bool {
	for _, kw := range rule.Match {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// sortedSet flattens a set into a sorted slice. Never returns nil, so empty
// assessments serialize as [] rather than null.
func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
