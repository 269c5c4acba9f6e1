package engine

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/extract"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/fault"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/impact"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/model"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/store"
)

// USSearcher searches a federal register style upstream by topic.
// Implemented by connector.USClient (production) and test fakes.
type USSearcher interface {
	SearchByTopic(ctx context.Context, topic string, limit int) ([]model.RegulationDraft, error)
}

// EUFetcher fetches one regulation by its CELEX identifier.
// Implemented by connector.EUClient (production) and test fakes.
type EUFetcher interface {
	FetchByCELEX(ctx context.Context, celexID string) (model.RegulationDraft, error)
}

// ImportStatus reports what ingesting one draft did to the store.
type ImportStatus string

const (
	StatusImported    ImportStatus = ImportStatus(model.ChangeImported)
	StatusReversioned ImportStatus = ImportStatus(model.ChangeReversioned)
	StatusUnchanged   ImportStatus = "unchanged"
)

// ImportOutcome is the per-regulation result of an import run.
type ImportOutcome struct {
	Regulation model.Regulation `json:"regulation"`
	Status     ImportStatus     `json:"status"`
}

// ImportReport summarizes a topic import against the US connector.
// Counts always sum to len(Outcomes).
type ImportReport struct {
	Topic       string          `json:"topic"`
	Imported    int             `json:"imported"`
	Reversioned int             `json:"re_versioned"`
	Unchanged   int             `json:"unchanged"`
	Outcomes    []ImportOutcome `json:"outcomes"`
}

// Engine is the orchestration facade over the traceability pipeline.
type Engine struct {
	store     *store.Store
	us        USSearcher
	eu        EUFetcher
	extractor *extract.Extractor
	resolver  *impact.Resolver
	log       *zap.Logger
}

// New wires an engine. A nil logger disables logging.
func New(st *store.Store, us USSearcher, eu EUFetcher, ex *extract.Extractor, res *impact.Resolver, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{store: st, us: us, eu: eu, extractor: ex, resolver: res, log: log}
}

// ImportUS searches the US upstream for a topic and ingests every
// qualifying result. A fetch failure aborts the whole run before any
// ingest; an individual ingest failure aborts with the partial counts
// already committed (ingests are independently durable).
func (e *Engine) ImportUS(ctx context.Context, topic string, limit int) (ImportReport, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return ImportReport{}, fault.New(fault.KindInvalid, "", "topic must not be empty")
	}

	drafts, err := e.us.SearchByTopic(ctx, topic, limit)
	if err != nil {
		return ImportReport{}, err
	}

	report := ImportReport{Topic: topic, Outcomes: []ImportOutcome{}}
	for _, draft := range drafts {
		outcome, err := e.ingest(ctx, draft)
		if err != nil {
			return report, err
		}
		report.Outcomes = append(report.Outcomes, outcome)
		switch outcome.Status {
		case StatusImported:
			report.Imported++
		case StatusReversioned:
			report.Reversioned++
		default:
			report.Unchanged++
		}
	}

	e.log.Info("us import finished",
		zap.String("topic", topic),
		zap.Int("imported", report.Imported),
		zap.Int("re_versioned", report.Reversioned),
		zap.Int("unchanged", report.Unchanged))
	return report, nil
}

// ImportEU fetches one EUR-Lex document by CELEX identifier and ingests it.
func (e *Engine) ImportEU(ctx context.Context, celexID string) (ImportOutcome, error) {
	celexID = strings.TrimSpace(celexID)
	if celexID == "" {
		return ImportOutcome{}, fault.New(fault.KindInvalid, "", "celex_id must not be empty")
	}

	draft, err := e.eu.FetchByCELEX(ctx, celexID)
	if err != nil {
		return ImportOutcome{}, err
	}

	outcome, err := e.ingest(ctx, draft)
	if err != nil {
		return ImportOutcome{}, err
	}
	e.log.Info("eu import finished",
		zap.String("celex_id", celexID),
		zap.String("regulation_id", outcome.Regulation.ID),
		zap.String("status", string(outcome.Status)))
	return outcome, nil
}

func (e *Engine) ingest(ctx context.Context, draft model.RegulationDraft) (ImportOutcome, error) {
	reg, isNew, err := e.store.IngestRegulation(ctx, draft)
	if err != nil {
		return ImportOutcome{}, err
	}
	status := StatusUnchanged
	if isNew {
		status = StatusImported
		if reg.Version > 1 {
			status = StatusReversioned
		}
	}
	return ImportOutcome{Regulation: reg, Status: status}, nil
}

// ListRegulations returns the head version of every stored regulation,
// optionally narrowed by exact country and case-insensitive title substring.
// Order is stable regardless of filtering.
func (e *Engine) ListRegulations(ctx context.Context, country, query string) ([]model.Regulation, error) {
	regs, err := e.store.ListRegulations(ctx)
	if err != nil {
		return nil, err
	}
	if country == "" && query == "" {
		return regs, nil
	}
	query = strings.ToLower(query)
	filtered := make([]model.Regulation, 0, len(regs))
	for _, reg := range regs {
		if country != "" && !strings.EqualFold(reg.Country, country) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(reg.Title), query) {
			continue
		}
		filtered = append(filtered, reg)
	}
	return filtered, nil
}

// GetRegulation returns the head version of one regulation.
func (e *Engine) GetRegulation(ctx context.Context, id string) (model.Regulation, error) {
	return e.store.GetRegulation(ctx, id)
}

// GetRegulationVersion returns one specific committed version.
func (e *Engine) GetRegulationVersion(ctx context.Context, id string, version int64) (model.Regulation, error) {
	return e.store.GetRegulationVersion(ctx, id, version)
}

// ListRegulationVersions returns every committed version, oldest first.
func (e *Engine) ListRegulationVersions(ctx context.Context, id string) ([]model.Regulation, error) {
	return e.store.ListRegulationVersions(ctx, id)
}

// ExtractLatest derives requirements from the head version of a regulation.
// Re-running against unchanged text is a no-op with identical results.
func (e *Engine) ExtractLatest(ctx context.Context, regID string) ([]model.RequirementRecord, error) {
	head, err := e.store.GetRegulation(ctx, regID)
	if err != nil {
		return nil, err
	}
	recs, err := e.extractor.Extract(ctx, regID, head.Version)
	if err != nil {
		return nil, err
	}
	e.log.Info("extraction finished",
		zap.String("regulation_id", regID),
		zap.Int64("version", head.Version),
		zap.Int("requirements", len(recs)))
	return recs, nil
}

// Requirements returns the stored requirements for the head version of
// a regulation. Extraction must have run; an un-extracted head returns
// an empty slice, not an error.
func (e *Engine) Requirements(ctx context.Context, regID string) ([]model.RequirementRecord, error) {
	head, err := e.store.GetRegulation(ctx, regID)
	if err != nil {
		return nil, err
	}
	return e.store.GetRequirements(ctx, regID, head.Version)
}

// Impact resolves the cross-reference footprint of one requirement.
func (e *Engine) Impact(ctx context.Context, requirementID string) (model.ImpactAssessment, error) {
	return e.resolver.Resolve(ctx, requirementID)
}

// History queries the append-only ledger.
func (e *Engine) History(ctx context.Context, filter store.LedgerFilter) ([]model.HistoryEntry, error) {
	return e.store.QueryLedger(ctx, filter)
}
