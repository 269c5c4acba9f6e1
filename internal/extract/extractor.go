package extract

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/fault"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/model"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/store"
)

// Extractor derives and persists requirement records for regulation versions.
type Extractor struct {
	store *store.Store
	seg   Segmenter

	// group admits at most one in-flight extraction per (id, version);
	// concurrent callers for the same key share the winner's result.
	group singleflight.Group
}

// New creates an Extractor with the default sentence segmenter.
func New(s *store.Store) *Extractor {
	return &Extractor{store: s, seg: SentenceSegmenter{}}
}

// NewWithSegmenter creates an Extractor with a custom segmentation policy.
func NewWithSegmenter(s *store.Store, seg Segmenter) *Extractor {
	return &Extractor{store: s, seg: seg}
}

// Extract derives the requirement set for one (regulation id, version).
//
// Idempotent per key: an unchanged text yields the stored set untouched and
// no ledger entry. Returns NOT_FOUND for a missing version and
// EXTRACTION_FAILED when segmentation produces no candidate clauses from
// non-empty text (malformed input is surfaced, never swallowed as zero
// requirements). Zero actionable clauses from a segmentable text is a valid
// empty result.
//
// If the caller's context expires while another extraction of the same key
// is in flight, Extract returns BUSY; the in-flight work continues and its
// result lands normally.
func (e *Extractor) Extract(ctx context.Context, regID string, version int64) ([]model.RequirementRecord, error) {
	key := fmt.Sprintf("%s@%d", regID, version)

	ch := e.group.DoChan(key, func() (any, error) {
		return e.run(context.WithoutCancel(ctx), regID, version)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]model.RequirementRecord), nil
	case <-ctx.Done():
		return nil, fault.Wrap(fault.KindBusy, regID,
			fmt.Sprintf("extraction of version %d still in flight, retry later", version), ctx.Err())
	}
}

func (e *Extractor) run(ctx context.Context, regID string, version int64) ([]model.RequirementRecord, error) {
	reg, err := e.store.GetRegulationVersion(ctx, regID, version)
	if err != nil {
		return nil, err
	}

	recs, err := e.derive(reg)
	if err != nil {
		return nil, err
	}

	stored, _, err := e.store.SaveRequirements(ctx, regID, version, recs)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// derive runs the segment/classify/rewrite pipeline. Pure: no store access,
// no clock, no randomness.
func (e *Extractor) derive(reg model.Regulation) ([]model.RequirementRecord, error) {
	clauses := e.seg.Segment(reg.Body)
	if len(clauses) == 0 {
		if strings.TrimSpace(reg.Body) != "" {
			return nil, fault.New(fault.KindExtractionFailed, reg.ID,
				fmt.Sprintf("no candidate clauses in version %d text", reg.Version))
		}
		return []model.RequirementRecord{}, nil
	}

	recs := []model.RequirementRecord{}
	for _, clause := range clauses {
		if !isActionable(clause) {
			continue
		}
		seq := len(recs) + 1
		recs = append(recs, model.RequirementRecord{
			ID:              model.RequirementID(reg.ID, reg.Version, seq),
			RegulationID:    reg.ID,
			Version:         reg.Version,
			Seq:             seq,
			TextRaw:         clause,
			TextEngineering: toEngineering(clause),
		})
	}
	return recs, nil
}
