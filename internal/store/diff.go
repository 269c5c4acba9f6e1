package store

import (
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/model"
)

// summarizeDrift produces the human-readable diff summary recorded with a
// re-versioned ledger entry. Both sides are normalized first so the counts
// reflect real textual drift, not line-ending noise.
func summarizeDrift(oldBody, newBody string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(model.NormalizeText(oldBody), model.NormalizeText(newBody), false)

	var inserted, deleted, edits int
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			inserted += len(d.Text)
			edits++
		case diffmatchpatch.DiffDelete:
			deleted += len(d.Text)
			edits++
		}
	}

	return fmt.Sprintf("text drift: +%d/-%d chars across %d edits", inserted, deleted, edits)
}
