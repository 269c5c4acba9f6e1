package extract

import "strings"

// Segmenter splits raw regulation text into candidate clauses.
//
// Implementations must be deterministic: the same text always yields the
// same clauses in the same order. The extraction orchestrator and the
// idempotence logic depend only on this interface, so the segmentation
// heuristic can be swapped without touching either.
type Segmenter interface {
	Segment(text string) []string
}

// SentenceSegmenter is the default Segmenter: sentence-level splitting on
// terminal punctuation. Deliberately simple; legal prose is mostly full
// sentences, and determinism matters more here than linguistic finesse.
type SentenceSegmenter struct{}

// Segment splits text into trimmed, non-empty sentences.
func (SentenceSegmenter) Segment(text string) []string {
	var clauses []string
	var sb strings.Builder

	flush := func() {
		clause := strings.TrimSpace(sb.String())
		sb.Reset()
		if clause != "" {
			clauses = append(clauses, clause)
		}
	}

	for _, r := range text {
		switch r {
		case '.', '!', '?', ';':
			flush()
		case '\n', '\r', '\t':
			sb.WriteRune(' ')
		default:
			sb.WriteRune(r)
		}
	}
	flush()

	// Collapse interior whitespace runs left by markup or line wrapping.
	for i, c := range clauses {
		clauses[i] = strings.Join(strings.Fields(c), " ")
	}
	return clauses
}
