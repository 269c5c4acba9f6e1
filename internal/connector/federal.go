package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/fault"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/model"
)

// DefaultUSBaseURL is the Federal Register API root.
const DefaultUSBaseURL = "https://www.federalregister.gov"

// SourceUS names the US connector in draft and ledger records.
const SourceUS = "USA-FederalRegister"

// minUSBodyChars drops search hits whose body is too short to segment.
// The documents API frequently returns abstract-only stubs.
const minUSBodyChars = 150

// USClient queries the Federal Register documents API by topic.
type USClient struct {
	base string
	http *http.Client
}

// NewUSClient creates a US connector. baseURL may be empty for the
// production endpoint; tests point it at a local server.
func NewUSClient(baseURL string, timeout time.Duration) *USClient {
	if baseURL == "" {
		baseURL = DefaultUSBaseURL
	}
	return &USClient{base: baseURL, http: newHTTPClient(timeout)}
}

// usDocument mirrors the fields we read from a Federal Register search hit.
type usDocument struct {
	DocumentNumber  string `json:"document_number"`
	Title           string `json:"title"`
	PublicationDate string `json:"publication_date"`
	BodyHTML        string `json:"body_html"`
	BodyText        string `json:"body_text"`
	Abstract        string `json:"abstract"`
	HTMLURL         string `json:"html_url"`
}

type usSearchResponse struct {
	Results []usDocument `json:"results"`
}

// SearchByTopic returns drafts for documents matching a topic, newest first.
//
// An empty result set is not an error. Documents whose best available body
// is under minUSBodyChars significant characters are skipped. Service or
// transport failure maps to UPSTREAM_UNAVAILABLE.
func (c *USClient) SearchByTopic(ctx context.Context, topic string, limit int) ([]model.RegulationDraft, error) {
	if topic == "" {
		return nil, fault.New(fault.KindInvalid, "", "topic must not be empty")
	}
	if limit <= 0 {
		limit = 5
	}

	q := url.Values{}
	q.Set("conditions[term]", topic)
	q.Set("per_page", strconv.Itoa(limit))
	q.Set("order", "newest")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.base+"/api/v1/documents?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("search %q: build request: %w", topic, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, upstreamErr("federal register", topic, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fault.New(fault.KindUpstreamUnavailable, topic,
			fmt.Sprintf("federal register returned status %d", resp.StatusCode))
	}

	var sr usSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fault.Wrap(fault.KindUpstreamUnavailable, topic,
			"federal register returned unreadable payload", err)
	}

	drafts := []model.RegulationDraft{}
	for _, doc := range sr.Results {
		draft, ok := normalizeUSDocument(doc)
		if !ok {
			continue
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// normalizeUSDocument converts one search hit into a canonical draft.
// Returns ok=false for documents without a usable body.
func normalizeUSDocument(doc usDocument) (model.RegulationDraft, bool) {
	body := doc.BodyHTML
	if body == "" {
		body = doc.BodyText
	}
	if body == "" {
		body = doc.Abstract
	}
	if doc.DocumentNumber == "" || significantLen(body) < minUSBodyChars {
		return model.RegulationDraft{}, false
	}

	published, err := time.Parse("2006-01-02", doc.PublicationDate)
	if err != nil {
		published = time.Now().UTC().Truncate(24 * time.Hour)
	}

	title := doc.Title
	if title == "" {
		title = "Federal Rule " + doc.DocumentNumber
	}

	return model.RegulationDraft{
		ID:          "US-FR-" + doc.DocumentNumber,
		Country:     "USA",
		Source:      SourceUS,
		Title:       title,
		PublishedAt: published,
		URL:         doc.HTMLURL,
		Body:        body,
	}, true
}
