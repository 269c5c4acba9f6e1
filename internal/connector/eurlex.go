package connector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/fault"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/model"
)

// DefaultEUBaseURL is the EUR-Lex site root.
const DefaultEUBaseURL = "https://eur-lex.europa.eu"

// SourceEU names the EU connector in draft and ledger records.
const SourceEU = "EUR-Lex"

// minEUBodyChars rejects pages that resolved but carry no real document,
// e.g. a "not available in this language" shell.
const minEUBodyChars = 500

// EUClient fetches one regulation from EUR-Lex by CELEX identifier.
type EUClient struct {
	base string
	http *http.Client
}

// NewEUClient creates an EU connector. baseURL may be empty for the
// production endpoint; tests point it at a local server.
func NewEUClient(baseURL string, timeout time.Duration) *EUClient {
	if baseURL == "" {
		baseURL = DefaultEUBaseURL
	}
	return &EUClient{base: baseURL, http: newHTTPClient(timeout)}
}

// FetchByCELEX resolves one CELEX identifier to a draft.
//
// A 404, or a page whose extracted text is under minEUBodyChars significant
// characters, maps to NOT_FOUND: the identifier does not resolve to a usable
// text. Transport failure maps to UPSTREAM_UNAVAILABLE.
func (c *EUClient) FetchByCELEX(ctx context.Context, celexID string) (model.RegulationDraft, error) {
	if celexID == "" {
		return model.RegulationDraft{}, fault.New(fault.KindInvalid, "", "celex id must not be empty")
	}

	pageURL := c.base + "/legal-content/EN/TXT/?uri=CELEX:" + url.QueryEscape(celexID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return model.RegulationDraft{}, fmt.Errorf("fetch %s: build request: %w", celexID, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return model.RegulationDraft{}, upstreamErr("eur-lex", celexID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return model.RegulationDraft{}, fault.New(fault.KindNotFound, celexID, "celex id does not resolve")
	case resp.StatusCode != http.StatusOK:
		return model.RegulationDraft{}, fault.New(fault.KindUpstreamUnavailable, celexID,
			fmt.Sprintf("eur-lex returned status %d", resp.StatusCode))
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return model.RegulationDraft{}, fault.Wrap(fault.KindUpstreamUnavailable, celexID,
			"eur-lex returned unparsable html", err)
	}

	title := pageTitle(doc)
	if title == "" {
		title = "EU Regulation " + celexID
	}

	// Prefer the document pane; fall back to the whole page.
	body := extractText(findByAttr(doc, "class", "tab-content"))
	if body == "" {
		body = extractText(doc)
	}
	if significantLen(body) < minEUBodyChars {
		return model.RegulationDraft{}, fault.New(fault.KindNotFound, celexID,
			"celex id resolves to no usable text")
	}

	return model.RegulationDraft{
		ID:          "EU-" + celexID,
		Country:     "EU",
		Source:      SourceEU,
		Title:       title,
		PublishedAt: time.Now().UTC().Truncate(24 * time.Hour),
		URL:         pageURL,
		Body:        body,
	}, nil
}

// pageTitle returns the first <h1> text, falling back to <title>.
func pageTitle(doc *html.Node) string {
	if h1 := findElement(doc, "h1"); h1 != nil {
		return strings.TrimSpace(extractText(h1))
	}
	if t := findElement(doc, "title"); t != nil {
		return strings.TrimSpace(extractText(t))
	}
	return ""
}

// findElement returns the first element node with the given tag.
func findElement(n *html.Node, tag string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// findByAttr returns the first element whose attribute contains val.
func findByAttr(n *html.Node, key, val string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == key && strings.Contains(a.Val, val) {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByAttr(c, key, val); found != nil {
			return found
		}
	}
	return nil
}

// extractText collects visible text under a node, newline-separated,
// skipping script and style subtrees.
func extractText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				sb.WriteString(text)
				sb.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
