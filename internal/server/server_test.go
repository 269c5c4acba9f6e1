package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/engine"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/extract"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/fault"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/impact"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/model"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/store"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/testutil"
)

type stubUS struct {
	drafts []model.RegulationDraft
	err    error
}

func (s *stubUS) SearchByTopic(ctx context.Context, topic string, limit int) ([]model.RegulationDraft, error) {
	return s.drafts, s.err
}

type stubEU struct {
	draft model.RegulationDraft
	err   error
}

func (s *stubEU) FetchByCELEX(ctx context.Context, celexID string) (model.RegulationDraft, error) {
	return s.draft, s.err
}

func createTestServer(t *testing.T, us engine.USSearcher, eu engine.EUFetcher) *Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	st.SetClock(testutil.NewClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), time.Second).Now)
	t.Cleanup(func() { st.Close() })

	m, err := impact.LoadModel("")
	require.NoError(t, err)
	e := engine.New(st, us, eu, extract.New(st), impact.NewResolver(st, m), nil)
	return New(e, nil)
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body
}

func errorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body.Error.Kind
}

func euBatteryStub() *stubEU {
	return &stubEU{draft: model.RegulationDraft{
		ID:          "EU-32023R1542",
		Country:     "EU",
		Source:      "EUR-Lex",
		Title:       "Regulation (EU) 2023/1542 on batteries",
		PublishedAt: time.Date(2023, 7, 12, 0, 0, 0, 0, time.UTC),
		Body:        "Batteries must be traceable by QR code. Manufacturers shall register each battery model.",
	}}
}

func TestHealthz(t *testing.T) {
	s := createTestServer(t, &stubUS{}, &stubEU{})
	rec := doRequest(t, s, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDHeaderEchoed(t *testing.T) {
	s := createTestServer(t, &stubUS{}, &stubEU{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	rec = doRequest(t, s, http.MethodGet, "/healthz")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), "server must mint an id when none is sent")
}

func TestImportEUAndReadBack(t *testing.T) {
	s := createTestServer(t, &stubUS{}, euBatteryStub())

	rec := doRequest(t, s, http.MethodPost, "/regulations/import/eu?celex_id=32023R1542")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var outcome engine.ImportOutcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, engine.StatusImported, outcome.Status)

	rec = doRequest(t, s, http.MethodGet, "/regulations/EU-32023R1542")
	require.Equal(t, http.StatusOK, rec.Code)
	var reg model.Regulation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))
	assert.Equal(t, int64(1), reg.Version)

	rec = doRequest(t, s, http.MethodGet, "/regulations/EU-32023R1542/versions")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	var versions []model.Regulation
	require.NoError(t, json.Unmarshal(body["versions"], &versions))
	assert.Len(t, versions, 1)
}

func TestImportUS_Validation(t *testing.T) {
	s := createTestServer(t, &stubUS{}, &stubEU{})

	rec := doRequest(t, s, http.MethodPost, "/regulations/import/us?topic=battery&limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID", errorKind(t, rec))

	rec = doRequest(t, s, http.MethodPost, "/regulations/import/us")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportUS_UpstreamDownIs502(t *testing.T) {
	us := &stubUS{err: fault.New(fault.KindUpstreamUnavailable, "USA-FederalRegister", "status 503")}
	s := createTestServer(t, us, &stubEU{})

	rec := doRequest(t, s, http.MethodPost, "/regulations/import/us?topic=battery")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", errorKind(t, rec))
}

func TestGetRegulation_UnknownIs404(t *testing.T) {
	s := createTestServer(t, &stubUS{}, &stubEU{})

	rec := doRequest(t, s, http.MethodGet, "/regulations/EU-NOPE")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorKind(t, rec))
}

func TestExtractRequirementsImpactHistoryFlow(t *testing.T) {
	s := createTestServer(t, &stubUS{}, euBatteryStub())

	rec := doRequest(t, s, http.MethodPost, "/regulations/import/eu?celex_id=32023R1542")
	require.Equal(t, http.StatusOK, rec.Code)

	// Empty before extraction.
	rec = doRequest(t, s, http.MethodGet, "/requirements?regulation_id=EU-32023R1542")
	require.Equal(t, http.StatusOK, rec.Code)
	var recs []model.RequirementRecord
	require.NoError(t, json.Unmarshal(decodeBody(t, rec)["requirements"], &recs))
	assert.Empty(t, recs)

	rec = doRequest(t, s, http.MethodPost, "/requirements/extract?regulation_id=EU-32023R1542")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(decodeBody(t, rec)["requirements"], &recs))
	require.Len(t, recs, 2)

	rec = doRequest(t, s, http.MethodGet, "/impact/"+recs[0].ID)
	require.Equal(t, http.StatusOK, rec.Code)
	var assessment model.ImpactAssessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assessment))
	assert.NotEmpty(t, assessment.Components)

	rec = doRequest(t, s, http.MethodGet, "/history?subject_id=EU-32023R1542")
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []model.HistoryEntry
	require.NoError(t, json.Unmarshal(decodeBody(t, rec)["history"], &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, model.ChangeImported, entries[0].ChangeType)
	assert.Equal(t, model.ChangeExtracted, entries[1].ChangeType)
}

func TestRequirements_MissingRegulationID(t *testing.T) {
	s := createTestServer(t, &stubUS{}, &stubEU{})

	rec := doRequest(t, s, http.MethodGet, "/requirements")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/requirements/extract")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImpact_UnknownRequirementIs404(t *testing.T) {
	s := createTestServer(t, &stubUS{}, &stubEU{})

	rec := doRequest(t, s, http.MethodGet, "/impact/REQ-NOPE-v1-001")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHistory_BadTimestampIs400(t *testing.T) {
	s := createTestServer(t, &stubUS{}, &stubEU{})

	rec := doRequest(t, s, http.MethodGet, "/history?since=yesterday")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID", errorKind(t, rec))
}

func TestListRegulations_Filtered(t *testing.T) {
	us := &stubUS{drafts: []model.RegulationDraft{{
		ID:          "US-FR-2024-001",
		Country:     "USA",
		Source:      "USA-FederalRegister",
		Title:       "Crash testing rule",
		PublishedAt: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Body:        "Vehicles must pass frontal crash tests.",
	}}}
	s := createTestServer(t, us, euBatteryStub())

	rec := doRequest(t, s, http.MethodPost, "/regulations/import/us?topic=crash")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(t, s, http.MethodPost, "/regulations/import/eu?celex_id=32023R1542")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/regulations?country=USA")
	require.Equal(t, http.StatusOK, rec.Code)
	var regs []model.Regulation
	require.NoError(t, json.Unmarshal(decodeBody(t, rec)["regulations"], &regs))
	require.Len(t, regs, 1)
	assert.Equal(t, "US-FR-2024-001", regs[0].ID)

	rec = doRequest(t, s, http.MethodGet, "/regulations?q=batteries")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(decodeBody(t, rec)["regulations"], &regs))
	require.Len(t, regs, 1)
	assert.Equal(t, "EU-32023R1542", regs[0].ID)
}
