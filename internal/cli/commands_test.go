package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/model"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/store"
)

// seedDB creates a database with one ingested regulation and returns
// its path for use with --db.
func seedDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.db")
	s, err := store.Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, _, err = s.IngestRegulation(context.Background(), model.RegulationDraft{
		ID:          "EU-32023R1542",
		Country:     "EU",
		Source:      "EUR-Lex",
		Title:       "Regulation (EU) 2023/1542 on batteries",
		PublishedAt: time.Date(2023, 7, 12, 0, 0, 0, 0, time.UTC),
		Body:        "Batteries must be traceable by QR code.",
	})
	require.NoError(t, err)
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRegulationsListCommand(t *testing.T) {
	db := seedDB(t)

	out, err := execute(t, "regulations", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "1 regulations")
	assert.Contains(t, out, "EU-32023R1542 v1")

	out, err = execute(t, "regulations", "list", "--db", db, "--country", "USA")
	require.NoError(t, err)
	assert.Contains(t, out, "0 regulations")
}

func TestRegulationsShowCommand(t *testing.T) {
	db := seedDB(t)

	out, err := execute(t, "regulations", "show", "EU-32023R1542", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "fingerprint:")
	assert.Contains(t, out, "Batteries must be traceable")

	_, err = execute(t, "regulations", "show", "EU-NOPE", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestExtractAndImpactCommands(t *testing.T) {
	db := seedDB(t)

	out, err := execute(t, "extract", "EU-32023R1542", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "1 requirements")
	assert.Contains(t, out, "shall be traceable")

	reqID := model.RequirementID("EU-32023R1542", 1, 1)
	out, err = execute(t, "impact", reqID, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "components:")
	assert.Contains(t, out, "BAT_PACK")
}

func TestHistoryCommand(t *testing.T) {
	db := seedDB(t)

	out, err := execute(t, "history", "--db", db, "--subject", "EU-32023R1542")
	require.NoError(t, err)
	assert.Contains(t, out, "1 entries")
	assert.Contains(t, out, "imported")

	_, err = execute(t, "history", "--db", db, "--since", "not-a-time")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestJSONOutputMode(t *testing.T) {
	db := seedDB(t)

	out, err := execute(t, "regulations", "list", "--db", db, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "ok"`)
	assert.Contains(t, out, `"EU-32023R1542"`)
}
