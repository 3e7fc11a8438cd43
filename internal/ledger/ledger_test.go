// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/material-logger/pkg/types"
)

var baseTime = time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)

// testStore opens a ledger in a temp dir whose clock advances one minute per
// logged batch.
func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.LedgerConfig{Dir: filepath.Join(t.TempDir(), "ledger"), MaxResults: 50})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	tick := 0
	s.now = func() time.Time {
		tick++
		return baseTime.Add(time.Duration(tick) * time.Minute)
	}
	return s
}

func logBatch(t *testing.T, s *Store, source string, recs ...types.Record) string {
	t.Helper()
	id, err := s.Log(context.Background(), types.Batch{Source: source, Records: recs})
	require.NoError(t, err)
	return id
}

func TestNewStoreCreatesSchema(t *testing.T) {
	s := testStore(t)
	for _, table := range []string{"sessions", "records"} {
		var count int
		err := s.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&count)
		require.NoError(t, err)
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), dbFile)); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestNewStoreReopens(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ledger")
	s, err := NewStore(types.LedgerConfig{Dir: dir})
	require.NoError(t, err)
	_, err = s.Log(context.Background(), types.Batch{Source: "a.wav", Records: []types.Record{{Material: "sand", Quantity: "10 kg"}}})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewStore(types.LedgerConfig{Dir: dir})
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.List(context.Background(), QueryOptions{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, defaultMaxResults, s.maxResults)
}

func TestLog(t *testing.T) {
	s := testStore(t)

	id := logBatch(t, s, "site.wav",
		types.Record{Material: "cement", Quantity: "5 bags"},
		types.Record{Material: "sand", Quantity: "10 kg"},
	)
	assert.Len(t, id, 36)

	entries, err := s.List(context.Background(), QueryOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, types.LedgerEntry{
		SessionID: id, Source: "site.wav", LoggedAt: baseTime.Add(time.Minute),
		Seq: 1, Material: "cement", Quantity: "5 bags",
	}, entries[0])
	assert.Equal(t, 2, entries[1].Seq)

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT record_count FROM sessions WHERE id = ?`, id).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestLogEmptyBatch(t *testing.T) {
	s := testStore(t)
	id, err := s.Log(context.Background(), types.Batch{Source: "silence.wav"})
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, s.Append(context.Background(), types.Batch{}))

	var sessions int
	require.NoError(t, s.db.QueryRow(`SELECT count(*) FROM sessions`).Scan(&sessions))
	assert.Zero(t, sessions)
}

func TestLogCancelled(t *testing.T) {
	s := testStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Log(ctx, types.Batch{Records: []types.Record{{Material: "sand", Quantity: "1"}}})
	assert.Error(t, err)

	entries, err := s.List(context.Background(), QueryOptions{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestList(t *testing.T) {
	s := testStore(t)
	first := logBatch(t, s, "a.wav",
		types.Record{Material: "cement", Quantity: "5 bags"},
		types.Record{Material: "sand", Quantity: "10 kg"},
	)
	second := logBatch(t, s, "b.wav",
		types.Record{Material: "cement", Quantity: "20 bags"},
	)

	tests := []struct {
		name      string
		opts      QueryOptions
		wantCount int
		wantFirst string
	}{
		{"all", QueryOptions{}, 3, first},
		{"material", QueryOptions{Material: "cement"}, 2, first},
		{"material is case-insensitive", QueryOptions{Material: "CEMENT"}, 2, first},
		{"session", QueryOptions{SessionID: second}, 1, second},
		{"since", QueryOptions{Since: baseTime.Add(90 * time.Second)}, 1, second},
		{"limit", QueryOptions{MaxResults: 2}, 2, first},
		{"no match", QueryOptions{Material: "glass"}, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := s.List(context.Background(), tt.opts)
			require.NoError(t, err)
			require.Len(t, entries, tt.wantCount)
			if tt.wantCount > 0 {
				assert.Equal(t, tt.wantFirst, entries[0].SessionID)
			}
		})
	}
}

func TestTotals(t *testing.T) {
	s := testStore(t)
	logBatch(t, s, "a.wav",
		types.Record{Material: "cement", Quantity: "5 bags"},
		types.Record{Material: "sand", Quantity: "10 kg"},
		types.Record{Material: "sand", Quantity: "2.5 kg"},
	)
	logBatch(t, s, "b.wav",
		types.Record{Material: "cement", Quantity: "20 bags"},
		types.Record{Material: "brick", Quantity: "1,000"},
	)

	totals, err := s.Totals(context.Background(), QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, []Total{
		{Material: "brick", Unit: "", Amount: 1000, Mentions: 1},
		{Material: "cement", Unit: "bags", Amount: 25, Mentions: 2},
		{Material: "sand", Unit: "kg", Amount: 12.5, Mentions: 2},
	}, totals)

	filtered, err := s.Totals(context.Background(), QueryOptions{Material: "sand"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, 12.5, filtered[0].Amount)
}

func TestTotals_RangeCountsAsMention(t *testing.T) {
	s := testStore(t)
	logBatch(t, s, "a.wav",
		types.Record{Material: "cement", Quantity: "5 bags"},
		types.Record{Material: "cement", Quantity: "3-4 bags"},
	)

	totals, err := s.Totals(context.Background(), QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, []Total{
		{Material: "cement", Unit: "bags", Amount: 5, Mentions: 2},
	}, totals)
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in         string
		wantAmount float64
		wantUnit   string
	}{
		{"5 bags", 5, "bags"},
		{"10", 10, ""},
		{"2.5 tons", 2.5, "tons"},
		{"1,000 kg", 1000, "kg"},
		{"5kg", 5, "kg"},
		{"5e3", 5000, ""},
		{"3-4 bags", 0, "bags"},
		{"3-4", 0, ""},
		{"2x3 m", 0, "m"},
		{"", 0, ""},
	}
	for _, tt := range tests {
		amount, unit := ParseQuantity(tt.in)
		if amount != tt.wantAmount || unit != tt.wantUnit {
			t.Errorf("ParseQuantity(%q) = %v, %q; want %v, %q", tt.in, amount, unit, tt.wantAmount, tt.wantUnit)
		}
	}
}

func TestExport(t *testing.T) {
	s := testStore(t)
	logBatch(t, s, "a.wav",
		types.Record{Material: "cement", Quantity: "5 bags"},
		types.Record{Material: "sand", Quantity: "10 kg"},
	)

	yamlPath, err := s.ExportYAML(context.Background(), QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "export.yaml"), yamlPath)

	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML []types.LedgerEntry
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Len(t, fromYAML, 2)
	assert.Equal(t, "cement", fromYAML[0].Material)

	jsonPath, err := s.ExportJSON(context.Background(), QueryOptions{Material: "sand"})
	require.NoError(t, err)
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON []types.LedgerEntry
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	require.Len(t, fromJSON, 1)
	assert.Equal(t, "10 kg", fromJSON[0].Quantity)
}

func TestExportEmpty(t *testing.T) {
	s := testStore(t)
	path, err := s.ExportJSON(context.Background(), QueryOptions{})
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
