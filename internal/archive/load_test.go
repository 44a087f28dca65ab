package archive

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const keyedDocument = `{
  "meta": {"title": "Keyed", "progress": 10},
  "phases": {
    "superhero": {"id": "superhero", "name": "Superhero Phase", "entries": []},
    "folklore": {
      "name": "Folklore Foundation",
      "entries": [
        {"id": "stag-001", "title": "Stagolee", "year": 1895, "type": "folk-ballad", "citations": [1]}
      ]
    },
    "detective": {"id": "detective", "entries": [{"id": "shaft-001", "title": "John Shaft", "year": 1971, "type": "film"}]}
  },
  "citations": {"1": {"short": "Roberts", "full": "Roberts, John W."}}
}`

func TestDecodeKeyedPhasesPreservesOrder(t *testing.T) {
	c, err := Decode(strings.NewReader(keyedDocument))
	require.NoError(t, err)

	require.Len(t, c.Phases, 3)
	assert.Equal(t, "superhero", c.Phases[0].ID)
	assert.Equal(t, "folklore", c.Phases[1].ID) // id filled from key
	assert.Equal(t, "detective", c.Phases[2].ID)
	assert.Equal(t, 2, c.TotalEntries())
	assert.Equal(t, "Roberts", c.Citations[1].Short)
}

func TestDecodeArrayPhases(t *testing.T) {
	data, err := json.Marshal(Sample())
	require.NoError(t, err)

	c, err := Decode(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, Sample().Phases[0].ID, c.Phases[0].ID)
	assert.Equal(t, 3, c.TotalEntries())
	assert.Len(t, c.Citations, 2)
}

func TestDecodeKeyMismatchFails(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"phases": {"a": {"id": "b"}}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"a" does not match id "b"`)
}

func TestDecodeRejectsDuplicateIDs(t *testing.T) {
	doc := `{"phases": [
	  {"id": "p1", "entries": [{"id": "e1"}]},
	  {"id": "p1", "entries": [{"id": "e1"}]}
	]}`
	_, err := Decode(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `phase "p1": duplicate id`)
	assert.Contains(t, err.Error(), `entry "e1": duplicate id`)
}

func TestDecodeRejectsPartialScores(t *testing.T) {
	doc := `{"phases": [{"id": "p1", "entries": [{"id": "e1", "badmanScores": {
	  "outlaw_relationship": {"score": 5},
	  "community_authorization": {"score": 4},
	  "violence_as_language": {"score": 3},
	  "hypermasculine_performance": {"score": 1}
	}}]}]}`
	_, err := Decode(strings.NewReader(doc))
	require.Error(t, err)

	var missing *MissingCriterionError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, CriterionCulturalPreservation, missing.Criterion)
}

func TestDecodeEmptyCitationsTable(t *testing.T) {
	c, err := Decode(strings.NewReader(`{"phases": []}`))
	require.NoError(t, err)
	assert.NotNil(t, c.Citations)
	_, ok := c.Citation(1)
	assert.False(t, ok)
}

func TestLoaderEmptySourceIsSample(t *testing.T) {
	l := NewLoader(nil, time.Second)
	c := l.Load(context.Background(), "")
	require.NotNil(t, c)
	assert.Equal(t, Sample().Meta.Title, c.Meta.Title)
}

func TestLoaderReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.json")
	require.NoError(t, os.WriteFile(path, []byte(keyedDocument), 0644))

	c := NewLoader(nil, time.Second).Load(context.Background(), path)
	require.NotNil(t, c)
	assert.Equal(t, "Keyed", c.Meta.Title)
}

func TestLoaderMissingFileReturnsNil(t *testing.T) {
	l := NewLoader(nil, time.Second)
	assert.Nil(t, l.Load(context.Background(), "/nonexistent/archive.json"))

	_, err := l.LoadErr(context.Background(), "/nonexistent/archive.json")
	var fetchErr *DataFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "read", fetchErr.Op)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(keyedDocument))
	})
	mux.HandleFunc("/broken.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"phases": [`))
	})
	mux.HandleFunc("/missing.json", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	l := NewLoader(nil, 2*time.Second)
	ctx := context.Background()

	c := l.Fetch(ctx, srv.URL+"/ok.json")
	require.NotNil(t, c)
	assert.Equal(t, 2, c.TotalEntries())

	assert.Nil(t, l.Fetch(ctx, srv.URL+"/broken.json"))
	assert.Nil(t, l.Fetch(ctx, srv.URL+"/missing.json"))
	assert.Nil(t, l.Load(ctx, srv.URL+"/missing.json"))

	_, err := l.LoadErr(ctx, srv.URL+"/missing.json")
	var fetchErr *DataFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "fetch", fetchErr.Op)
	assert.Contains(t, err.Error(), "404")

	_, err = l.LoadErr(ctx, srv.URL+"/broken.json")
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "decode", fetchErr.Op)
}

func TestFetchHonorsCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(keyedDocument))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Nil(t, NewLoader(nil, time.Second).Fetch(ctx, srv.URL))
}

func TestSampleValidates(t *testing.T) {
	require.NoError(t, Sample().Validate())
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	const doc = `{"phases": []} {"garbage": true`

	_, err := Decode(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing data")

	// Trailing whitespace is not data.
	c, err := Decode(strings.NewReader("{\"phases\": []}\n\n"))
	require.NoError(t, err)
	assert.Zero(t, c.TotalEntries())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(doc))
	}))
	defer srv.Close()

	l := NewLoader(nil, 2*time.Second)
	ctx := context.Background()
	assert.Nil(t, l.Fetch(ctx, srv.URL+"/archive.json"))

	path := filepath.Join(t.TempDir(), "archive.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	assert.Nil(t, l.Load(ctx, path))

	_, err = l.LoadErr(ctx, path)
	var fetchErr *DataFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "decode", fetchErr.Op)
}
