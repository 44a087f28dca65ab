package cli

import (
	"context"
	"encoding/json"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/badman-archive/internal/render"
	"github.com/runnerr0/badman-archive/internal/viewstate"
)

func TestWelcome_ShowsOverlayThenDismisses(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	output := captureOutput(t, func() {
		cmd := &WelcomeCommand{globals: &GlobalFlags{}}
		require.NoError(t, cmd.executeWith(ctx, e))
	})
	assert.Contains(t, output, "Welcome to Badman Evolution: Interactive Digital Archive")
	assert.Contains(t, output, "3 figures • 5 phases • 65% complete")
	assert.Equal(t, viewstate.Showing, e.svc.State().Welcome())

	output = captureOutput(t, func() {
		cmd := &WelcomeCommand{Dismiss: true, globals: &GlobalFlags{}}
		require.NoError(t, cmd.executeWith(ctx, e))
	})
	assert.Contains(t, output, "Welcome dismissed.")

	v, ok, err := e.store.GetState(ctx, viewstate.VisitedKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestWelcome_DismissWithoutDatabaseSaysNotPersisted(t *testing.T) {
	e := newMemoryEnv(t)
	output := captureOutput(t, func() {
		cmd := &WelcomeCommand{Dismiss: true, globals: &GlobalFlags{}}
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})
	assert.Equal(t, "Welcome dismissed (not persisted).", strings.TrimSpace(output))
}

func TestWelcome_JSON(t *testing.T) {
	e := newMemoryEnv(t)
	output := captureOutput(t, func() {
		cmd := &WelcomeCommand{globals: &GlobalFlags{JSON: true}}
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})

	var out welcomeJSON
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.Equal(t, viewstate.Showing, out.Welcome)
	assert.False(t, out.HasSeenWelcome)
	assert.Equal(t, 3, out.Stats.Figures)
	assert.Equal(t, 5, out.Stats.Phases)
	assert.Equal(t, 65, out.Stats.Progress)
}

func TestList_FiltersAndSetsActiveFilter(t *testing.T) {
	e := newTestEnv(t)

	output := captureOutput(t, func() {
		cmd := &ListCommand{Phase: "folklore", globals: &GlobalFlags{}}
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})
	assert.Contains(t, output, "stag-001")
	assert.Contains(t, output, "railroad-bill-001")
	assert.NotContains(t, output, "shaft-001")
	assert.Contains(t, output, "2 of 3 entries")
	assert.Equal(t, "folklore", e.svc.State().ActiveFilter())
}

func TestList_AllInStoreOrderJSON(t *testing.T) {
	e := newTestEnv(t)

	output := captureOutput(t, func() {
		cmd := &ListCommand{Phase: "all", globals: &GlobalFlags{JSON: true}}
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})

	var out listJSON
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.Equal(t, "all", out.Filter)
	require.Equal(t, 3, out.Count)

	ids := make([]string, len(out.Entries))
	for i, en := range out.Entries {
		ids[i] = en.ID
	}
	assert.Equal(t, []string{"stag-001", "railroad-bill-001", "shaft-001"}, ids)
	assert.Equal(t, "Film", out.Entries[2].Label)
	assert.Equal(t, "#3388ff", out.Entries[2].Color)
}

func TestList_UnknownPhase(t *testing.T) {
	e := newTestEnv(t)

	output := captureOutput(t, func() {
		cmd := &ListCommand{Phase: "nonexistent", globals: &GlobalFlags{}}
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})
	assert.Contains(t, output, `No entries for phase "nonexistent".`)
}

func TestCount(t *testing.T) {
	e := newTestEnv(t)
	output := captureOutput(t, func() {
		cmd := &CountCommand{globals: &GlobalFlags{}}
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})
	assert.Equal(t, "3", strings.TrimSpace(output))
}

func TestShow_ResolvesCitations(t *testing.T) {
	e := newTestEnv(t)

	output := captureOutput(t, func() {
		cmd := &ShowCommand{ID: "stag-001", Format: "plain", globals: &GlobalFlags{}}
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})
	assert.Contains(t, output, "Stagolee")
	assert.Contains(t, output, "Type:      Folk-ballad")
	assert.Contains(t, output, "Modality:  folk_hero_outlaw (#d4af37)")
	assert.Contains(t, output, "[1] Roberts, From Trickster to Badman, pp. 171-215")
	assert.Contains(t, output, "[2] Levine, Black Culture and Black Consciousness, pp. 407-420")
}

func TestShow_MissingCitationFallsBack(t *testing.T) {
	e := newTestEnv(t)

	output := captureOutput(t, func() {
		cmd := &ShowCommand{ID: "shaft-001", globals: &GlobalFlags{JSON: true}}
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})

	var out showJSON
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.Equal(t, "detective", out.Phase)
	require.Len(t, out.Citations, 1)
	assert.Equal(t, 4, out.Citations[0].Key)
	assert.False(t, out.Citations[0].Found)
	assert.Equal(t, render.NoCitation, out.Citations[0].Text)
}

func TestShow_UnknownEntry(t *testing.T) {
	e := newTestEnv(t)
	cmd := &ShowCommand{ID: "nobody-001", globals: &GlobalFlags{}}
	err := cmd.executeWith(context.Background(), e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry nobody-001 not found")
}

func TestShow_BadFormat(t *testing.T) {
	e := newTestEnv(t)
	cmd := &ShowCommand{ID: "stag-001", Format: "rtf", globals: &GlobalFlags{}}
	assert.Error(t, cmd.executeWith(context.Background(), e))
}

func TestCite(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	output := captureOutput(t, func() {
		cmd := &CiteCommand{Key: "1", globals: &GlobalFlags{}}
		require.NoError(t, cmd.executeWith(ctx, e))
	})
	// markdown is the configured default
	assert.Equal(t, "Roberts, *From Trickster to Badman*, pp. 171-215", strings.TrimSpace(output))

	output = captureOutput(t, func() {
		cmd := &CiteCommand{Key: "2", Full: true, Format: "html", globals: &GlobalFlags{}}
		require.NoError(t, cmd.executeWith(ctx, e))
	})
	assert.Contains(t, output, "Levine, Lawrence W. <em>Black Culture and Black Consciousness")

	output = captureOutput(t, func() {
		cmd := &CiteCommand{Key: "999", globals: &GlobalFlags{}}
		require.NoError(t, cmd.executeWith(ctx, e))
	})
	assert.Equal(t, render.NoCitation, strings.TrimSpace(output))

	cmd := &CiteCommand{Key: "one", globals: &GlobalFlags{}}
	err := cmd.executeWith(ctx, e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be an integer")
}

const fullScoreJSON = `{
  "outlaw_relationship": {"score": 5},
  "community_authorization": {"score": 4},
  "violence_as_language": {"score": 3},
  "cultural_preservation": {"score": 2},
  "hypermasculine_performance": {"score": 1}
}`

func TestScore_JSONFile(t *testing.T) {
	path := writeFile(t, "score.json", fullScoreJSON)

	output := captureOutput(t, func() {
		cmd := &ScoreCommand{File: path, globals: &GlobalFlags{}}
		require.NoError(t, cmd.run())
	})
	assert.Contains(t, output, "Badman score: 15/25")
}

func TestScore_YAMLFile(t *testing.T) {
	path := writeFile(t, "score.yaml", `
outlaw_relationship: {score: 5}
community_authorization: {score: 5}
violence_as_language: {score: 5}
cultural_preservation: {score: 5}
hypermasculine_performance: {score: 7}
`)

	output := captureOutput(t, func() {
		cmd := &ScoreCommand{File: path, globals: &GlobalFlags{JSON: true}}
		require.NoError(t, cmd.run())
	})

	var out scoreJSON
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.Equal(t, 27, out.Total)
	assert.Equal(t, []string{"hypermasculine_performance"}, out.OutOfRange)
}

func TestScore_StdinMissingCriterion(t *testing.T) {
	cmd := &ScoreCommand{
		File:    "-",
		globals: &GlobalFlags{},
		stdin: strings.NewReader(`{
		  "outlaw_relationship": {"score": 5},
		  "community_authorization": {"score": 4},
		  "violence_as_language": {"score": 3},
		  "hypermasculine_performance": {"score": 1}
		}`),
	}
	err := cmd.run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cultural_preservation")
}

func TestScore_InvalidJSON(t *testing.T) {
	cmd := &ScoreCommand{File: "-", globals: &GlobalFlags{}, stdin: strings.NewReader("{")}
	err := cmd.run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode score record")
}

func TestColorAndLabel(t *testing.T) {
	output := captureOutput(t, func() {
		require.NoError(t, (&ColorCommand{Modality: "revolutionary", globals: &GlobalFlags{}}).Execute(nil))
		require.NoError(t, (&ColorCommand{Modality: "unknown_tag", globals: &GlobalFlags{}}).Execute(nil))
		require.NoError(t, (&LabelCommand{Type: "folk-hero", globals: &GlobalFlags{}}).Execute(nil))
		require.NoError(t, (&LabelCommand{Type: "film", Meta: true, globals: &GlobalFlags{}}).Execute(nil))
	})

	lines := strings.Split(strings.TrimSpace(output), "\n")
	assert.Equal(t, []string{"#dc3545", "#6c757d", "Folk-hero", "Meta-Badman"}, lines)
}

func TestReset_RequiresConfirmation(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, e.svc.MarkWelcomeSeen(ctx))

	cmd := &ResetCommand{globals: &GlobalFlags{}, stdin: strings.NewReader("nope\n")}
	var err error
	captureOutput(t, func() {
		err = cmd.executeWith(ctx, e)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confirmation text did not match")

	_, ok, getErr := e.store.GetState(ctx, viewstate.VisitedKey)
	require.NoError(t, getErr)
	assert.True(t, ok)
}

func TestReset_ClearsFlagAndAudits(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, e.svc.MarkWelcomeSeen(ctx))

	output := captureOutput(t, func() {
		cmd := &ResetCommand{globals: &GlobalFlags{}, stdin: strings.NewReader("RESET\n")}
		require.NoError(t, cmd.executeWith(ctx, e))
	})
	assert.Contains(t, output, "Welcome flag cleared.")

	_, ok, err := e.store.GetState(ctx, viewstate.VisitedKey)
	require.NoError(t, err)
	assert.False(t, ok)

	entries, err := e.store.RecentAudit(ctx, 5)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "welcome_reset", entries[0].Action)

	state, err := viewstate.Load(ctx, e.store)
	require.NoError(t, err)
	assert.Equal(t, viewstate.NotShown, state.Welcome())
}

func TestReset_ForceWithoutDatabaseFails(t *testing.T) {
	e := newMemoryEnv(t)
	cmd := &ResetCommand{Force: true, globals: &GlobalFlags{}}
	err := cmd.executeWith(context.Background(), e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state database unavailable")
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestServe_StopsOnCancel(t *testing.T) {
	e := newTestEnv(t)
	port := freePort(t)
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	cmd := &ServeCommand{Port: port, globals: &GlobalFlags{}, version: "test"}
	go func() { done <- cmd.executeWith(ctx, e) }()

	require.Eventually(t, func() bool { return checkServer(addr) }, 3*time.Second, 25*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestServe_WatchingOnlyLocalFiles(t *testing.T) {
	e := newMemoryEnv(t)
	cmd := &ServeCommand{}

	assert.False(t, cmd.watching(e), "built-in sample")

	e.source = "https://example.org/archive.json"
	assert.False(t, cmd.watching(e))

	e.source = "/srv/archive.json"
	assert.True(t, cmd.watching(e))

	cmd.NoWatch = true
	assert.False(t, cmd.watching(e))
}
