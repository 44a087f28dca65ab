package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/runnerr0/badman-archive/internal/archive"
	"github.com/runnerr0/badman-archive/internal/render"
	"github.com/runnerr0/badman-archive/internal/viewstate"
)

type entryView struct {
	archive.PhaseEntry
	Label string `json:"label"`
	Color string `json:"color"`
	Score *int   `json:"score,omitempty"`
}

type citationView struct {
	Key   int    `json:"key"`
	Found bool   `json:"found"`
	Text  string `json:"text"`
	Full  string `json:"full,omitempty"`
}

type entriesResponse struct {
	Filter  string      `json:"filter"`
	Count   int         `json:"count"`
	Entries []entryView `json:"entries"`
}

type viewResponse struct {
	viewstate.Snapshot
	Stats archive.WelcomeStats `json:"stats"`
}

func (s *Server) viewEntry(pe archive.PhaseEntry) entryView {
	v := entryView{
		PhaseEntry: pe,
		Label:      s.svc.FormatFigureType(pe.Entry.Type, pe.Entry.MetaBadman),
		Color:      s.svc.ResolveModalityColor(pe.Entry.Modality),
	}
	if pe.Entry.Scores != nil {
		if total, err := s.svc.ComputeBadmanScore(*pe.Entry.Scores); err == nil {
			v.Score = &total
		}
	}
	return v
}

func (s *Server) viewCitation(key int, f render.Format) citationView {
	c, ok := s.svc.LookupCitation(key)
	v := citationView{Key: key, Found: ok, Text: s.renderer.Citation(c, ok, f, false)}
	if ok {
		v.Full = s.renderer.Citation(c, ok, f, true)
	}
	return v
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"entries": s.svc.TotalEntryCount(),
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleMeta(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Meta())
}

func (s *Server) handlePhases(w http.ResponseWriter, _ *http.Request) {
	phases := s.svc.Phases()
	if phases == nil {
		phases = []archive.Phase{}
	}
	writeJSON(w, http.StatusOK, phases)
}

func (s *Server) handleCount(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"count": s.svc.TotalEntryCount()})
}

// handleEntries uses the phase query parameter when given, the active
// filter otherwise.
func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("phase")
	if filter == "" {
		filter = s.svc.State().ActiveFilter()
	}

	matched := s.svc.FilterEntriesByPhase(filter)
	out := entriesResponse{Filter: filter, Count: len(matched), Entries: make([]entryView, len(matched))}
	for i, pe := range matched {
		out.Entries[i] = s.viewEntry(pe)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f, err := formatParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	pe, ok := s.svc.Entry(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("entry %s not found", id))
		return
	}

	citations := make([]citationView, len(pe.Entry.Citations))
	for i, key := range pe.Entry.Citations {
		citations[i] = s.viewCitation(key, f)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entry":     s.viewEntry(pe),
		"citations": citations,
	})
}

func (s *Server) handleCitation(w http.ResponseWriter, r *http.Request) {
	key, err := strconv.Atoi(chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("citation key must be an integer"))
		return
	}
	f, err := formatParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	v := s.viewCitation(key, f)
	code := http.StatusOK
	if !v.Found {
		code = http.StatusNotFound
	}
	writeJSON(w, code, v)
}

func (s *Server) handleModalityColor(w http.ResponseWriter, r *http.Request) {
	modality := chi.URLParam(r, "modality")
	writeJSON(w, http.StatusOK, map[string]string{
		"modality": modality,
		"color":    s.svc.ResolveModalityColor(modality),
	})
}

func (s *Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	figureType := r.URL.Query().Get("type")
	writeJSON(w, http.StatusOK, map[string]string{
		"type":  figureType,
		"label": s.svc.FormatFigureType(figureType, queryBool(r, "meta")),
	})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var rec archive.ScoreRecord
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode score record: %w", err))
		return
	}

	total, err := s.svc.ComputeBadmanScore(rec)
	if err != nil {
		var missing *archive.MissingCriterionError
		if errors.As(err, &missing) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error":     err.Error(),
				"criterion": missing.Criterion,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := map[string]any{"total": total, "max": archive.MaxBadmanScore}
	if out := rec.OutOfRange(); len(out) > 0 {
		resp["out_of_range"] = out
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) viewResponse() viewResponse {
	return viewResponse{Snapshot: s.svc.State().Snapshot(), Stats: s.svc.WelcomeStats()}
}

func (s *Server) handleView(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.viewResponse())
}

func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filter string `json:"filter"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode filter: %w", err))
		return
	}
	if req.Filter == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("filter is required"))
		return
	}

	s.svc.SetActiveFilter(req.Filter)
	writeJSON(w, http.StatusOK, s.viewResponse())
}

func (s *Server) handleWelcomeStart(w http.ResponseWriter, _ *http.Request) {
	s.svc.State().Start()
	writeJSON(w, http.StatusOK, s.viewResponse())
}

func (s *Server) handleWelcomeDismiss(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.MarkWelcomeSeen(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, s.viewResponse())
}

func (s *Server) handleParticles(w http.ResponseWriter, _ *http.Request) {
	if s.particles == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("particles disabled"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stats":     s.particles.Stats(),
		"particles": s.particles.Live(),
	})
}
