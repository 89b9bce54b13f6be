package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/miretskiy/schedsim/export"
	"github.com/miretskiy/schedsim/simulator"
	"github.com/miretskiy/schedsim/workload"
)

// runRequest is the body of the compare and export endpoints.
type runRequest struct {
	Processes []simulator.ProcessSpec `json:"processes"`
	Config    *simulator.SimConfig    `json:"config,omitempty"`
}

func (req *runRequest) config() (simulator.SimConfig, error) {
	cfg := simulator.DefaultConfig()
	if req.Config != nil {
		cfg = *req.Config
		if cfg.SpeedMs == 0 {
			cfg.SpeedMs = simulator.DefaultConfig().SpeedMs
		}
	}
	return cfg, cfg.Validate()
}

func decodeRunRequest(r *http.Request) (*runRequest, simulator.SimConfig, error) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, simulator.SimConfig{}, fmt.Errorf("parse request: %w", err)
	}
	if err := workload.Validate(req.Processes); err != nil {
		return nil, simulator.SimConfig{}, err
	}
	cfg, err := req.config()
	if err != nil {
		return nil, cfg, err
	}
	return &req, cfg, nil
}

func (s *server) handleCompare(w http.ResponseWriter, r *http.Request) {
	req, cfg, err := decodeRunRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	results, err := simulator.RunAll(req.Processes, cfg.Options())
	if errors.Is(err, simulator.ErrNoProcesses) {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err)
		return
	}
	promMetrics.comparisons.Inc()
	failed := simulator.Failed(results)
	for _, r := range failed {
		s.logger.Warn("comparison policy failed", "policy", r.Policy, "timeout", r.IsTimeout(), "error", r.Err)
	}
	s.logger.Info("comparison run", "processes", len(req.Processes), "failed", len(failed))
	respondJSON(w, http.StatusOK, results)
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	req, cfg, err := decodeRunRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Processes) == 0 {
		respondError(w, http.StatusBadRequest, simulator.ErrNoProcesses)
		return
	}

	final, err := simulator.RunHeadless(req.Processes, cfg.Policy, cfg.Options())
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="cpu-scheduling-metrics.%s"`, format))
	if err := export.Write(w, format, final); err != nil {
		s.logger.Error("writing export", "error", err)
	}
}

func (s *server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusNotFound, errors.New("run history is disabled"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, runs)
}

func (s *server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusNotFound, errors.New("run history is disabled"))
		return
	}
	id := chi.URLParam(r, "id")
	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	if run == nil {
		respondError(w, http.StatusNotFound, fmt.Errorf("run %s not found", id))
		return
	}
	respondJSON(w, http.StatusOK, run)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
