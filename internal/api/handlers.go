package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.predictor.CheckReadiness(ctx); err != nil {
		respond(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleListRegions(w http.ResponseWriter, _ *http.Request) {
	regions := s.predictor.Regions()
	respond(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(regions),
		"regions": regions,
	})
}

func (s *Server) handleGetRegion(w http.ResponseWriter, r *http.Request) {
	region, err := s.predictor.Region(chi.URLParam(r, "regionID"))
	if err != nil {
		s.respondLookupErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"success": true,
		"region":  region,
	})
}

type predictRequest struct {
	RegionID string `json:"region_id"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if !decode(w, r, &req) {
		return
	}
	if req.RegionID == "" {
		respondErr(w, http.StatusBadRequest, "region_id is required")
		return
	}

	pred, err := s.predictor.PredictRegion(r.Context(), req.RegionID)
	if err != nil {
		s.respondLookupErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"success":    true,
		"prediction": pred,
	})
}

func (s *Server) handleExplainCell(w http.ResponseWriter, r *http.Request) {
	regionID := chi.URLParam(r, "regionID")
	cellID := chi.URLParam(r, "cellID")

	ce, err := s.predictor.ExplainCell(r.Context(), regionID, cellID)
	if err != nil {
		s.respondLookupErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"success": true,
		"cell":    ce,
	})
}

// respondLookupErr maps unknown-region and unknown-cell errors to 404 and
// everything else to 500.
func (s *Server) respondLookupErr(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrUnknownRegion) || errors.Is(err, domain.ErrUnknownCell) {
		respondErr(w, http.StatusNotFound, err.Error())
		return
	}
	s.logger.Error("request failed", "error", err, "path", r.URL.Path)
	respondErr(w, http.StatusInternalServerError, "internal server error")
}

// respond writes a JSON body with the given status code.
func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// respondErr writes the standard JSON error envelope.
func respondErr(w http.ResponseWriter, status int, message string) {
	respond(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

// decode JSON-decodes r.Body into dst. Returns false and writes 400 if the
// body is missing, malformed, or too large.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
