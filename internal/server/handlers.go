package server

import (
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/variant-studio/internal/pipeline"
	"github.com/jonathan/variant-studio/internal/types"
)

// handleGenerate generates variants from a structured brief
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	result, err := s.service.Generate(r.Context(), req, nil)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, s.generateResponse(result))
}

func (s *Server) generateResponse(result types.GenerationResult) types.GenerateResponse {
	resp := types.GenerateResponse{
		RequestID:   result.RequestID,
		Variants:    result.Variants,
		AIAvailable: result.AIAvailable,
		CSVURL:      result.CSVURL,
		ShareURL:    result.ShareURL,
		Version:     s.version,
	}
	if result.ABPlan != nil {
		resp.ABPlan = *result.ABPlan
	}
	return resp
}

// handleVariants generates variants for every channel from free text
func (s *Server) handleVariants(w http.ResponseWriter, r *http.Request) {
	var req types.TextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	result, err := s.service.GenerateFromText(r.Context(), req, nil)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, s.textResponse(result))
}

func (s *Server) textResponse(result types.GenerationResult) types.TextResponse {
	return types.TextResponse{
		RequestID: result.RequestID,
		Variants:  result.Variants,
		CSVURL:    result.CSVURL,
		ShareURL:  result.ShareURL,
		Version:   s.version,
		Mock:      !s.service.AIEnabled(),
	}
}

// handleVariantsStream runs text generation and streams every stage as an SSE event
func (s *Server) handleVariantsStream(w http.ResponseWriter, r *http.Request) {
	var req types.TextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	var requestID string
	onProgress := func(event pipeline.ProgressEvent) {
		requestID = event.RequestID
		// The final result is sent once, as the result event.
		event.Content = nil
		if err := sse.WriteEvent("stage", event); err != nil {
			s.logger.Debug("client stopped reading stream", zap.Error(err))
		}
	}

	result, err := s.service.GenerateFromText(r.Context(), req, onProgress)
	if err != nil {
		if HTTPStatus(err) >= http.StatusInternalServerError {
			s.logger.Error("stream failed", zap.String("request_id", requestID), zap.Error(err))
		}
		sse.WriteError(publicError(err))
		sse.WriteComplete(requestID, "failed")
		return
	}

	sse.WriteEvent("result", s.textResponse(result)) //nolint:errcheck
	sse.WriteComplete(result.RequestID, "completed")
}

// handlePolish refines already generated variants
func (s *Server) handlePolish(w http.ResponseWriter, r *http.Request) {
	var req types.PolishRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	resp, err := s.service.Polish(r.Context(), req)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleExport writes submitted variants to a CSV file
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req types.ExportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	resp, err := s.service.Export(r.Context(), req)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleChannels lists the channel and goal vocabulary
func (s *Server) handleChannels(w http.ResponseWriter, _ *http.Request) {
	c := s.service.Catalog()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"channels":    c.All(),
		"goals":       c.Goals(),
		"defaultGoal": c.DefaultGoal(),
	})
}

// handleLookup returns a stored generation result
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Lookup(r.Context(), r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleExportFile serves a written CSV as a download
func (s *Server) handleExportFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("file")
	if s.exportDir == "" || name != filepath.Base(name) || !strings.HasSuffix(name, ".csv") {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	http.ServeFile(w, r, filepath.Join(s.exportDir, name))
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"ok":      true,
		"version": s.version,
		"mock":    !s.service.AIEnabled(),
		"model":   s.model,
	})
}

// handleAPIHealth returns health status merged with the diagnostic counters
func (s *Server) handleAPIHealth(w http.ResponseWriter, _ *http.Request) {
	snap := s.service.Diagnostics().Snapshot()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"version":     s.version,
		"aiAvailable": s.service.AIAvailable(),
		"gen":         snap.Gen,
		"genFail":     snap.GenFail,
		"polish":      snap.Polish,
		"polishFail":  snap.PolishFail,
		"export":      snap.Export,
		"exportFail":  snap.ExportFail,
		"llm":         snap.LLM,
	})
}

// handleDiag returns the diagnostic counters
func (s *Server) handleDiag(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.service.Diagnostics().Snapshot())
}
