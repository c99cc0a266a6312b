package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/limaJavier/invigilation/pkg/editor"
	"github.com/limaJavier/invigilation/pkg/export"
	"github.com/limaJavier/invigilation/pkg/model"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const maxBodyBytes = 32 << 20

type apiResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type allocationResponse struct {
	RunId  string                 `json:"runId"`
	Result model.AssignmentResult `json:"result"`
}

type addRequest struct {
	Assignment  model.Assignment   `json:"assignment"`
	Assignments []model.Assignment `json:"assignments"`
	Slot        model.DutySlot     `json:"slot"`
	Faculty     []model.Faculty    `json:"faculty"`
}

type updateRequest struct {
	Old         model.Assignment   `json:"old"`
	New         model.Assignment   `json:"new"`
	Assignments []model.Assignment `json:"assignments"`
	Slot        model.DutySlot     `json:"slot"`
	Faculty     []model.Faculty    `json:"faculty"`
}

type swapRequest struct {
	A           model.Assignment   `json:"a"`
	B           model.Assignment   `json:"b"`
	Assignments []model.Assignment `json:"assignments"`
}

type exportRequest struct {
	Input       model.ModelInput   `json:"input"`
	Assignments []model.Assignment `json:"assignments"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error: &apiError{
			Code:    code,
			Message: message,
		},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAllocate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	input, warnings, err := model.InputFromJsonBytes(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	runId := uuid.NewString()
	logger := s.logger.With().Str("run_id", runId).Str("request_id", middleware.GetReqID(r.Context())).Logger()

	start := time.Now()
	result, err := s.engine.Run(r.Context(), input)
	s.metrics.allocationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.metrics.allocations.WithLabelValues("cancelled").Inc()
		logger.Warn().Err(err).Msg("allocation cancelled")
		if errors.Is(err, context.DeadlineExceeded) {
			respondError(w, http.StatusGatewayTimeout, "timeout", "allocation did not finish in time")
		} else {
			respondError(w, http.StatusServiceUnavailable, "cancelled", "allocation was cancelled")
		}
		return
	}

	switch {
	case len(result.Errors) > 0 && len(result.Assignments) == 0:
		s.metrics.allocations.WithLabelValues("malformed").Inc()
	case result.Success:
		s.metrics.allocations.WithLabelValues("success").Inc()
	default:
		s.metrics.allocations.WithLabelValues("incomplete").Inc()
	}

	result.Warnings = append(warnings, result.Warnings...)
	logger.Info().Bool("success", result.Success).Int("assignments", len(result.Assignments)).Msg("allocation served")
	respondJSON(w, http.StatusOK, allocationResponse{RunId: runId, Result: result})
}

func (s *Server) handleValidateAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result := editor.ValidateAdd(req.Assignment, req.Assignments, req.Slot, req.Faculty)
	s.metrics.observeValidation("add", result.Valid)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleValidateUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result := editor.ValidateUpdate(req.Old, req.New, req.Assignments, req.Slot, req.Faculty)
	s.metrics.observeValidation("update", result.Valid)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleValidateSwap(w http.ResponseWriter, r *http.Request) {
	var req swapRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result := editor.ValidateSwap(req.A, req.B, req.Assignments)
	s.metrics.observeValidation("swap", result.Valid)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleExportSlot(w http.ResponseWriter, r *http.Request) {
	day, dayErr := strconv.Atoi(chi.URLParam(r, "day"))
	slotIndex, slotErr := strconv.Atoi(chi.URLParam(r, "slot"))
	if dayErr != nil || slotErr != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "day and slot must be integers")
		return
	}

	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	slot, ok := req.Input.Structure.Slot(day, slotIndex)
	if !ok {
		err := fmt.Errorf("%w: %v", model.ErrSlotNotFound, model.SlotKey{Day: day, Slot: slotIndex})
		respondError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	rows := export.SlotRows(slot, req.Assignments, req.Input.Faculty)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.SlotFileName(slot.Key())))
	w.WriteHeader(http.StatusOK)
	if err := export.WriteSlotCSV(w, rows); err != nil {
		s.logger.Error().Err(err).Msg("failed to write slot export")
	}
}
