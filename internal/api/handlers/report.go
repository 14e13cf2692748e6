package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Caltsic/AIourstory-sub001/internal/api/middleware"
	"github.com/Caltsic/AIourstory-sub001/internal/service"
	"github.com/google/uuid"
)

type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

type CreateReportRequest struct {
	TargetType string `json:"targetType"`
	TargetUUID string `json:"targetUuid"`
	ReasonType string `json:"reasonType"`
	ReasonText string `json:"reasonText"`
}

type CreateReportResponse struct {
	Success bool   `json:"success"`
	UUID    string `json:"uuid"`
}

func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind, validKind := kindFromParam(req.TargetType)
	if !validKind || req.ReasonType == "" {
		writeError(w, http.StatusBadRequest, "targetType and reasonType are required")
		return
	}

	targetID, err := uuid.Parse(req.TargetUUID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid targetUuid")
		return
	}

	report, err := h.reports.File(r.Context(), identity.UserID, service.FileReportInput{
		TargetKind: kind,
		TargetID:   targetID,
		ReasonType: req.ReasonType,
		ReasonText: req.ReasonText,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreateReportResponse{Success: true, UUID: report.ID.String()})
}
