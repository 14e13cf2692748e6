package service

import (
	"context"
	"errors"

	"github.com/Caltsic/AIourstory-sub001/internal/domain"
	"github.com/Caltsic/AIourstory-sub001/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportService struct {
	reports repository.ReportRepository
	plaza   *PlazaService
}

func NewReportService(reports repository.ReportRepository, plaza *PlazaService) *ReportService {
	return &ReportService{reports: reports, plaza: plaza}
}

type FileReportInput struct {
	TargetKind domain.SubmissionKind
	TargetID   uuid.UUID
	ReasonType string
	ReasonText string
}

// File creates a report; the (reporter, target) unique index turns a
// duplicate into ErrDuplicateReport rather than a silent success.
func (s *ReportService) File(ctx context.Context, reporterID uuid.UUID, input FileReportInput) (*domain.ContentReport, error) {
	if err := s.plaza.exists(ctx, input.TargetKind, input.TargetID); err != nil {
		return nil, err
	}

	report := &domain.ContentReport{
		ID:         uuid.New(),
		ReporterID: reporterID,
		TargetKind: input.TargetKind,
		TargetID:   input.TargetID,
		ReasonType: input.ReasonType,
		ReasonText: input.ReasonText,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateReport
		}
		return nil, err
	}
	return report, nil
}
