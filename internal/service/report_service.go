package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/henningcullin/service-system/internal/apperrors"
	"github.com/henningcullin/service-system/internal/events"
	"github.com/henningcullin/service-system/internal/model"
	"github.com/henningcullin/service-system/internal/permission"
	"github.com/henningcullin/service-system/internal/repository"
)

// NewReportInput carries the fields for filing a report. Type and status
// are referenced by vocabulary row id.
type NewReportInput struct {
	Title        string
	Description  string
	ReportTypeID uuid.UUID
	StatusID     uuid.UUID
	Archived     *bool
}

// UpdateReportInput carries a partial report update.
type UpdateReportInput struct {
	ID           uuid.UUID
	Title        *string
	Description  *string
	ReportTypeID *uuid.UUID
	StatusID     *uuid.UUID
	Archived     *bool
}

// ReportService handles report CRUD; every mutation publishes a change event.
type ReportService interface {
	Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Report, error)
	List(ctx context.Context, actor *model.User) ([]model.Report, error)
	Create(ctx context.Context, actor *model.User, input NewReportInput) (*model.Report, error)
	Update(ctx context.Context, actor *model.User, input UpdateReportInput) error
	Delete(ctx context.Context, actor *model.User, id uuid.UUID) error
}

type reportService struct {
	reports repository.ReportRepository
	bus     events.Publisher
}

// NewReportService creates a new report service.
func NewReportService(reports repository.ReportRepository, bus events.Publisher) ReportService {
	return &reportService{reports: reports, bus: bus}
}

func (s *reportService) Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Report, error) {
	if err := permission.Check(actor.Role.ReportView); err != nil {
		return nil, err
	}
	return s.reports.FindByID(ctx, id)
}

func (s *reportService) List(ctx context.Context, actor *model.User) ([]model.Report, error) {
	if err := permission.Check(actor.Role.ReportView); err != nil {
		return nil, err
	}
	return s.reports.List(ctx)
}

func (s *reportService) Create(ctx context.Context, actor *model.User, input NewReportInput) (*model.Report, error) {
	if err := permission.Check(actor.Role.ReportCreate); err != nil {
		return nil, err
	}

	archived := false
	if input.Archived != nil {
		archived = *input.Archived
	}

	report := &model.Report{
		Title:        input.Title,
		Description:  input.Description,
		ReportTypeID: input.ReportTypeID,
		StatusID:     input.StatusID,
		Archived:     archived,
		CreatorID:    actor.ID,
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	s.bus.Publish(ctx, events.ReportChannel, "created", report.ID)

	return s.reports.FindByID(ctx, report.ID)
}

func (s *reportService) Update(ctx context.Context, actor *model.User, input UpdateReportInput) error {
	if err := permission.Check(actor.Role.ReportEdit); err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.ReportTypeID != nil {
		fields["report_type_id"] = *input.ReportTypeID
	}
	if input.StatusID != nil {
		fields["status_id"] = *input.StatusID
	}
	if input.Archived != nil {
		fields["archived"] = *input.Archived
	}

	if len(fields) == 0 {
		return apperrors.ErrNoFieldsToUpdate
	}

	affected, err := s.reports.UpdateFields(ctx, input.ID, fields)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	if affected == 0 {
		return gorm.ErrRecordNotFound
	}

	s.bus.Publish(ctx, events.ReportChannel, "updated", input.ID)
	return nil
}

func (s *reportService) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	if err := permission.Check(actor.Role.ReportDelete); err != nil {
		return err
	}

	affected, err := s.reports.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if affected == 0 {
		return gorm.ErrRecordNotFound
	}

	s.bus.Publish(ctx, events.ReportChannel, "deleted", id)
	return nil
}
