package usecase

import (
	"context"
	"strings"
	"time"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

const (
	DefaultLeadsPageSize = 20
	MaxLeadsPageSize     = 100
)

type CreateLeadUseCase struct {
	listings port.ListingReaderPort
	leads    port.LeadRepositoryPort
	now      func() time.Time
}

func NewCreateLeadUseCase(listings port.ListingReaderPort, leads port.LeadRepositoryPort) *CreateLeadUseCase {
	return &CreateLeadUseCase{listings: listings, leads: leads, now: time.Now}
}

// Execute сохраняет заявку со статусом new. Если указано объявление, оно должно существовать.
func (uc *CreateLeadUseCase) Execute(ctx context.Context, lead domain.Lead) (*domain.Lead, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "CreateLead"})
	ucLogger.Info("Use case started", nil)

	lead.Name = strings.TrimSpace(lead.Name)
	lead.Email = strings.TrimSpace(lead.Email)
	lead.Phone = strings.TrimSpace(lead.Phone)
	if err := lead.Validate(); err != nil {
		ucLogger.Warn("Invalid lead", port.Fields{"error": err.Error()})
		return nil, err
	}

	if lead.ListingID != nil {
		if _, err := uc.listings.GetByID(ctx, *lead.ListingID); err != nil {
			ucLogger.Warn("Lead references unavailable listing", port.Fields{"listing_id": *lead.ListingID})
			return nil, err
		}
	}

	now := uc.now().UTC()
	lead.Status = domain.LeadNew
	lead.CreatedAt = now
	lead.UpdatedAt = now

	id, err := uc.leads.Create(ctx, lead)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}
	lead.ID = id

	ucLogger.Info("Use case finished successfully", port.Fields{"lead_id": id})
	return &lead, nil
}

type ListLeadsUseCase struct {
	leads port.LeadRepositoryPort
}

func NewListLeadsUseCase(leads port.LeadRepositoryPort) *ListLeadsUseCase {
	return &ListLeadsUseCase{leads: leads}
}

func (uc *ListLeadsUseCase) Execute(ctx context.Context, filter domain.LeadFilter) (*domain.PaginatedLeads, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "ListLeads", "status": filter.Status})
	ucLogger.Info("Use case started", nil)

	if filter.Status != "" {
		status, err := domain.ParseLeadStatus(string(filter.Status))
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = DefaultLeadsPageSize
	}
	if filter.PageSize > MaxLeadsPageSize {
		filter.PageSize = MaxLeadsPageSize
	}

	result, err := uc.leads.List(ctx, filter)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}
	if result.Leads == nil {
		result.Leads = []domain.Lead{}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"found": len(result.Leads), "total": result.Total})
	return result, nil
}

type UpdateLeadStatusUseCase struct {
	leads port.LeadRepositoryPort
}

func NewUpdateLeadStatusUseCase(leads port.LeadRepositoryPort) *UpdateLeadStatusUseCase {
	return &UpdateLeadStatusUseCase{leads: leads}
}

func (uc *UpdateLeadStatusUseCase) Execute(ctx context.Context, id int64, status domain.LeadStatus) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "UpdateLeadStatus", "lead_id": id, "status": status})
	ucLogger.Info("Use case started", nil)

	parsed, err := domain.ParseLeadStatus(string(status))
	if err != nil {
		ucLogger.Warn("Invalid lead status", nil)
		return err
	}
	if err := uc.leads.UpdateStatus(ctx, id, parsed); err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}

type DeleteLeadUseCase struct {
	leads port.LeadRepositoryPort
}

func NewDeleteLeadUseCase(leads port.LeadRepositoryPort) *DeleteLeadUseCase {
	return &DeleteLeadUseCase{leads: leads}
}

func (uc *DeleteLeadUseCase) Execute(ctx context.Context, id int64) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "DeleteLead", "lead_id": id})
	ucLogger.Info("Use case started", nil)

	if err := uc.leads.Delete(ctx, id); err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
