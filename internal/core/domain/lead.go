package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// LeadStatus - статус обращения
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadAnswered  LeadStatus = "answered"
	LeadDiscarded LeadStatus = "discarded"
)

var AllLeadStatuses = []LeadStatus{LeadNew, LeadAnswered, LeadDiscarded}

// ParseLeadStatus проверяет статус обращения
func ParseLeadStatus(s string) (LeadStatus, error) {
	switch status := LeadStatus(strings.ToLower(strings.TrimSpace(s))); status {
	case LeadNew, LeadAnswered, LeadDiscarded:
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLeadStatus, s)
}

// Lead - заявка из формы обратной связи
type Lead struct {
	ID        int64
	ListingID *int64
	Name      string
	Email     string
	Phone     string
	Message   string
	Status    LeadStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет поля формы
func (l Lead) Validate() error {
	if strings.TrimSpace(l.Name) == "" || len(l.Name) > 100 {
		return fmt.Errorf("%w: name must be 1..100 characters", ErrInvalidLead)
	}
	if _, err := mail.ParseAddress(l.Email); err != nil {
		return fmt.Errorf("%w: invalid email", ErrInvalidLead)
	}
	if len(strings.TrimSpace(l.Phone)) < 6 || len(l.Phone) > 20 {
		return fmt.Errorf("%w: phone must be 6..20 characters", ErrInvalidLead)
	}
	return nil
}

// LeadFilter - выборка заявок для админки
type LeadFilter struct {
	Status   LeadStatus
	Page     int
	PageSize int
}

// PaginatedLeads - страница заявок
type PaginatedLeads struct {
	Leads      []Lead
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}
