package rest

import (
	"net/http"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	usecases_port "listing-service/internal/core/port/usecases_port"
)

type LeadHandler struct {
	createUC       usecases_port.CreateLeadUseCase
	listUC         usecases_port.ListLeadsUseCase
	updateStatusUC usecases_port.UpdateLeadStatusUseCase
	deleteUC       usecases_port.DeleteLeadUseCase
}

func NewLeadHandler(
	createUC usecases_port.CreateLeadUseCase,
	listUC usecases_port.ListLeadsUseCase,
	updateStatusUC usecases_port.UpdateLeadStatusUseCase,
	deleteUC usecases_port.DeleteLeadUseCase,
) *LeadHandler {
	return &LeadHandler{
		createUC:       createUC,
		listUC:         listUC,
		updateStatusUC: updateStatusUC,
		deleteUC:       deleteUC,
	}
}

// maxLeadsPageSize - предел страницы заявок в админке
const maxLeadsPageSize = 100

// CreateLead обрабатывает POST /api/v1/leads
func (h *LeadHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateLead"})

	var req CreateLeadRequest
	if err := decodeJSONBody(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	lead, err := h.createUC.Execute(r.Context(), domain.Lead{
		ListingID: req.ListingID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
	})
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to create lead")
		return
	}

	RespondWithJSON(w, http.StatusCreated, toLeadResponse(*lead))
}

// ListLeads обрабатывает GET /api/v1/admin/leads
func (h *LeadHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListLeads"})
	query := r.URL.Query()

	var filter domain.LeadFilter
	if raw := parseOptionalString(query, "status"); raw != "" {
		status, err := domain.ParseLeadStatus(raw)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Status = status
	}
	page, pageSize, err := parsePagination(query, 20, maxLeadsPageSize)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.Page = page
	filter.PageSize = pageSize

	result, err := h.listUC.Execute(r.Context(), filter)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to retrieve leads")
		return
	}

	RespondWithJSON(w, http.StatusOK, toPaginatedLeadsResponse(result))
}

// UpdateLeadStatus обрабатывает PATCH /api/v1/admin/leads/{leadID}
func (h *LeadHandler) UpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateLeadStatus"})

	id, err := parseIDParam(r, "leadID")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req UpdateLeadStatusRequest
	if err := decodeJSONBody(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.updateStatusUC.Execute(r.Context(), id, domain.LeadStatus(req.Status)); err != nil {
		writeUseCaseError(w, logger, err, "Failed to update lead status")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteLead обрабатывает DELETE /api/v1/admin/leads/{leadID}
func (h *LeadHandler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "DeleteLead"})

	id, err := parseIDParam(r, "leadID")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.deleteUC.Execute(r.Context(), id); err != nil {
		writeUseCaseError(w, logger, err, "Failed to delete lead")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
