package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/rentbook/internal/domain"
)

const dateLayout = "2006-01-02"

type propertyService interface {
	CreateProperty(ctx context.Context, address string, lease *domain.Lease) (*domain.Property, error)
	ListProperties(ctx context.Context) ([]domain.Property, error)
	GetProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	SetLease(ctx context.Context, id uuid.UUID, lease *domain.Lease) (*domain.Property, error)
	EndLease(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	DeleteProperty(ctx context.Context, id uuid.UUID) (int64, error)
}

type PropertyHandler struct {
	properties propertyService
}

func NewPropertyHandler(properties propertyService) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

type tenantBody struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
}

type leaseBody struct {
	StartDate          string           `json:"startDate"`
	EndDate            string           `json:"endDate"`
	DueDay             int              `json:"dueDay"`
	RentCents          int64            `json:"rentCents"`
	DepositCents       int64            `json:"depositCents"`
	Tenant             *tenantBody      `json:"tenant"`
	LateFeePercent     *decimal.Decimal `json:"lateFeePercent,omitempty"`
	LateFeeAmountCents int64            `json:"lateFeeAmountCents,omitempty"`
	GraceDays          int              `json:"graceDays,omitempty"`
}

// toDomain parses the dates of the body. Range checks are left to
// domain.Lease.Validate.
func (b *leaseBody) toDomain() (*domain.Lease, []FieldError) {
	var errs []FieldError
	lease := &domain.Lease{
		DueDay:             b.DueDay,
		RentCents:          b.RentCents,
		DepositCents:       b.DepositCents,
		LateFeeAmountCents: b.LateFeeAmountCents,
		GraceDays:          b.GraceDays,
	}

	start, err := time.Parse(dateLayout, b.StartDate)
	if err != nil {
		errs = append(errs, FieldError{Field: "startDate", Message: "must be a YYYY-MM-DD date"})
	}
	lease.StartDate = start

	end, err := time.Parse(dateLayout, b.EndDate)
	if err != nil {
		errs = append(errs, FieldError{Field: "endDate", Message: "must be a YYYY-MM-DD date"})
	}
	lease.EndDate = end

	if b.LateFeePercent != nil {
		lease.LateFeePercent = *b.LateFeePercent
	}
	if b.Tenant != nil {
		lease.Tenant = &domain.Tenant{
			FullName: b.Tenant.FullName,
			Phone:    b.Tenant.Phone,
			Email:    b.Tenant.Email,
		}
	}
	return lease, errs
}

type createPropertyRequest struct {
	Address      string     `json:"address"`
	CurrentLease *leaseBody `json:"currentLease"`
}

func (r createPropertyRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Address == "" {
		errs = append(errs, FieldError{Field: "address", Message: "required"})
	}
	return errs
}

type propertyDTO struct {
	ID           uuid.UUID  `json:"id"`
	Address      string     `json:"address"`
	Occupied     bool       `json:"occupied"`
	CurrentLease *leaseBody `json:"currentLease"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func toPropertyDTO(p *domain.Property) propertyDTO {
	dto := propertyDTO{
		ID:        p.ID,
		Address:   p.Address,
		Occupied:  p.Occupied(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if l := p.CurrentLease; l != nil {
		lease := &leaseBody{
			StartDate:          l.StartDate.Format(dateLayout),
			EndDate:            l.EndDate.Format(dateLayout),
			DueDay:             l.DueDay,
			RentCents:          l.RentCents,
			DepositCents:       l.DepositCents,
			LateFeeAmountCents: l.LateFeeAmountCents,
			GraceDays:          l.GraceDays,
		}
		if !l.LateFeePercent.IsZero() {
			pct := l.LateFeePercent
			lease.LateFeePercent = &pct
		}
		if l.Tenant != nil {
			lease.Tenant = &tenantBody{
				FullName: l.Tenant.FullName,
				Phone:    l.Tenant.Phone,
				Email:    l.Tenant.Email,
			}
		}
		dto.CurrentLease = lease
	}
	return dto
}

func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	props, err := h.properties.ListProperties(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]propertyDTO, len(props))
	for i := range props {
		dtos[i] = toPropertyDTO(&props[i])
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	p, err := h.properties.GetProperty(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toPropertyDTO(p))
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	fields := req.Validate()
	var lease *domain.Lease
	if req.CurrentLease != nil {
		var leaseFields []FieldError
		lease, leaseFields = req.CurrentLease.toDomain()
		for _, f := range leaseFields {
			f.Field = "currentLease." + f.Field
			fields = append(fields, f)
		}
	}
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	p, err := h.properties.CreateProperty(r.Context(), req.Address, lease)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, toPropertyDTO(p))
}

func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	removed, err := h.properties.DeleteProperty(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, map[string]any{
		"ok":                   true,
		"ledgerEntriesRemoved": removed,
	})
}

func (h *PropertyHandler) SetLease(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var body leaseBody
	if err := decodeJSON(r, &body); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	lease, fields := body.toDomain()
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	p, err := h.properties.SetLease(r.Context(), id, lease)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toPropertyDTO(p))
}

func (h *PropertyHandler) EndLease(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	p, err := h.properties.EndLease(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toPropertyDTO(p))
}
