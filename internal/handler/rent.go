package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/rentbook/internal/domain"
	"github.com/josh-kwaku/rentbook/internal/ledger"
	"github.com/josh-kwaku/rentbook/internal/money"
	"github.com/josh-kwaku/rentbook/internal/service/rent"
)

type rentService interface {
	GenerateCharges(ctx context.Context, period string) (*rent.GenerationResult, error)
	GenerateLateFees(ctx context.Context, period string) (*rent.GenerationResult, error)
	RecordPayment(ctx context.Context, req rent.PaymentRequest) (*domain.LedgerEntry, error)
	CreateAdjustment(ctx context.Context, req rent.AdjustmentRequest) (*domain.LedgerEntry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context, period string) (*rent.PeriodSummary, error)
	Collection(ctx context.Context, period string) (*rent.Collection, error)
	Activities(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerEntry, error)
	PropertyLedger(ctx context.Context, propertyID uuid.UUID, period string) (*rent.PropertyLedger, error)
}

type RentHandler struct {
	rent rentService
}

func NewRentHandler(rent rentService) *RentHandler {
	return &RentHandler{rent: rent}
}

type entryDTO struct {
	ID          uuid.UUID `json:"id"`
	Period      string    `json:"period"`
	PropertyID  uuid.UUID `json:"propertyId"`
	Type        string    `json:"type"`
	SubType     string    `json:"subType"`
	AmountCents int64     `json:"amountCents"`
	PostedAt    time.Time `json:"postedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	Title       string    `json:"title"`
	Display     string    `json:"display"`
}

func toEntryDTO(e *domain.LedgerEntry) entryDTO {
	return entryDTO{
		ID:          e.ID,
		Period:      e.Period,
		PropertyID:  e.PropertyID,
		Type:        string(e.Type),
		SubType:     string(e.SubType),
		AmountCents: e.AmountCents,
		PostedAt:    e.PostedAt,
		CreatedAt:   e.CreatedAt,
		Title:       e.Title(),
		Display:     money.FormatAbs(e.AmountCents),
	}
}

func toEntryDTOs(entries []domain.LedgerEntry) []entryDTO {
	dtos := make([]entryDTO, len(entries))
	for i := range entries {
		dtos[i] = toEntryDTO(&entries[i])
	}
	return dtos
}

type rowDTO struct {
	PropertyID       uuid.UUID `json:"propertyId"`
	DueCents         int64     `json:"dueCents"`
	PaidCents        int64     `json:"paidCents"`
	OutstandingCents int64     `json:"outstandingCents"`
}

func toRowDTO(r ledger.Row) rowDTO {
	return rowDTO{
		PropertyID:       r.PropertyID,
		DueCents:         r.DueCents,
		PaidCents:        r.PaidCents,
		OutstandingCents: r.OutstandingCents,
	}
}

type periodRequest struct {
	Period string `json:"period"`
}

type skipDTO struct {
	PropertyID uuid.UUID `json:"propertyId"`
	Reason     string    `json:"reason"`
}

type failureDTO struct {
	PropertyID uuid.UUID `json:"propertyId"`
	Error      string    `json:"error"`
}

type generationDTO struct {
	Period       string       `json:"period"`
	CreatedCount int          `json:"createdCount"`
	Created      []entryDTO   `json:"created"`
	Skipped      []skipDTO    `json:"skipped,omitempty"`
	Failed       []failureDTO `json:"failed,omitempty"`
}

func toGenerationDTO(res *rent.GenerationResult) generationDTO {
	dto := generationDTO{
		Period:       res.Period,
		CreatedCount: res.CreatedCount(),
		Created:      toEntryDTOs(res.Created),
	}
	for _, s := range res.Skipped {
		dto.Skipped = append(dto.Skipped, skipDTO{PropertyID: s.PropertyID, Reason: s.Reason})
	}
	for _, f := range res.Failed {
		dto.Failed = append(dto.Failed, failureDTO{PropertyID: f.PropertyID, Error: "store error"})
	}
	return dto
}

func (h *RentHandler) GenerateCharges(w http.ResponseWriter, r *http.Request) {
	var req periodRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	res, err := h.rent.GenerateCharges(r.Context(), req.Period)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, toGenerationDTO(res))
}

func (h *RentHandler) GenerateLateFees(w http.ResponseWriter, r *http.Request) {
	var req periodRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	res, err := h.rent.GenerateLateFees(r.Context(), req.Period)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toGenerationDTO(res))
}

type recordPaymentRequest struct {
	PropertyID    string     `json:"propertyId"`
	AmountDollars any        `json:"amountDollars"`
	PostedAt      *time.Time `json:"postedAt"`
}

func (r recordPaymentRequest) Validate() (uuid.UUID, []FieldError) {
	var errs []FieldError
	var id uuid.UUID
	if r.PropertyID == "" {
		errs = append(errs, FieldError{Field: "propertyId", Message: "required"})
	} else if parsed, err := uuid.Parse(r.PropertyID); err != nil {
		errs = append(errs, FieldError{Field: "propertyId", Message: "must be a UUID"})
	} else {
		id = parsed
	}
	return id, errs
}

func (h *RentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req recordPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	propertyID, fields := req.Validate()
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	entry, err := h.rent.RecordPayment(r.Context(), rent.PaymentRequest{
		PropertyID:    propertyID,
		AmountDollars: req.AmountDollars,
		PostedAt:      req.PostedAt,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, toEntryDTO(entry))
}

type createAdjustmentRequest struct {
	PropertyID  string     `json:"propertyId"`
	Period      string     `json:"period"`
	AmountCents int64      `json:"amountCents"`
	PostedAt    *time.Time `json:"postedAt"`
}

func (h *RentHandler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req createAdjustmentRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	propertyID, fields := recordPaymentRequest{PropertyID: req.PropertyID}.Validate()
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	entry, err := h.rent.CreateAdjustment(r.Context(), rent.AdjustmentRequest{
		PropertyID:  propertyID,
		Period:      req.Period,
		AmountCents: req.AmountCents,
		PostedAt:    req.PostedAt,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, toEntryDTO(entry))
}

func (h *RentHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	if err := h.rent.DeleteEntry(r.Context(), id); err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *RentHandler) Activities(w http.ResponseWriter, r *http.Request) {
	filter := domain.LedgerFilter{Period: r.URL.Query().Get("period")}
	if raw := r.URL.Query().Get("propertyId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondValidationError(w, []FieldError{{Field: "propertyId", Message: "must be a UUID"}})
			return
		}
		filter.PropertyID = id
	}

	entries, err := h.rent.Activities(r.Context(), filter)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toEntryDTOs(entries))
}

type summaryDTO struct {
	Period      string   `json:"period"`
	TotalDue    int64    `json:"totalDue"`
	TotalPaid   int64    `json:"totalPaid"`
	Outstanding int64    `json:"outstanding"`
	Properties  []rowDTO `json:"properties"`
}

func (h *RentHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.rent.Summary(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dto := summaryDTO{
		Period:      s.Period,
		TotalDue:    s.Summary.Totals.DueCents,
		TotalPaid:   s.Summary.Totals.PaidCents,
		Outstanding: s.Summary.Totals.OutstandingCents,
		Properties:  make([]rowDTO, len(s.Summary.Rows)),
	}
	for i, row := range s.Summary.Rows {
		dto.Properties[i] = toRowDTO(row)
	}
	RespondSuccess(w, http.StatusOK, dto)
}

type collectionRowDTO struct {
	rowDTO
	Address string `json:"address"`
	DueDay  int    `json:"dueDay"`
}

type vacantDTO struct {
	PropertyID uuid.UUID `json:"propertyId"`
	Address    string    `json:"address"`
}

type collectionDTO struct {
	Period           string             `json:"period"`
	Rows             []collectionRowDTO `json:"rows"`
	DueCents         int64              `json:"dueCents"`
	PaidCents        int64              `json:"paidCents"`
	OutstandingCents int64              `json:"outstandingCents"`
	Vacant           []vacantDTO        `json:"vacant"`
}

func (h *RentHandler) Collection(w http.ResponseWriter, r *http.Request) {
	c, err := h.rent.Collection(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dto := collectionDTO{
		Period:           c.Period,
		Rows:             make([]collectionRowDTO, len(c.Rows)),
		DueCents:         c.Totals.DueCents,
		PaidCents:        c.Totals.PaidCents,
		OutstandingCents: c.Totals.OutstandingCents,
		Vacant:           make([]vacantDTO, len(c.Vacant)),
	}
	for i, row := range c.Rows {
		dto.Rows[i] = collectionRowDTO{
			rowDTO:  toRowDTO(row.Row),
			Address: row.Property.Address,
			DueDay:  row.Property.CurrentLease.DueDay,
		}
	}
	for i, p := range c.Vacant {
		dto.Vacant[i] = vacantDTO{PropertyID: p.ID, Address: p.Address}
	}
	RespondSuccess(w, http.StatusOK, dto)
}

type propertyLedgerDTO struct {
	Period   string     `json:"period"`
	Property uuid.UUID  `json:"propertyId"`
	Address  string     `json:"address"`
	Entries  []entryDTO `json:"entries"`
	Totals   rowDTO     `json:"totals"`
}

func (h *RentHandler) PropertyLedger(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	pl, err := h.rent.PropertyLedger(r.Context(), id, r.URL.Query().Get("period"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, propertyLedgerDTO{
		Period:   pl.Period,
		Property: pl.Property.ID,
		Address:  pl.Property.Address,
		Entries:  toEntryDTOs(pl.Entries),
		Totals:   toRowDTO(pl.Row),
	})
}
