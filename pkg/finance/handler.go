package finance

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/holdingpro/holding/internal/rest"
	"github.com/holdingpro/holding/pkg/aggregation"
	"github.com/holdingpro/holding/pkg/date"
	"github.com/holdingpro/holding/pkg/recurrence"
	"github.com/holdingpro/holding/pkg/session"
	"github.com/holdingpro/holding/pkg/transaction"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type RecurrenceDTO struct {
	Count    int    `json:"count"`
	Interval string `json:"interval,omitempty"`
}

type TransactionRequestDTO struct {
	Unit       string          `json:"unit"`
	Kind       string          `json:"kind"`
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Date       date.Date       `json:"date"`
	Status     string          `json:"status,omitempty"`
	Note       string          `json:"note,omitempty"`
	Recurrence *RecurrenceDTO  `json:"recurrence,omitempty"`
}

type WeightDTO struct {
	Unit    string          `json:"unit"`
	Percent decimal.Decimal `json:"percent"`
}

type AllocationRequestDTO struct {
	Amount   decimal.Decimal `json:"amount"`
	Weights  []WeightDTO     `json:"weights"`
	Category string          `json:"category,omitempty"`
	Date     date.Date       `json:"date"`
	Note     string          `json:"note,omitempty"`
}

type CreatedDTO struct {
	Ids []string `json:"ids"`
}

type TransactionDTO struct {
	Id       string          `json:"id"`
	Unit     string          `json:"unit"`
	Kind     string          `json:"kind"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Date     date.Date       `json:"date"`
	Status   string          `json:"status"`
	Note     string          `json:"note,omitempty"`
}

type CatalogDTO struct {
	Units              []string `json:"units"`
	BusinessUnits      []string `json:"businessUnits"`
	PersonalUnit       string   `json:"personalUnit,omitempty"`
	Categories         []string `json:"categories"`
	AllocationCategory string   `json:"allocationCategory"`
	Kinds              []string `json:"kinds"`
	Statuses           []string `json:"statuses"`
}

type GroupDTO struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type PeriodPointDTO struct {
	Period  string          `json:"period"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

type UnitSummaryDTO struct {
	Unit              string          `json:"unit"`
	Income            decimal.Decimal `json:"income"`
	Expense           decimal.Decimal `json:"expense"`
	Net               decimal.Decimal `json:"net"`
	Valuation         decimal.Decimal `json:"valuation"`
	ExpenseCategories []GroupDTO      `json:"expenseCategories"`
	Count             int             `json:"count"`
}

type KindNodeDTO struct {
	Kind       string          `json:"kind"`
	Total      decimal.Decimal `json:"total"`
	Categories []GroupDTO      `json:"categories"`
}

type UnitNodeDTO struct {
	Unit  string          `json:"unit"`
	Total decimal.Decimal `json:"total"`
	Kinds []KindNodeDTO   `json:"kinds"`
}

type UpcomingDTO struct {
	From    date.Date        `json:"from"`
	To      date.Date        `json:"to"`
	Income  decimal.Decimal  `json:"income"`
	Expense decimal.Decimal  `json:"expense"`
	Net     decimal.Decimal  `json:"net"`
	Pending int              `json:"pending"`
	Series  []PeriodPointDTO `json:"series"`
}

type DashboardDTO struct {
	Today       date.Date        `json:"today"`
	From        *date.Date       `json:"from,omitempty"`
	To          *date.Date       `json:"to,omitempty"`
	Currency    string           `json:"currency"`
	Units       []string         `json:"units"`
	Count       int              `json:"count"`
	Income      decimal.Decimal  `json:"income"`
	Expense     decimal.Decimal  `json:"expense"`
	Net         decimal.Decimal  `json:"net"`
	Valuation   decimal.Decimal  `json:"valuation"`
	UnitTotals  []UnitSummaryDTO `json:"unitTotals"`
	Categories  []GroupDTO       `json:"categories"`
	Hierarchy   []UnitNodeDTO    `json:"hierarchy"`
	Granularity string           `json:"granularity"`
	Trend       []PeriodPointDTO `json:"trend"`
	Upcoming    UpcomingDTO      `json:"upcoming"`
}

type Handler struct {
	service  Service
	renderer DashboardRenderer
}

func NewHandler(service Service, renderer DashboardRenderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

// SubmitTransaction godoc
// @Summary Submit a transaction
// @Description Append an income or expense. A recurrence count above 1 appends one record per month.
// @Tags Transaction
// @Accept json
// @Produce json
// @Param transaction body TransactionRequestDTO true "Transaction"
// @Success 201 {object} CreatedDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 403 {object} rest.ErrorResponse "Session not found"
// @Router /api/transaction [post]
// @Security XSessionId
func (handler *Handler) SubmitTransaction(w http.ResponseWriter, r *http.Request) {
	log.Debug("Submitting transaction")
	var dto TransactionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	req := TransactionRequest{
		Unit:     dto.Unit,
		Kind:     dto.Kind,
		Category: dto.Category,
		Amount:   dto.Amount,
		Date:     dto.Date,
		Status:   dto.Status,
		Note:     dto.Note,
	}
	if dto.Recurrence != nil {
		interval, err := recurrence.ParseInterval(dto.Recurrence.Interval)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		req.Recurrence = &recurrence.Policy{Count: dto.Recurrence.Count, Interval: interval}
	}
	ids, err := handler.service.SubmitTransaction(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedDTO{Ids: ids})
}

// SubmitAllocation godoc
// @Summary Allocate a shared cost
// @Description Split an amount over units by percentage weights summing to exactly 100
// @Tags Allocation
// @Accept json
// @Produce json
// @Param allocation body AllocationRequestDTO true "Allocation"
// @Success 201 {object} CreatedDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 403 {object} rest.ErrorResponse "Session not found"
// @Router /api/allocation [post]
// @Security XSessionId
func (handler *Handler) SubmitAllocation(w http.ResponseWriter, r *http.Request) {
	log.Debug("Submitting allocation")
	var dto AllocationRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	weights := make([]WeightRequest, 0, len(dto.Weights))
	for _, w := range dto.Weights {
		weights = append(weights, WeightRequest{Unit: w.Unit, Percent: w.Percent})
	}
	ids, err := handler.service.SubmitAllocation(r.Context(), AllocationRequest{
		Amount:   dto.Amount,
		Weights:  weights,
		Category: dto.Category,
		Date:     dto.Date,
		Note:     dto.Note,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedDTO{Ids: ids})
}

// ListTransactions godoc
// @Summary List transactions
// @Description List the session ledger in insertion order
// @Tags Transaction
// @Produce json
// @Param unit query []string false "Units" collectionFormat(multi)
// @Param kind query string false "income or expense"
// @Param from query string false "First date (YYYY-MM-DD)"
// @Param to query string false "Last date (YYYY-MM-DD)"
// @Success 200 {array} TransactionDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 403 {object} rest.ErrorResponse "Session not found"
// @Router /api/transaction [get]
// @Security XSessionId
func (handler *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing transactions")
	query := r.URL.Query()
	from, to, ok := parseRange(w, query.Get("from"), query.Get("to"))
	if !ok {
		return
	}
	records, err := handler.service.ListTransactions(r.Context(), ListFilter{
		Units: query["unit"],
		Kind:  query.Get("kind"),
		From:  from,
		To:    to,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]TransactionDTO, 0, len(records))
	for _, t := range records {
		dtos = append(dtos, TransactionToDTO(t))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ResetLedger godoc
// @Summary Reset the ledger
// @Description Remove every record of the session. This cannot be undone.
// @Tags Ledger
// @Success 204 "No Content"
// @Failure 403 {object} rest.ErrorResponse "Session not found"
// @Router /api/ledger [delete]
// @Security XSessionId
func (handler *Handler) ResetLedger(w http.ResponseWriter, r *http.Request) {
	log.Debug("Resetting ledger")
	if err := handler.service.ResetLedger(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetDashboard godoc
// @Summary Get the dashboard
// @Description Totals, per-unit summaries, trend and upcoming projection. Send Accept text/csv for a CSV export.
// @Tags Dashboard
// @Produce json
// @Produce text/csv
// @Param unit query []string false "Units" collectionFormat(multi)
// @Param from query string false "First date (YYYY-MM-DD)"
// @Param to query string false "Last date (YYYY-MM-DD)"
// @Param granularity query string false "monthly, quarterly or yearly"
// @Param months query int false "Months ahead of the upcoming projection"
// @Success 200 {object} DashboardDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 403 {object} rest.ErrorResponse "Session not found"
// @Router /api/dashboard [get]
// @Security XSessionId
func (handler *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	log.Debug("Building dashboard")
	query := r.URL.Query()
	from, to, ok := parseRange(w, query.Get("from"), query.Get("to"))
	if !ok {
		return
	}
	filter := DashboardFilter{
		Units:       query["unit"],
		From:        from,
		To:          to,
		Granularity: query.Get("granularity"),
	}
	if months := query.Get("months"); months != "" {
		n, err := strconv.Atoi(months)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid months", "months must be an integer")
			return
		}
		filter.MonthsAhead = &n
	}

	dashboard, err := handler.service.QueryDashboard(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		csv, err := handler.renderer.RenderDashboard(dashboard)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write csv: %v", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, DashboardToDTO(dashboard))
}

// GetCatalog godoc
// @Summary Get the catalog
// @Description Units, categories and the allocation label accepted by the ledger
// @Tags Catalog
// @Produce json
// @Success 200 {object} CatalogDTO
// @Router /api/catalog [get]
func (handler *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	catalog := handler.service.Catalog()
	writeJSON(w, http.StatusOK, CatalogDTO{
		Units:              unitNames(catalog.Units),
		BusinessUnits:      unitNames(catalog.BusinessUnits()),
		PersonalUnit:       string(catalog.PersonalUnit),
		Categories:         append([]string{}, catalog.Categories...),
		AllocationCategory: catalog.AllocationLabel(""),
		Kinds:              []string{string(transaction.Income), string(transaction.Expense)},
		Statuses:           []string{string(transaction.Realized), string(transaction.Pending)},
	})
}

// PreviewRecurrence godoc
// @Summary Preview recurring dates
// @Description Dates a recurring submission would be booked on
// @Tags Transaction
// @Produce json
// @Param date query string true "First date (YYYY-MM-DD)"
// @Param count query int true "Number of monthly occurrences"
// @Success 200 {array} string
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/recurrence/preview [get]
func (handler *Handler) PreviewRecurrence(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	base, err := date.Parse(query.Get("date"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "date must be in YYYY-MM-DD format")
		return
	}
	count, err := strconv.Atoi(query.Get("count"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid count", "count must be an integer")
		return
	}
	if count > maxOccurrences {
		writeServiceError(w, transaction.NewValidationError("count", "must be at most %d, got %d", maxOccurrences, count))
		return
	}
	dates, err := recurrence.Expand(base, recurrence.Policy{Count: count, Interval: recurrence.Month})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dates)
}

func parseRange(w http.ResponseWriter, fromString, toString string) (date.Date, date.Date, bool) {
	var from, to date.Date
	var err error
	if strings.TrimSpace(fromString) != "" {
		if from, err = date.Parse(fromString); err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid from format", "from must be in YYYY-MM-DD format")
			return from, to, false
		}
	}
	if strings.TrimSpace(toString) != "" {
		if to, err = date.Parse(toString); err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid to format", "to must be in YYYY-MM-DD format")
			return from, to, false
		}
	}
	return from, to, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case transaction.IsValidation(err):
		rest.WriteError(w, http.StatusBadRequest, "validation failed", err.Error())
	case errors.Is(err, session.ErrNoSession):
		rest.WriteError(w, http.StatusForbidden, "session not found", "")
	default:
		log.Errorf("request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

func unitNames(units []transaction.Unit) []string {
	names := make([]string, len(units))
	for i, u := range units {
		names[i] = string(u)
	}
	return names
}

func TransactionToDTO(t transaction.Transaction) TransactionDTO {
	return TransactionDTO{
		Id:       t.Id,
		Unit:     string(t.Unit),
		Kind:     string(t.Kind),
		Category: t.Category,
		Amount:   t.Amount,
		Date:     t.Date,
		Status:   string(t.EffectiveStatus()),
		Note:     t.Note,
	}
}

func groupsToDTO(groups []aggregation.Group) []GroupDTO {
	dtos := make([]GroupDTO, 0, len(groups))
	for _, g := range groups {
		dtos = append(dtos, GroupDTO{Key: g.Key, Total: g.Total, Count: g.Count})
	}
	return dtos
}

func seriesToDTO(series []aggregation.PeriodPoint) []PeriodPointDTO {
	dtos := make([]PeriodPointDTO, 0, len(series))
	for _, p := range series {
		dtos = append(dtos, PeriodPointDTO{Period: p.Period, Income: p.Income, Expense: p.Expense, Net: p.Net()})
	}
	return dtos
}

func DashboardToDTO(d Dashboard) DashboardDTO {
	unitTotals := make([]UnitSummaryDTO, 0, len(d.UnitTotals))
	for _, u := range d.UnitTotals {
		unitTotals = append(unitTotals, UnitSummaryDTO{
			Unit:              string(u.Unit),
			Income:            u.Income,
			Expense:           u.Expense,
			Net:               u.Net,
			Valuation:         u.Valuation,
			ExpenseCategories: groupsToDTO(u.ExpenseCategories),
			Count:             u.Count,
		})
	}
	hierarchy := make([]UnitNodeDTO, 0, len(d.Hierarchy))
	for _, node := range d.Hierarchy {
		kinds := make([]KindNodeDTO, 0, len(node.Kinds))
		for _, k := range node.Kinds {
			kinds = append(kinds, KindNodeDTO{Kind: string(k.Kind), Total: k.Total, Categories: groupsToDTO(k.Categories)})
		}
		hierarchy = append(hierarchy, UnitNodeDTO{Unit: string(node.Unit), Total: node.Total, Kinds: kinds})
	}

	dto := DashboardDTO{
		Today:       d.Today,
		Currency:    d.Currency,
		Units:       unitNames(d.Units),
		Count:       d.Count,
		Income:      d.Income,
		Expense:     d.Expense,
		Net:         d.Net,
		Valuation:   d.Valuation,
		UnitTotals:  unitTotals,
		Categories:  groupsToDTO(d.Categories),
		Hierarchy:   hierarchy,
		Granularity: string(d.Granularity),
		Trend:       seriesToDTO(d.Trend),
		Upcoming: UpcomingDTO{
			From:    d.Upcoming.Window.From,
			To:      d.Upcoming.Window.To,
			Income:  d.Upcoming.Income,
			Expense: d.Upcoming.Expense,
			Net:     d.Upcoming.Net,
			Pending: d.Upcoming.Pending,
			Series:  seriesToDTO(d.Upcoming.Series),
		},
	}
	if !d.From.IsZero() {
		dto.From = &d.From
	}
	if !d.To.IsZero() {
		dto.To = &d.To
	}
	return dto
}
