package finance

import (
	"context"
	"fmt"
	"strings"

	"github.com/holdingpro/holding/internal/event_bus"
	"github.com/holdingpro/holding/internal/utils"
	"github.com/holdingpro/holding/pkg/aggregation"
	"github.com/holdingpro/holding/pkg/allocation"
	"github.com/holdingpro/holding/pkg/date"
	"github.com/holdingpro/holding/pkg/ledger"
	"github.com/holdingpro/holding/pkg/recurrence"
	"github.com/holdingpro/holding/pkg/session"
	"github.com/holdingpro/holding/pkg/transaction"
	log "github.com/sirupsen/logrus"
)

// maxOccurrences bounds a single recurring submission to 50 years of monthly entries.
const maxOccurrences = 600

type Service interface {
	SubmitTransaction(ctx context.Context, req TransactionRequest) ([]string, error)
	SubmitAllocation(ctx context.Context, req AllocationRequest) ([]string, error)
	ResetLedger(ctx context.Context) error
	QueryDashboard(ctx context.Context, filter DashboardFilter) (Dashboard, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]transaction.Transaction, error)
	Catalog() transaction.Catalog
}

type ServiceImpl struct {
	sessions *ledger.Sessions
	bus      *event_bus.EventBus
	settings Settings
	clock    utils.Clock
}

func NewService(sessions *ledger.Sessions, bus *event_bus.EventBus, settings Settings) *ServiceImpl {
	if settings.Granularity == "" {
		settings.Granularity = aggregation.Monthly
	}
	s := &ServiceImpl{
		sessions: sessions,
		bus:      bus,
		settings: settings,
		clock:    &utils.SystemClock{},
	}
	sessions.OnSeed(s.publishSeeded)
	return s
}

func (s *ServiceImpl) publishSeeded(ctx context.Context, sessionId string, seeded []transaction.Transaction) {
	log.Debugf("seeded %d records into session %s", len(seeded), sessionId)
	s.publish(ctx, event_bus.LedgerTransactionsAppended, event_bus.TransactionsAppended{
		SessionId: sessionId,
		Source:    event_bus.SourceSeed,
		Records:   toAppendedRecords(seeded),
	})
}

func (s *ServiceImpl) Catalog() transaction.Catalog {
	return s.sessions.Catalog()
}

// SubmitTransaction appends one record per occurrence of the request as a single
// batch. Without an explicit status, occurrences after today are pending.
func (s *ServiceImpl) SubmitTransaction(ctx context.Context, req TransactionRequest) ([]string, error) {
	sessionId, err := session.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current session: %w", err)
	}
	catalog := s.Catalog()
	unit, err := catalog.ResolveUnit(req.Unit)
	if err != nil {
		return nil, err
	}
	kind, err := transaction.ParseKind(req.Kind)
	if err != nil {
		return nil, err
	}
	status, err := transaction.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	policy := recurrence.OneOff
	if req.Recurrence != nil {
		policy = *req.Recurrence
	}
	if policy.Count > maxOccurrences {
		return nil, transaction.NewValidationError("count", "must be at most %d, got %d", maxOccurrences, policy.Count)
	}

	today := utils.Today(s.clock)
	base := req.Date
	if base.IsZero() {
		base = today
	}
	occurrences, err := recurrence.Occurrences(base, policy)
	if err != nil {
		return nil, err
	}

	records := make([]transaction.Transaction, 0, policy.Count)
	for on := range occurrences {
		records = append(records, transaction.Transaction{
			Unit:     unit,
			Kind:     kind,
			Category: strings.TrimSpace(req.Category),
			Amount:   req.Amount,
			Date:     on,
			Status:   statusFor(status, on, today),
			Note:     strings.TrimSpace(req.Note),
		})
	}
	return s.append(ctx, sessionId, event_bus.SourceTransaction, records)
}

func statusFor(requested transaction.Status, on, today date.Date) transaction.Status {
	if requested != "" {
		return requested
	}
	if on.After(today) {
		return transaction.Pending
	}
	return transaction.Realized
}

// SubmitAllocation appends one expense per unit with a non-zero weight. Either
// every share is appended or none is.
func (s *ServiceImpl) SubmitAllocation(ctx context.Context, req AllocationRequest) ([]string, error) {
	sessionId, err := session.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current session: %w", err)
	}
	catalog := s.Catalog()
	policy := make(allocation.Policy, 0, len(req.Weights))
	for _, w := range req.Weights {
		unit, err := catalog.ResolveUnit(w.Unit)
		if err != nil {
			return nil, err
		}
		policy = append(policy, allocation.Weight{Unit: unit, Percent: w.Percent})
	}
	shares, err := allocation.Allocate(req.Amount, policy)
	if err != nil {
		return nil, err
	}

	today := utils.Today(s.clock)
	on := req.Date
	if on.IsZero() {
		on = today
	}
	category := catalog.AllocationLabel(req.Category)
	records := make([]transaction.Transaction, 0, len(shares))
	for _, share := range shares {
		records = append(records, transaction.Transaction{
			Unit:     share.Unit,
			Kind:     transaction.Expense,
			Category: category,
			Amount:   share.Amount,
			Date:     on,
			Status:   statusFor("", on, today),
			Note:     strings.TrimSpace(req.Note),
		})
	}
	return s.append(ctx, sessionId, event_bus.SourceAllocation, records)
}

func (s *ServiceImpl) append(ctx context.Context, sessionId string, source event_bus.Source, records []transaction.Transaction) ([]string, error) {
	appended, err := s.sessions.Append(ctx, sessionId, records...)
	if err != nil {
		if !transaction.IsValidation(err) {
			log.Errorf("failed to append %d records to session %s: %v", len(records), sessionId, err)
		}
		return nil, err
	}
	ids := make([]string, len(appended))
	for i, r := range appended {
		ids[i] = r.Id
	}
	log.Debugf("appended %d %s records to session %s", len(appended), source, sessionId)
	s.publish(ctx, event_bus.LedgerTransactionsAppended, event_bus.TransactionsAppended{
		SessionId: sessionId,
		Source:    source,
		Records:   toAppendedRecords(appended),
	})
	return ids, nil
}

// publish notifies subscribers. The ledger is already changed, so failures are only logged.
func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Warnf("failed to publish %s: %v", eventType, err)
	}
}

func toAppendedRecords(records []transaction.Transaction) []event_bus.AppendedRecord {
	out := make([]event_bus.AppendedRecord, len(records))
	for i, r := range records {
		out[i] = event_bus.AppendedRecord{
			Id:       r.Id,
			Unit:     string(r.Unit),
			Kind:     string(r.Kind),
			Category: r.Category,
			Amount:   r.Amount.String(),
			Date:     r.Date.String(),
			Status:   string(r.EffectiveStatus()),
			Note:     r.Note,
		}
	}
	return out
}

// ResetLedger removes every record of the current session. It cannot be undone.
func (s *ServiceImpl) ResetLedger(ctx context.Context) error {
	sessionId, err := session.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current session: %w", err)
	}
	existing, err := s.sessions.Query(ctx, sessionId, ledger.All)
	if err != nil {
		return err
	}
	if err := s.sessions.Reset(ctx, sessionId); err != nil {
		log.Errorf("failed to reset ledger of session %s: %v", sessionId, err)
		return err
	}
	log.Infof("ledger of session %s reset, %d records removed", sessionId, len(existing))
	s.publish(ctx, event_bus.LedgerReset, event_bus.LedgerCleared{SessionId: sessionId, Removed: len(existing)})
	return nil
}

func (s *ServiceImpl) ListTransactions(ctx context.Context, filter ListFilter) ([]transaction.Transaction, error) {
	sessionId, err := session.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current session: %w", err)
	}
	units, err := s.resolveUnits(filter.Units)
	if err != nil {
		return nil, err
	}
	predicate := ledger.And(ledger.ByUnits(units...), ledger.Between(filter.From, filter.To))
	if strings.TrimSpace(filter.Kind) != "" {
		kind, err := transaction.ParseKind(filter.Kind)
		if err != nil {
			return nil, err
		}
		predicate = ledger.And(predicate, ledger.ByKind(kind))
	}
	return s.sessions.Query(ctx, sessionId, predicate)
}

// QueryDashboard aggregates the records selected by filter. The upcoming
// projection ignores the date range and only honours the unit selection.
func (s *ServiceImpl) QueryDashboard(ctx context.Context, filter DashboardFilter) (Dashboard, error) {
	sessionId, err := session.CurrentId(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to get current session: %w", err)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return Dashboard{}, transaction.NewValidationError("to", "must not be before from")
	}
	units, err := s.resolveUnits(filter.Units)
	if err != nil {
		return Dashboard{}, err
	}
	granularity := s.settings.Granularity
	if strings.TrimSpace(filter.Granularity) != "" {
		if granularity, err = aggregation.ParseGranularity(filter.Granularity); err != nil {
			return Dashboard{}, err
		}
	}
	monthsAhead := s.settings.MonthsAhead
	if filter.MonthsAhead != nil {
		if *filter.MonthsAhead < 0 {
			return Dashboard{}, transaction.NewValidationError("months", "must not be negative, got %d", *filter.MonthsAhead)
		}
		monthsAhead = *filter.MonthsAhead
	}

	unitRecords, err := s.sessions.Query(ctx, sessionId, ledger.ByUnits(units...))
	if err != nil {
		return Dashboard{}, err
	}
	records := filterRecords(unitRecords, ledger.Between(filter.From, filter.To))
	summaryUnits := units
	if len(summaryUnits) == 0 {
		summaryUnits = s.Catalog().Units
	}

	today := utils.Today(s.clock)
	window := aggregation.UpcomingRange(today, monthsAhead)
	upcoming := aggregation.UpcomingWindow(unitRecords, today, monthsAhead)

	dashboard := Dashboard{
		Today:       today,
		From:        filter.From,
		To:          filter.To,
		Currency:    s.settings.Currency,
		Units:       summaryUnits,
		Count:       len(records),
		Income:      aggregation.Total(records, transaction.Income),
		Expense:     aggregation.Total(records, transaction.Expense),
		Net:         aggregation.Net(records),
		Valuation:   aggregation.ValuationEstimate(records, s.settings.Multiplier),
		UnitTotals:  aggregation.UnitSummaries(records, summaryUnits, s.settings.Multiplier),
		Categories:  aggregation.ByCategory(aggregation.Filter(records, transaction.Expense)),
		Hierarchy:   aggregation.Hierarchy(records),
		Granularity: granularity,
		Trend:       aggregation.PeriodSeries(records, granularity),
		Upcoming: Upcoming{
			Window:  window,
			Income:  aggregation.Total(upcoming, transaction.Income),
			Expense: aggregation.Total(upcoming, transaction.Expense),
			Net:     aggregation.Net(upcoming),
			Pending: len(filterRecords(upcoming, ledger.ByStatus(transaction.Pending))),
			Series:  aggregation.ZeroFilledSeries(upcoming, window.From, window.To),
		},
	}
	log.Tracef("dashboard of session %s built from %d records", sessionId, len(records))
	return dashboard, nil
}

func (s *ServiceImpl) resolveUnits(names []string) ([]transaction.Unit, error) {
	catalog := s.Catalog()
	units := make([]transaction.Unit, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		unit, err := catalog.ResolveUnit(name)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, nil
}

func filterRecords(records []transaction.Transaction, predicate ledger.Predicate) []transaction.Transaction {
	filtered := make([]transaction.Transaction, 0, len(records))
	for _, r := range records {
		if predicate(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
