package app

import (
	"github.com/holdingpro/holding/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

// subscribeAudit logs every ledger change.
func subscribeAudit(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.LedgerTransactionsAppended,
		func(e event_bus.EventT[event_bus.TransactionsAppended]) error {
			for _, r := range e.Data.Records {
				log.WithFields(log.Fields{
					"session":  e.Data.SessionId,
					"source":   e.Data.Source,
					"id":       r.Id,
					"unit":     r.Unit,
					"kind":     r.Kind,
					"category": r.Category,
					"amount":   r.Amount,
					"date":     r.Date,
					"status":   r.Status,
				}).Info("ledger record appended")
			}
			return nil
		})
	event_bus.SubscribeTyped(bus, event_bus.LedgerReset,
		func(e event_bus.EventT[event_bus.LedgerCleared]) error {
			log.WithFields(log.Fields{
				"session": e.Data.SessionId,
				"removed": e.Data.Removed,
			}).Info("ledger reset")
			return nil
		})
}
