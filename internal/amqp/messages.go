package amqp

import (
	"encoding/json"
	"time"

	"github.com/holdingpro/holding/internal/event_bus"
)

// LedgerMessage is the JSON body published for every ledger change.
type LedgerMessage struct {
	Type      string          `json:"type"`
	SessionId string          `json:"sessionId"`
	Source    string          `json:"source,omitempty"`
	Records   []RecordMessage `json:"records,omitempty"`
	Removed   int             `json:"removed,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type RecordMessage struct {
	Id       string `json:"id"`
	Unit     string `json:"unit"`
	Kind     string `json:"kind"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
	Status   string `json:"status,omitempty"`
	Note     string `json:"note,omitempty"`
}

func NewAppendedMessage(e event_bus.TransactionsAppended, at time.Time) *LedgerMessage {
	records := make([]RecordMessage, len(e.Records))
	for i, r := range e.Records {
		records[i] = RecordMessage{
			Id:       r.Id,
			Unit:     r.Unit,
			Kind:     r.Kind,
			Category: r.Category,
			Amount:   r.Amount,
			Date:     r.Date,
			Status:   r.Status,
			Note:     r.Note,
		}
	}
	return &LedgerMessage{
		Type:      string(event_bus.LedgerTransactionsAppended),
		SessionId: e.SessionId,
		Source:    string(e.Source),
		Records:   records,
		Timestamp: at,
	}
}

func NewResetMessage(e event_bus.LedgerCleared, at time.Time) *LedgerMessage {
	return &LedgerMessage{
		Type:      string(event_bus.LedgerReset),
		SessionId: e.SessionId,
		Removed:   e.Removed,
		Timestamp: at,
	}
}

func (m *LedgerMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerMessageFromJSON(data []byte) (*LedgerMessage, error) {
	var msg LedgerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
