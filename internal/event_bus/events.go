package event_bus

const (
	LedgerTransactionsAppended EventType = "ledger.transactions.appended"
	LedgerReset                EventType = "ledger.reset"
)

// Source tells which operation appended a batch.
type Source string

const (
	SourceTransaction Source = "transaction"
	SourceAllocation  Source = "allocation"
	SourceSeed        Source = "seed"
)

// TransactionsAppended is published once per batch appended to a session ledger.
type TransactionsAppended struct {
	SessionId string
	Source    Source
	Records   []AppendedRecord
}

// AppendedRecord is the flat form of a stored record. Amount is a decimal string.
type AppendedRecord struct {
	Id       string
	Unit     string
	Kind     string
	Category string
	Amount   string
	Date     string
	Status   string
	Note     string
}

type LedgerCleared struct {
	SessionId string
	Removed   int
}
