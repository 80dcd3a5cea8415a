package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Session
	r.HandleFunc("/api/session", deps.SessionHandler.CreateSession).Methods("POST")

	// Catalog
	r.HandleFunc("/api/catalog", deps.FinanceHandler.GetCatalog).Methods("GET")

	// Transactions
	r.HandleFunc("/api/transaction", deps.FinanceHandler.SubmitTransaction).Methods("POST")
	r.HandleFunc("/api/transaction", deps.FinanceHandler.ListTransactions).Methods("GET")
	r.HandleFunc("/api/recurrence/preview", deps.FinanceHandler.PreviewRecurrence).Queries("date", "{date}", "count", "{count}").Methods("GET")

	// Allocation
	r.HandleFunc("/api/allocation", deps.FinanceHandler.SubmitAllocation).Methods("POST")

	// Ledger
	r.HandleFunc("/api/ledger", deps.FinanceHandler.ResetLedger).Methods("DELETE")

	// Dashboard
	r.HandleFunc("/api/dashboard", deps.FinanceHandler.GetDashboard).Methods("GET")
}
