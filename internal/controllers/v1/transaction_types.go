package v1

import (
	"time"

	"github.com/allowkit/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionEditable are the values a caller controls for a ledger
// entry. The period reference is set on creation and never changes, the
// ledger never re-parents a transaction.
type TransactionEditable struct {
	Amount      decimal.Decimal        `json:"amount" example:"14.03" minimum:"0.00000001"`       // The amount spent
	Kind        models.TransactionKind `json:"kind" example:"expense" default:"expense"`          // expense or income
	Description string                 `json:"description" example:"Lunch" default:""`            // A note on the transaction
	Date        time.Time              `json:"date" example:"2026-03-12T18:43:00.271152Z"`        // Time the expense occurred, defaults to creation time
	PeriodID    uuid.UUID              `json:"periodId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"` // The period this transaction belongs to
}

// model returns the database resource for the API representation of the
// editable fields.
func (editable TransactionEditable) model() models.Transaction {
	return models.Transaction{
		Amount:      editable.Amount,
		Kind:        editable.Kind,
		Description: editable.Description,
		Date:        editable.Date,
		PeriodID:    editable.PeriodID,
	}
}

type TransactionResponse struct {
	Data  *models.Transaction `json:"data"`                                                          // The transaction
	Error *string             `json:"error" example:"the transaction amount must be larger than zero"` // The error, if any occurred
}

// LedgerEntry is a transaction in its period's ledger presentation:
// annotated with the running total up to and including it, the
// cumulative allowance for its day, and the signed variance between the
// two.
type LedgerEntry struct {
	models.Transaction
	RunningTotal  decimal.Decimal `json:"runningTotal" example:"60"`   // Cumulative spend in chronological order
	ExpectedSpent decimal.Decimal `json:"expectedSpent" example:"5"`   // Daily allowance times the day of the month
	Difference    string          `json:"difference" example:"-55"`    // expectedSpent minus runningTotal, explicit + sign when non-negative
}

type LedgerResponse struct {
	Data  []LedgerEntry `json:"data"`                                                          // The ledger, oldest first
	Error *string       `json:"error" example:"there is no budget period matching your query"` // The error, if any occurred
}

type Pagination struct {
	Total   int64 `json:"total" example:"961"`   // Total number of transactions
	Limit   int   `json:"limit" example:"50"`    // Maximum number of transactions in this page
	Offset  int   `json:"offset" example:"50"`   // Offset of the first transaction in this page
	HasMore bool  `json:"hasMore" example:"true"` // Whether more transactions exist beyond this page
}

type TransactionListResponse struct {
	Transactions []models.Transaction `json:"transactions"`                                              // One page of the user's ledger, newest first
	Pagination   *Pagination          `json:"pagination"`                                                // Pagination information
	Error        *string              `json:"error" example:"the query string contains unparseable data"` // The error, if any occurred
}

type TransactionQueryFilter struct {
	Limit  int  `form:"limit"`  // Maximum number of transactions to return, defaults to 50
	Offset uint `form:"offset"` // Offset of the first transaction returned, defaults to 0
}
