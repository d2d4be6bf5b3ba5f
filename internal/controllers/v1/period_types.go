package v1

import (
	"github.com/allowkit/backend/internal/models"
	"github.com/shopspring/decimal"
)

// PeriodEditable are the values a caller controls when creating or
// refreshing a budget period. The available amount and daily allowance
// are always derived, never submitted.
type PeriodEditable struct {
	IncomeAmount decimal.Decimal   `json:"incomeAmount" example:"2000"`                         // Declared income for the period
	TargetAmount decimal.Decimal   `json:"targetAmount" example:"500"`                          // Savings target for the period
	PeriodKind   models.PeriodKind `json:"periodKind" example:"monthly" default:"monthly"`      // monthly or weekly
	Month        int               `json:"month" example:"3" minimum:"1" maximum:"12"`          // Month of the period
	Year         int               `json:"year" example:"2026"`                                 // Year of the period
	WeekNumber   *int              `json:"weekNumber" example:"12" extensions:"x-nullable"`     // Required for weekly periods, absent for monthly ones
}

type PeriodResponse struct {
	Data  *models.BudgetPeriod `json:"data"`                                                        // The period
	Error *string              `json:"error" example:"month must be between 1 and 12"`              // The error, if any occurred
}

type PeriodListResponse struct {
	Data  []models.PeriodWithSummary `json:"data"`                                                  // All periods of the user with ledger summaries
	Error *string                    `json:"error" example:"the query string contains unparseable data"` // The error, if any occurred
}

// MonthDetail is the monthly period together with its ledger and the
// wall-clock summary block.
type MonthDetail struct {
	Period       models.BudgetPeriod  `json:"period"`
	Transactions []models.Transaction `json:"transactions"` // Ordered newest-first
	Summary      models.MonthSummary  `json:"summary"`
}

type MonthDetailResponse struct {
	Data  *MonthDetail `json:"data"`                                                          // The period with its ledger
	Error *string      `json:"error" example:"there is no budget period matching your query"` // The error, if any occurred
}

type PeriodDeleteResponse struct {
	Data             *models.BudgetPeriod `json:"data"`                                // The deleted period
	TransactionCount *int64               `json:"transactionCount,omitempty" example:"3"` // Dependent transactions: blocking the safe path, removed by the forced path
	Error            *string              `json:"error" example:"there is no budget period matching your query"` // The error, if any occurred
}
