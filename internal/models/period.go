package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PeriodKind determines how long a budget period runs.
type PeriodKind string

const (
	PeriodMonthly PeriodKind = "monthly"
	PeriodWeekly  PeriodKind = "weekly"
)

// BudgetPeriod represents one budgeting interval for a user.
//
// A user holds at most one period per (year, month, week) slot. Monthly
// periods and weekly periods for the same month are distinct slots, so
// a monthly period can coexist with the weekly periods inside it.
type BudgetPeriod struct {
	DefaultModel
	UserID     uuid.UUID  `json:"userId" gorm:"uniqueIndex:period_user_slot,priority:1"`
	PeriodKind PeriodKind `json:"periodKind" example:"monthly"`
	Month      int        `json:"month" gorm:"uniqueIndex:period_user_slot,priority:3" example:"3"`
	Year       int        `json:"year" gorm:"uniqueIndex:period_user_slot,priority:2" example:"2026"`
	WeekNumber *int       `json:"weekNumber,omitempty" example:"12"` // Only set for weekly periods

	// WeekKey is the sentinel for the uniqueness constraint: sqlite
	// treats NULL values in a unique index as distinct from each other,
	// so the constraint carries 0 for monthly periods instead of NULL.
	WeekKey int `json:"-" gorm:"uniqueIndex:period_user_slot,priority:4"`

	IncomeAmount    decimal.Decimal `json:"incomeAmount" gorm:"type:DECIMAL(20,8)" example:"2000"`
	TargetAmount    decimal.Decimal `json:"targetAmount" gorm:"type:DECIMAL(20,8)" example:"500"`
	AvailableAmount decimal.Decimal `json:"availableAmount" gorm:"type:DECIMAL(20,8)" example:"1500"`
	DailyAllowance  decimal.Decimal `json:"dailyAllowance" gorm:"type:DECIMAL(20,8)" example:"48.387096774"`
}

// BeforeSave keeps the sentinel column in sync with the week number.
func (p *BudgetPeriod) BeforeSave(_ *gorm.DB) error {
	if p.WeekNumber != nil {
		p.WeekKey = *p.WeekNumber
	} else {
		p.WeekKey = 0
	}

	return nil
}

// Slot is the canonical identity of a period request together with the
// day count used for the allowance division.
type Slot struct {
	Kind       PeriodKind
	Month      int
	Year       int
	WeekNumber *int // nil for monthly periods
	Days       int
}

// ResolveSlot validates a period request and returns its canonical slot.
// The kind defaults to monthly when empty.
func ResolveSlot(kind PeriodKind, month, year int, weekNumber *int) (Slot, error) {
	if kind == "" {
		kind = PeriodMonthly
	}

	if kind != PeriodMonthly && kind != PeriodWeekly {
		return Slot{}, ErrPeriodKindInvalid
	}

	if month == 0 || year == 0 {
		return Slot{}, ErrMonthAndYearRequired
	}

	if month < 1 || month > 12 {
		return Slot{}, ErrMonthOutOfRange
	}

	slot := Slot{Kind: kind, Month: month, Year: year}

	if kind == PeriodWeekly {
		if weekNumber == nil {
			return Slot{}, ErrWeekNumberRequired
		}

		slot.WeekNumber = weekNumber
		slot.Days = 7
		return slot, nil
	}

	slot.Days = DaysIn(month, year)
	return slot, nil
}

// DaysIn returns the number of calendar days in the month, leap years
// included. Day 0 of the following month normalizes to the last day of
// this one.
func DaysIn(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Allowance holds the derived monetary fields of a period.
type Allowance struct {
	Available decimal.Decimal
	Daily     decimal.Decimal
}

// Calculate derives the available amount and daily allowance from the
// declared income and savings target.
//
// This is the single place where the derived fields are computed. Any
// edit to income or target must come back through here, the fields are
// never recomputed lazily elsewhere.
func Calculate(income, target decimal.Decimal, days int) (Allowance, error) {
	if !income.IsPositive() {
		return Allowance{}, ErrIncomeNotPositive
	}

	if target.IsNegative() {
		return Allowance{}, ErrTargetNegative
	}

	if target.GreaterThanOrEqual(income) {
		return Allowance{}, ErrTargetNotBelowIncome
	}

	available := income.Sub(target)

	return Allowance{
		Available: available,
		Daily:     available.Div(decimal.NewFromInt(int64(days))),
	}, nil
}

// UpsertPeriod creates the period for the slot or refreshes an existing
// one with newly derived values.
//
// The weekly path is a single conditional write, the unique index on the
// slot makes it race-free. The monthly path is find-then-write inside a
// transaction; a concurrent writer that wins the race surfaces as
// ErrPeriodSlotNotUnique through the unique index instead of producing
// a duplicate row.
func UpsertPeriod(userID uuid.UUID, kind PeriodKind, month, year int, weekNumber *int, income, target decimal.Decimal) (BudgetPeriod, error) {
	slot, err := ResolveSlot(kind, month, year, weekNumber)
	if err != nil {
		return BudgetPeriod{}, err
	}

	allowance, err := Calculate(income, target, slot.Days)
	if err != nil {
		return BudgetPeriod{}, err
	}

	period := BudgetPeriod{
		UserID:          userID,
		PeriodKind:      slot.Kind,
		Month:           slot.Month,
		Year:            slot.Year,
		WeekNumber:      slot.WeekNumber,
		IncomeAmount:    income,
		TargetAmount:    target,
		AvailableAmount: allowance.Available,
		DailyAllowance:  allowance.Daily,
	}

	if slot.Kind == PeriodWeekly {
		err = DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "year"}, {Name: "month"}, {Name: "week_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"period_kind", "income_amount", "target_amount", "available_amount", "daily_allowance", "updated_at",
			}),
		}).Create(&period).Error
		if err != nil {
			return BudgetPeriod{}, err
		}

		// The conflict path keeps the existing row's ID, so read the
		// authoritative row back
		return periodBySlot(userID, slot)
	}

	err = DB.Transaction(func(tx *gorm.DB) error {
		var existing BudgetPeriod
		err := tx.Where("user_id = ? AND year = ? AND month = ? AND week_key = 0", userID, slot.Year, slot.Month).
			First(&existing).Error

		if err != nil {
			if !errors.Is(err, ErrResourceNotFound) {
				return err
			}

			return tx.Create(&period).Error
		}

		// The derived fields are always written together with their
		// inputs, partial writes would let them drift apart
		err = tx.Model(&existing).
			Select("PeriodKind", "IncomeAmount", "TargetAmount", "AvailableAmount", "DailyAllowance").
			Updates(period).Error
		if err != nil {
			return err
		}

		period = existing
		return nil
	})
	if err != nil {
		return BudgetPeriod{}, err
	}

	return periodBySlot(userID, slot)
}

func periodBySlot(userID uuid.UUID, slot Slot) (BudgetPeriod, error) {
	weekKey := 0
	if slot.WeekNumber != nil {
		weekKey = *slot.WeekNumber
	}

	var period BudgetPeriod
	err := DB.Where("user_id = ? AND year = ? AND month = ? AND week_key = ?", userID, slot.Year, slot.Month, weekKey).
		First(&period).Error

	return period, err
}

// PeriodForUser returns the period only if it belongs to the user.
// Rows of other users are reported as missing, not as forbidden.
func PeriodForUser(userID, id uuid.UUID) (BudgetPeriod, error) {
	var period BudgetPeriod
	err := DB.Where("user_id = ? AND id = ?", userID, id).First(&period).Error
	return period, err
}

// PeriodSummary aggregates the ledger state of one period.
type PeriodSummary struct {
	TotalSpent       decimal.Decimal `json:"totalSpent" example:"421.55"`
	RemainingBudget  decimal.Decimal `json:"remainingBudget" example:"1078.45"`
	TransactionCount int64           `json:"transactionCount" example:"17"`
}

// PeriodWithSummary is a period annotated with its ledger totals.
type PeriodWithSummary struct {
	BudgetPeriod
	Summary PeriodSummary `json:"summary"`
}

// PeriodsForUser returns all periods of the user ordered newest-first,
// each annotated with its ledger summary.
func PeriodsForUser(userID uuid.UUID) ([]PeriodWithSummary, error) {
	var periods []BudgetPeriod
	err := DB.Where("user_id = ?", userID).
		Order("year DESC, month DESC").
		Find(&periods).Error
	if err != nil {
		return nil, err
	}

	type ledgerTotals struct {
		PeriodID uuid.UUID           `gorm:"column:period_id"`
		Total    decimal.NullDecimal `gorm:"column:total"`
		Count    int64               `gorm:"column:count"`
	}

	var totals []ledgerTotals
	err = DB.Table("transactions").
		Select("period_id, SUM(amount) AS total, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("period_id").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	byPeriod := make(map[uuid.UUID]ledgerTotals, len(totals))
	for _, t := range totals {
		byPeriod[t.PeriodID] = t
	}

	summaries := make([]PeriodWithSummary, 0, len(periods))
	for _, period := range periods {
		t := byPeriod[period.ID]

		summaries = append(summaries, PeriodWithSummary{
			BudgetPeriod: period,
			Summary: PeriodSummary{
				TotalSpent:       t.Total.Decimal,
				RemainingBudget:  period.AvailableAmount.Sub(t.Total.Decimal),
				TransactionCount: t.Count,
			},
		})
	}

	return summaries, nil
}

// MonthSummary describes how the ledger of a monthly period compares to
// its allowance.
//
// CurrentDay and ExpectedSpent are computed against wall-clock today,
// not the period's own date range, so they are only meaningful when the
// period is the current month.
type MonthSummary struct {
	TotalSpent      decimal.Decimal `json:"totalSpent" example:"421.55"`
	RemainingBudget decimal.Decimal `json:"remainingBudget" example:"1078.45"`
	ExpectedSpent   decimal.Decimal `json:"expectedSpent" example:"580.64"`
	Difference      decimal.Decimal `json:"difference" example:"159.09"`
	DaysInMonth     int             `json:"daysInMonth" example:"31"`
	CurrentDay      int             `json:"currentDay" example:"12"`
}

// MonthlyPeriod returns the monthly period for the year/month slot with
// its transactions ordered newest-first and the wall-clock summary.
func MonthlyPeriod(userID uuid.UUID, year, month int) (BudgetPeriod, []Transaction, MonthSummary, error) {
	var period BudgetPeriod
	err := DB.Where("user_id = ? AND year = ? AND month = ? AND week_key = 0", userID, year, month).
		First(&period).Error
	if err != nil {
		return BudgetPeriod{}, nil, MonthSummary{}, err
	}

	transactions, err := TransactionsForPeriod(userID, period.ID)
	if err != nil {
		return BudgetPeriod{}, nil, MonthSummary{}, err
	}

	totalSpent := decimal.Zero
	for _, t := range transactions {
		totalSpent = totalSpent.Add(t.Amount)
	}

	currentDay := time.Now().In(time.UTC).Day()
	expectedSpent := period.DailyAllowance.Mul(decimal.NewFromInt(int64(currentDay)))

	summary := MonthSummary{
		TotalSpent:      totalSpent,
		RemainingBudget: period.AvailableAmount.Sub(totalSpent),
		ExpectedSpent:   expectedSpent,
		Difference:      expectedSpent.Sub(totalSpent),
		DaysInMonth:     DaysIn(month, year),
		CurrentDay:      currentDay,
	}

	return period, transactions, summary, nil
}

// DeletePeriod removes the period if its ledger is empty.
//
// When transactions reference the period, nothing is deleted and
// ErrPeriodHasTransactions is returned together with the count.
func DeletePeriod(userID, id uuid.UUID) (BudgetPeriod, int64, error) {
	period, err := PeriodForUser(userID, id)
	if err != nil {
		return BudgetPeriod{}, 0, err
	}

	var count int64
	err = DB.Model(&Transaction{}).Where("period_id = ?", period.ID).Count(&count).Error
	if err != nil {
		return BudgetPeriod{}, 0, err
	}

	if count > 0 {
		return period, count, ErrPeriodHasTransactions
	}

	err = DB.Delete(&period).Error
	if err != nil {
		return BudgetPeriod{}, 0, err
	}

	return period, 0, nil
}

// ForceDeletePeriod removes the period together with all transactions
// referencing it as one atomic unit and reports how many transactions
// were removed.
func ForceDeletePeriod(userID, id uuid.UUID) (BudgetPeriod, int64, error) {
	period, err := PeriodForUser(userID, id)
	if err != nil {
		return BudgetPeriod{}, 0, err
	}

	var count int64
	err = DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("period_id = ?", period.ID).Delete(&Transaction{})
		if result.Error != nil {
			return result.Error
		}
		count = result.RowsAffected

		return tx.Delete(&period).Error
	})
	if err != nil {
		return BudgetPeriod{}, 0, err
	}

	return period, count, nil
}
