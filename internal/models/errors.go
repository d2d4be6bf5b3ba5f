package models

import "errors"

var (
	// ErrGeneral is returned for database errors we cannot translate
	// into something actionable for the user. The original error is
	// logged, the user only ever sees this message.
	ErrGeneral = errors.New("an error occurred on the server during your request")

	// ErrResourceNotFound is wrapped with the resource name by the
	// query callback, e.g. "there is no budget period matching your query".
	ErrResourceNotFound = errors.New("there is no")
)

// Period validation errors
var (
	ErrMonthAndYearRequired = errors.New("month and year must be set")
	ErrMonthOutOfRange      = errors.New("month must be between 1 and 12")
	ErrWeekNumberRequired   = errors.New("weekly periods require a week number")
	ErrPeriodKindInvalid    = errors.New("the period kind must be 'monthly' or 'weekly'")
	ErrIncomeNotPositive    = errors.New("the income amount must be larger than zero")
	ErrTargetNegative       = errors.New("the target amount must not be negative")
	ErrTargetNotBelowIncome = errors.New("the target amount must be smaller than the income amount")
)

// ErrPeriodSlotNotUnique surfaces when a concurrent writer won the race
// for the same (user, year, month, week) slot.
var ErrPeriodSlotNotUnique = errors.New("a budget period for this user and time slot already exists")

// Deletion guard errors
var ErrPeriodHasTransactions = errors.New("the budget period has transactions, delete them first or force the deletion")

// Transaction validation errors
var (
	ErrAmountNotPositive      = errors.New("the transaction amount must be larger than zero")
	ErrTransactionKindInvalid = errors.New("the transaction kind must be 'expense' or 'income'")
)
