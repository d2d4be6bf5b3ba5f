package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionKind classifies a ledger entry.
type TransactionKind string

const (
	KindExpense TransactionKind = "expense"
	KindIncome  TransactionKind = "income"
)

// Transaction is one ledger entry attached to a budget period.
//
// A transaction has no meaning without its period and is never
// re-parented.
type Transaction struct {
	DefaultModel
	UserID      uuid.UUID       `json:"userId"`
	PeriodID    uuid.UUID       `json:"periodId"`
	Period      BudgetPeriod    `json:"-"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"14.03"`
	Kind        TransactionKind `json:"kind" example:"expense" default:"expense"`
	Description string          `json:"description,omitempty" example:"Lunch"`
	Date        time.Time       `json:"date,omitempty"` // Time the expense occurred, defaults to creation time
}

// BeforeSave defaults the date to write time and the kind to expense.
func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	if t.Kind == "" {
		t.Kind = KindExpense
	}

	t.Description = strings.TrimSpace(t.Description)
	return nil
}

// AfterSave validates the fields gorm cannot express as column
// constraints across store engines.
func (t *Transaction) AfterSave(_ *gorm.DB) error {
	if !t.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	if t.Kind != KindExpense && t.Kind != KindIncome {
		return ErrTransactionKindInvalid
	}

	return nil
}

// AfterFind updates the timestamps to use UTC as timezone, see
// DefaultModel.AfterFind.
func (t *Transaction) AfterFind(_ *gorm.DB) error {
	t.Date = t.Date.In(time.UTC)
	return nil
}

// CreateTransaction verifies that the period belongs to the user, then
// persists the transaction against it.
func CreateTransaction(userID uuid.UUID, transaction Transaction) (Transaction, error) {
	if !transaction.Amount.IsPositive() {
		return Transaction{}, ErrAmountNotPositive
	}

	period, err := PeriodForUser(userID, transaction.PeriodID)
	if err != nil {
		return Transaction{}, err
	}

	transaction.UserID = userID
	transaction.PeriodID = period.ID

	err = DB.Create(&transaction).Error
	if err != nil {
		return Transaction{}, err
	}

	return transaction, nil
}

// TransactionForUser returns the transaction only if it belongs to the
// user.
func TransactionForUser(userID, id uuid.UUID) (Transaction, error) {
	var transaction Transaction
	err := DB.Where("user_id = ? AND id = ?", userID, id).First(&transaction).Error
	return transaction, err
}

// TransactionsForPeriod returns the ledger of one period ordered
// newest-first after verifying the period belongs to the user.
func TransactionsForPeriod(userID, periodID uuid.UUID) ([]Transaction, error) {
	_, err := PeriodForUser(userID, periodID)
	if err != nil {
		return nil, err
	}

	var transactions []Transaction
	err = DB.Where("user_id = ? AND period_id = ?", userID, periodID).
		Order("datetime(transactions.date) DESC, datetime(transactions.created_at) DESC").
		Find(&transactions).Error

	return transactions, err
}

// Transactions returns one page of the user's cross-period ledger,
// newest-first, together with the total number of rows.
func Transactions(userID uuid.UUID, limit, offset int) ([]Transaction, int64, error) {
	var total int64
	err := DB.Model(&Transaction{}).Where("user_id = ?", userID).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var transactions []Transaction
	err = DB.Where("user_id = ?", userID).
		Order("datetime(transactions.date) DESC, datetime(transactions.created_at) DESC").
		Limit(limit).
		Offset(offset).
		Find(&transactions).Error

	return transactions, total, err
}

// UpdateTransaction applies a partial update to the transaction. Only
// the fields named in updateFields are written, everything else stays
// untouched.
func UpdateTransaction(userID, id uuid.UUID, updateFields []any, update Transaction) (Transaction, error) {
	transaction, err := TransactionForUser(userID, id)
	if err != nil {
		return Transaction{}, err
	}

	err = DB.Model(&transaction).Select("", updateFields...).Updates(update).Error
	if err != nil {
		return Transaction{}, err
	}

	return TransactionForUser(userID, id)
}

// DeleteTransaction removes the transaction unconditionally once
// ownership is verified.
func DeleteTransaction(userID, id uuid.UUID) (Transaction, error) {
	transaction, err := TransactionForUser(userID, id)
	if err != nil {
		return Transaction{}, err
	}

	err = DB.Delete(&transaction).Error
	if err != nil {
		return Transaction{}, err
	}

	return transaction, nil
}
