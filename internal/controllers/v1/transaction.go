package v1

import (
	"net/http"

	"github.com/allowkit/backend/internal/auth"
	"github.com/allowkit/backend/internal/httperrors"
	"github.com/allowkit/backend/internal/httputil"
	"github.com/allowkit/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTransactions)
		r.GET("", GetTransactions)
		r.POST("", CreateTransaction)
	}

	// Ledger of one period
	{
		r.OPTIONS("/period/:id", OptionsTransactionLedger)
		r.GET("/period/:id", GetPeriodLedger)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", OptionsTransactionDetail)
		r.PUT("/:id", UpdateTransaction)
		r.DELETE("/:id", DeleteTransaction)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions [options]
func OptionsTransactions(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Param			id	path	string	true	"ID of the period"
// @Router			/v1/transactions/period/{id} [options]
func OptionsTransactionLedger(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Param			id	path	string	true	"ID of the transaction"
// @Router			/v1/transactions/{id} [options]
func OptionsTransactionDetail(c *gin.Context) {
	httputil.OptionsPutDelete(c)
}

// @Summary		Create transaction
// @Description	Creates a transaction against a period owned by the authenticated user. The date defaults to the creation time, the kind to expense.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		201			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		401			{object}	httperrors.HTTPError
// @Failure		404			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/transactions [post]
// @Security		Bearer
func CreateTransaction(c *gin.Context) {
	var editable TransactionEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		return
	}

	transaction, err := models.CreateTransaction(auth.UserID(c), editable.model())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, TransactionResponse{Data: &transaction})
}

// @Summary		Get period ledger
// @Description	Returns the transactions of one period ordered oldest-first, each annotated with the chronological running total and the variance against the cumulative daily allowance
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	LedgerResponse
// @Failure		400	{object}	LedgerResponse
// @Failure		401	{object}	httperrors.HTTPError
// @Failure		404	{object}	LedgerResponse
// @Failure		500	{object}	LedgerResponse
// @Param			id	path		string	true	"ID of the period"
// @Router			/v1/transactions/period/{id} [get]
// @Security		Bearer
func GetPeriodLedger(c *gin.Context) {
	periodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperrors.InvalidUUID(c)
		return
	}

	userID := auth.UserID(c)

	period, err := models.PeriodForUser(userID, periodID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), LedgerResponse{Error: &e})
		return
	}

	// Fetched newest-first, accumulated oldest-to-newest. Walking the
	// slice backwards leaves the presentation order oldest-first.
	transactions, err := models.TransactionsForPeriod(userID, periodID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), LedgerResponse{Error: &e})
		return
	}

	entries := make([]LedgerEntry, 0, len(transactions))
	runningTotal := decimal.Zero

	for i := len(transactions) - 1; i >= 0; i-- {
		transaction := transactions[i]
		runningTotal = runningTotal.Add(transaction.Amount)

		expectedSpent := period.DailyAllowance.Mul(decimal.NewFromInt(int64(transaction.Date.Day())))

		entries = append(entries, LedgerEntry{
			Transaction:   transaction,
			RunningTotal:  runningTotal,
			ExpectedSpent: expectedSpent,
			Difference:    signedString(expectedSpent.Sub(runningTotal)),
		})
	}

	c.JSON(http.StatusOK, LedgerResponse{Data: entries})
}

// signedString renders the variance with an explicit leading + when it
// is not negative.
func signedString(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.String()
	}

	return "+" + d.String()
}

// @Summary		Get transactions
// @Description	Returns one page of the user's transactions across all periods, newest first
// @Tags			Transactions
// @Produce		json
// @Success		200		{object}	TransactionListResponse
// @Failure		400		{object}	TransactionListResponse
// @Failure		401		{object}	httperrors.HTTPError
// @Failure		500		{object}	TransactionListResponse
// @Param			offset	query		uint	false	"The offset of the first Transaction returned. Defaults to 0."
// @Param			limit	query		int		false	"Maximum number of Transactions to return. Defaults to 50."
// @Router			/v1/transactions [get]
// @Security		Bearer
func GetTransactions(c *gin.Context) {
	var filter TransactionQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TransactionListResponse{Error: &e})
		return
	}

	setFields := httputil.GetURLFields(c.Request.URL, filter)

	// The offset does not need checking since the default is 0 and
	// negative values fail the binding
	offset := int(filter.Offset)

	// Default to 50 transactions and set the limit. Negative limits
	// fall back to the default instead of turning the page unbounded.
	limit := 50
	if slices.Contains(setFields, "Limit") && filter.Limit >= 0 {
		limit = filter.Limit
	}

	transactions, total, err := models.Transactions(auth.UserID(c), limit, offset)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionListResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Transactions: transactions,
		Pagination: &Pagination{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: int64(offset+limit) < total,
		},
	})
}

// @Summary		Update transaction
// @Description	Updates an existing transaction. Only values present in the request are updated, absent fields stay untouched. The period reference cannot be changed.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		401			{object}	httperrors.HTTPError
// @Failure		404			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			id			path		string				true	"ID of the transaction"
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/transactions/{id} [put]
// @Security		Bearer
func UpdateTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperrors.InvalidUUID(c)
		return
	}

	userID := auth.UserID(c)

	transaction, err := models.TransactionForUser(userID, id)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &e})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, TransactionEditable{})
	if err != nil {
		return
	}

	// Transactions are never re-parented
	updateFields = slices.DeleteFunc(updateFields, func(field any) bool {
		return field == "PeriodID"
	})

	// Bind the update for the patch
	var update TransactionEditable
	err = httputil.BindData(c, &update)
	if err != nil {
		return
	}

	// If the amount set via the API request is not existent or
	// is 0, we use the old amount
	if update.Amount.IsZero() {
		update.Amount = transaction.Amount
	}

	transaction, err = models.UpdateTransaction(userID, id, updateFields, update.model())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Data: &transaction})
}

// @Summary		Delete transaction
// @Description	Deletes a transaction
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		401	{object}	httperrors.HTTPError
// @Failure		404	{object}	TransactionResponse
// @Failure		500	{object}	TransactionResponse
// @Param			id	path		string	true	"ID of the transaction"
// @Router			/v1/transactions/{id} [delete]
// @Security		Bearer
func DeleteTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperrors.InvalidUUID(c)
		return
	}

	transaction, err := models.DeleteTransaction(auth.UserID(c), id)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Data: &transaction})
}
