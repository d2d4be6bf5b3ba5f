package v1

import (
	"net/http"

	"github.com/allowkit/backend/internal/auth"
	"github.com/allowkit/backend/internal/httperrors"
	"github.com/allowkit/backend/internal/httputil"
	"github.com/allowkit/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterPeriodRoutes registers the routes for budget periods with the
// RouterGroup that is passed.
func RegisterPeriodRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsPeriods)
		r.POST("", CreatePeriod)
	}

	// Collection with summaries
	{
		r.OPTIONS("/all", OptionsPeriodList)
		r.GET("/all", GetPeriods)
	}

	// Monthly slot lookup. The method trees are separate, so the GET
	// wildcard can be the year while the DELETE wildcard is the ID.
	r.GET("/:year/:month", GetMonthlyPeriod)

	// Period with ID
	{
		r.OPTIONS("/:id", OptionsPeriodDetail)
		r.DELETE("/:id", DeletePeriod)
		r.DELETE("/:id/force", ForceDeletePeriod)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Periods
// @Success		204
// @Router			/v1/periods [options]
func OptionsPeriods(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Periods
// @Success		204
// @Router			/v1/periods/all [options]
func OptionsPeriodList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Periods
// @Success		204
// @Param			id	path	string	true	"ID of the period"
// @Router			/v1/periods/{id} [options]
func OptionsPeriodDetail(c *gin.Context) {
	httputil.OptionsDelete(c)
}

// @Summary		Create or refresh a period
// @Description	Creates the budget period for the requested slot or refreshes an existing one. The available amount and daily allowance are derived from income and target.
// @Tags			Periods
// @Accept			json
// @Produce		json
// @Success		200		{object}	PeriodResponse
// @Failure		400		{object}	PeriodResponse
// @Failure		401		{object}	httperrors.HTTPError
// @Failure		409		{object}	PeriodResponse
// @Failure		500		{object}	PeriodResponse
// @Param			period	body		PeriodEditable	true	"Period"
// @Router			/v1/periods [post]
// @Security		Bearer
func CreatePeriod(c *gin.Context) {
	var editable PeriodEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		return
	}

	period, err := models.UpsertPeriod(
		auth.UserID(c),
		editable.PeriodKind,
		editable.Month,
		editable.Year,
		editable.WeekNumber,
		editable.IncomeAmount,
		editable.TargetAmount,
	)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PeriodResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, PeriodResponse{Data: &period})
}

// @Summary		List periods
// @Description	Returns all periods of the authenticated user, newest first, each with its ledger summary
// @Tags			Periods
// @Produce		json
// @Success		200	{object}	PeriodListResponse
// @Failure		401	{object}	httperrors.HTTPError
// @Failure		500	{object}	PeriodListResponse
// @Router			/v1/periods/all [get]
// @Security		Bearer
func GetPeriods(c *gin.Context) {
	periods, err := models.PeriodsForUser(auth.UserID(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PeriodListResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, PeriodListResponse{Data: periods})
}

type URIYearMonth struct {
	Year  int `uri:"year" binding:"required" example:"2026"`  // Year of the monthly period
	Month int `uri:"month" binding:"required" example:"3"`    // Month of the monthly period
}

// @Summary		Get monthly period
// @Description	Returns the monthly period for the year/month slot with its transactions and a summary block. The summary compares spending against wall-clock today, it is only meaningful when the slot is the current month.
// @Tags			Periods
// @Produce		json
// @Success		200		{object}	MonthDetailResponse
// @Failure		400		{object}	MonthDetailResponse
// @Failure		401		{object}	httperrors.HTTPError
// @Failure		404		{object}	MonthDetailResponse
// @Failure		500		{object}	MonthDetailResponse
// @Param			year	path		int	true	"Year of the period"
// @Param			month	path		int	true	"Month of the period"
// @Router			/v1/periods/{year}/{month} [get]
// @Security		Bearer
func GetMonthlyPeriod(c *gin.Context) {
	var uri URIYearMonth
	err := c.ShouldBindUri(&uri)
	if err != nil {
		httperrors.InvalidQueryString(c)
		return
	}

	period, transactions, summary, err := models.MonthlyPeriod(auth.UserID(c), uri.Year, uri.Month)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MonthDetailResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, MonthDetailResponse{Data: &MonthDetail{
		Period:       period,
		Transactions: transactions,
		Summary:      summary,
	}})
}

// @Summary		Delete period
// @Description	Deletes a period if no transactions reference it. When the ledger is not empty the deletion is blocked and the number of dependent transactions is reported.
// @Tags			Periods
// @Produce		json
// @Success		200	{object}	PeriodDeleteResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		401	{object}	httperrors.HTTPError
// @Failure		404	{object}	PeriodDeleteResponse
// @Failure		409	{object}	PeriodDeleteResponse
// @Failure		500	{object}	PeriodDeleteResponse
// @Param			id	path		string	true	"ID of the period"
// @Router			/v1/periods/{id} [delete]
// @Security		Bearer
func DeletePeriod(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperrors.InvalidUUID(c)
		return
	}

	period, count, err := models.DeletePeriod(auth.UserID(c), id)
	if err != nil {
		e := err.Error()
		response := PeriodDeleteResponse{Error: &e}
		if count > 0 {
			response.TransactionCount = &count
		}
		c.JSON(status(err), response)
		return
	}

	c.JSON(http.StatusOK, PeriodDeleteResponse{Data: &period})
}

// @Summary		Force delete period
// @Description	Deletes a period together with all transactions referencing it as one atomic unit and reports how many transactions were removed
// @Tags			Periods
// @Produce		json
// @Success		200	{object}	PeriodDeleteResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		401	{object}	httperrors.HTTPError
// @Failure		404	{object}	PeriodDeleteResponse
// @Failure		500	{object}	PeriodDeleteResponse
// @Param			id	path		string	true	"ID of the period"
// @Router			/v1/periods/{id}/force [delete]
// @Security		Bearer
func ForceDeletePeriod(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperrors.InvalidUUID(c)
		return
	}

	period, count, err := models.ForceDeletePeriod(auth.UserID(c), id)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PeriodDeleteResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, PeriodDeleteResponse{Data: &period, TransactionCount: &count})
}
