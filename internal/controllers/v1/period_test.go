package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/allowkit/backend/internal/controllers/v1"
	"github.com/allowkit/backend/internal/models"
	"github.com/allowkit/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func intp(i int) *int {
	return &i
}

func (suite *TestSuiteStandard) TestOptionsPeriods() {
	userID := uuid.New()

	recorder := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/periods", "", test.AuthHeaders(suite.T(), userID))
	suite.Assert().Equal(http.StatusNoContent, recorder.Code)
	suite.Assert().Equal("OPTIONS, POST", recorder.Header().Get("allow"))

	recorder = test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/periods/all", "", test.AuthHeaders(suite.T(), userID))
	suite.Assert().Equal(http.StatusNoContent, recorder.Code)
	suite.Assert().Equal("OPTIONS, GET", recorder.Header().Get("allow"))

	period := suite.createTestPeriod(userID, v1.PeriodEditable{
		IncomeAmount: decimal.NewFromInt(2000),
		TargetAmount: decimal.NewFromInt(500),
		Month:        3,
		Year:         2026,
	})

	recorder = test.Request(suite.T(), http.MethodOptions, periodURL(period.ID), "", test.AuthHeaders(suite.T(), userID))
	suite.Assert().Equal(http.StatusNoContent, recorder.Code)
	suite.Assert().Equal("OPTIONS, DELETE", recorder.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestCreatePeriod() {
	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/periods", v1.PeriodEditable{
		IncomeAmount: decimal.NewFromInt(1000),
		TargetAmount: decimal.NewFromInt(850),
		Month:        6,
		Year:         2026,
	}, test.AuthHeaders(suite.T(), uuid.New()))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.PeriodResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)

	suite.Assert().Equal(models.PeriodMonthly, response.Data.PeriodKind, "kind should default to monthly")
	suite.Assert().True(response.Data.AvailableAmount.Equal(decimal.NewFromInt(150)))
	suite.Assert().True(response.Data.DailyAllowance.Equal(decimal.NewFromInt(5)), "daily allowance is %s, should be 5", response.Data.DailyAllowance)
	suite.Assert().Nil(response.Data.WeekNumber)
}

func (suite *TestSuiteStandard) TestCreatePeriodWeekly() {
	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/periods", v1.PeriodEditable{
		IncomeAmount: decimal.NewFromInt(700),
		TargetAmount: decimal.NewFromInt(140),
		PeriodKind:   models.PeriodWeekly,
		Month:        3,
		Year:         2026,
		WeekNumber:   intp(12),
	}, test.AuthHeaders(suite.T(), uuid.New()))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.PeriodResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Require().NotNil(response.Data.WeekNumber)

	suite.Assert().Equal(12, *response.Data.WeekNumber)
	suite.Assert().True(response.Data.DailyAllowance.Equal(decimal.NewFromInt(80)), "daily allowance is %s, should be 80", response.Data.DailyAllowance)
}

// TestCreatePeriodRefresh verifies that posting the same slot again
// updates the existing period instead of creating a second one.
func (suite *TestSuiteStandard) TestCreatePeriodRefresh() {
	userID := uuid.New()

	first := suite.createTestPeriod(userID, v1.PeriodEditable{
		IncomeAmount: decimal.NewFromInt(2000),
		TargetAmount: decimal.NewFromInt(500),
		Month:        6,
		Year:         2026,
	})

	second := suite.createTestPeriod(userID, v1.PeriodEditable{
		IncomeAmount: decimal.NewFromInt(3000),
		TargetAmount: decimal.NewFromInt(600),
		Month:        6,
		Year:         2026,
	})

	suite.Assert().Equal(first.ID, second.ID)
	suite.Assert().True(second.AvailableAmount.Equal(decimal.NewFromInt(2400)))
	suite.Assert().True(second.DailyAllowance.Equal(decimal.NewFromInt(80)))
}

func (suite *TestSuiteStandard) TestCreatePeriodInvalid() {
	tests := []struct {
		name string
		body any
	}{
		{"Broken JSON", `{ "incomeAmount": `},
		{"Income missing", v1.PeriodEditable{TargetAmount: decimal.NewFromInt(100), Month: 3, Year: 2026}},
		{"Target at income", v1.PeriodEditable{IncomeAmount: decimal.NewFromInt(100), TargetAmount: decimal.NewFromInt(100), Month: 3, Year: 2026}},
		{"Target negative", v1.PeriodEditable{IncomeAmount: decimal.NewFromInt(100), TargetAmount: decimal.NewFromInt(-1), Month: 3, Year: 2026}},
		{"Month missing", v1.PeriodEditable{IncomeAmount: decimal.NewFromInt(100), Year: 2026}},
		{"Month out of range", v1.PeriodEditable{IncomeAmount: decimal.NewFromInt(100), Month: 13, Year: 2026}},
		{"Weekly without week number", v1.PeriodEditable{IncomeAmount: decimal.NewFromInt(100), PeriodKind: models.PeriodWeekly, Month: 3, Year: 2026}},
		{"Unknown kind", v1.PeriodEditable{IncomeAmount: decimal.NewFromInt(100), PeriodKind: "fortnightly", Month: 3, Year: 2026}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodPost, "http://example.com/v1/periods", tt.body, test.AuthHeaders(t, uuid.New()))
			test.AssertHTTPStatus(t, &recorder, http.StatusBadRequest)

			var response v1.PeriodResponse
			test.DecodeResponse(t, &recorder, &response)
			suite.Assert().Nil(response.Data)
		})
	}
}

func (suite *TestSuiteStandard) TestGetPeriods() {
	userID := uuid.New()

	older := suite.createTestPeriod(userID, v1.PeriodEditable{
		IncomeAmount: decimal.NewFromInt(2000),
		TargetAmount: decimal.NewFromInt(500),
		Month:        12,
		Year:         2025,
	})

	newer := suite.createTestPeriod(userID, v1.PeriodEditable{
		IncomeAmount: decimal.NewFromInt(2000),
		TargetAmount: decimal.NewFromInt(500),
		Month:        1,
		Year:         2026,
	})

	suite.createTestTransaction(userID, v1.TransactionEditable{PeriodID: newer.ID, Amount: decimal.NewFromInt(100)})
	suite.createTestTransaction(userID, v1.TransactionEditable{PeriodID: newer.ID, Amount: decimal.NewFromInt(50)})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/periods/all", "", test.AuthHeaders(suite.T(), userID))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.PeriodListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 2)

	suite.Assert().Equal(newer.ID, response.Data[0].ID)
	suite.Assert().Equal(older.ID, response.Data[1].ID)

	suite.Assert().True(response.Data[0].Summary.TotalSpent.Equal(decimal.NewFromInt(150)))
	suite.Assert().True(response.Data[0].Summary.RemainingBudget.Equal(decimal.NewFromInt(1350)))
	suite.Assert().Equal(int64(2), response.Data[0].Summary.TransactionCount)

	suite.Assert().True(response.Data[1].Summary.TotalSpent.IsZero())
	suite.Assert().Equal(int64(0), response.Data[1].Summary.TransactionCount)
}

func (suite *TestSuiteStandard) TestGetPeriodsEmpty() {
	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/periods/all", "", test.AuthHeaders(suite.T(), uuid.New()))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.PeriodListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 0)
}

func (suite *TestSuiteStandard) TestGetMonthlyPeriod() {
	userID := uuid.New()
	now := time.Now().In(time.UTC)

	period := suite.createTestPeriod(userID, v1.PeriodEditable{
		IncomeAmount: decimal.NewFromInt(3100),
		TargetAmount: decimal.NewFromInt(100),
		Month:        int(now.Month()),
		Year:         now.Year(),
	})

	suite.createTestTransaction(userID, v1.TransactionEditable{PeriodID: period.ID, Amount: decimal.NewFromInt(75), Date: now})

	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/periods/%d/%d", now.Year(), int(now.Month())), "", test.AuthHeaders(suite.T(), userID))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.MonthDetailResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)

	suite.Assert().Equal(period.ID, response.Data.Period.ID)
	suite.Assert().Len(response.Data.Transactions, 1)

	suite.Assert().True(response.Data.Summary.TotalSpent.Equal(decimal.NewFromInt(75)))
	suite.Assert().True(response.Data.Summary.RemainingBudget.Equal(decimal.NewFromInt(2925)))
	suite.Assert().Equal(models.DaysIn(int(now.Month()), now.Year()), response.Data.Summary.DaysInMonth)
	suite.Assert().Equal(now.Day(), response.Data.Summary.CurrentDay)

	expected := period.DailyAllowance.Mul(decimal.NewFromInt(int64(now.Day())))
	suite.Assert().True(response.Data.Summary.ExpectedSpent.Equal(expected))
	suite.Assert().True(response.Data.Summary.Difference.Equal(expected.Sub(decimal.NewFromInt(75))))
}

func (suite *TestSuiteStandard) TestGetMonthlyPeriodNotFound() {
	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/periods/2026/3", "", test.AuthHeaders(suite.T(), uuid.New()))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestGetMonthlyPeriodInvalid() {
	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/periods/notayear/3", "", test.AuthHeaders(suite.T(), uuid.New()))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestDeletePeriod() {
	userID := uuid.New()

	period := suite.createTestPeriod(userID, v1.PeriodEditable{
		IncomeAmount: decimal.NewFromInt(2000),
		TargetAmount: decimal.NewFromInt(500),
		Month:        3,
		Year:         2026,
	})

	recorder := test.Request(suite.T(), http.MethodDelete, periodURL(period.ID), "", test.AuthHeaders(suite.T(), userID))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = test.Request(suite.T(), http.MethodDelete, periodURL(period.ID), "", test.AuthHeaders(suite.T(), userID))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

// TestDeletePeriodBlocked verifies that the safe path refuses to delete
// a period with transactions and reports how many block it.
func (suite *TestSuiteStandard) TestDeletePeriodBlocked() {
	userID := uuid.New()

	period := suite.createTestPeriod(userID, v1.PeriodEditable{
		IncomeAmount: decimal.NewFromInt(2000),
		TargetAmount: decimal.NewFromInt(500),
		Month:        3,
		Year:         2026,
	})

	suite.createTestTransaction(userID, v1.TransactionEditable{PeriodID: period.ID, Amount: decimal.NewFromInt(10)})
	suite.createTestTransaction(userID, v1.TransactionEditable{PeriodID: period.ID, Amount: decimal.NewFromInt(20)})

	recorder := test.Request(suite.T(), http.MethodDelete, periodURL(period.ID), "", test.AuthHeaders(suite.T(), userID))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusConflict)

	var response v1.PeriodDeleteResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.TransactionCount)
	suite.Assert().Equal(int64(2), *response.TransactionCount)

	// Nothing was deleted
	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/periods/all", "", test.AuthHeaders(suite.T(), userID))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var list v1.PeriodListResponse
	test.DecodeResponse(suite.T(), &recorder, &list)
	suite.Require().Len(list.Data, 1)
	suite.Assert().Equal(int64(2), list.Data[0].Summary.TransactionCount)
}

func (suite *TestSuiteStandard) TestForceDeletePeriod() {
	userID := uuid.New()

	period := suite.createTestPeriod(userID, v1.PeriodEditable{
		IncomeAmount: decimal.NewFromInt(2000),
		TargetAmount: decimal.NewFromInt(500),
		Month:        3,
		Year:         2026,
	})

	transaction := suite.createTestTransaction(userID, v1.TransactionEditable{PeriodID: period.ID, Amount: decimal.NewFromInt(10)})
	suite.createTestTransaction(userID, v1.TransactionEditable{PeriodID: period.ID, Amount: decimal.NewFromInt(20)})

	recorder := test.Request(suite.T(), http.MethodDelete, periodURL(period.ID)+"/force", "", test.AuthHeaders(suite.T(), userID))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.PeriodDeleteResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.TransactionCount)
	suite.Assert().Equal(int64(2), *response.TransactionCount)

	// The transactions are gone together with the period
	recorder = test.Request(suite.T(), http.MethodDelete, transactionURL(transaction.ID), "", test.AuthHeaders(suite.T(), userID))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestDeletePeriodInvalidUUID() {
	recorder := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1/periods/notauuid", "", test.AuthHeaders(suite.T(), uuid.New()))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

// TestDeletePeriodOwnership verifies that another user's period looks
// nonexistent to the caller.
func (suite *TestSuiteStandard) TestDeletePeriodOwnership() {
	period := suite.createTestPeriod(uuid.New(), v1.PeriodEditable{
		IncomeAmount: decimal.NewFromInt(2000),
		TargetAmount: decimal.NewFromInt(500),
		Month:        3,
		Year:         2026,
	})

	recorder := test.Request(suite.T(), http.MethodDelete, periodURL(period.ID), "", test.AuthHeaders(suite.T(), uuid.New()))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	recorder = test.Request(suite.T(), http.MethodDelete, periodURL(period.ID)+"/force", "", test.AuthHeaders(suite.T(), uuid.New()))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}
