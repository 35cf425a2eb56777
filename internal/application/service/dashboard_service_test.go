package service

import (
	"testing"
	"time"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/sangkips/schoolfees-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paidOn(day string, paid int64, method enum.PaymentMethod) entity.Collection {
	return entity.Collection{
		StudentID:     "S-1001",
		PaidAmount:    decimal.NewFromInt(paid),
		PaymentMethod: method,
		PayDate:       entity.MustParseDate(day),
	}
}

func TestBuildDashboard(t *testing.T) {
	collections := []entity.Collection{
		paidOn("2025-06-10", 1500, enum.PaymentMethodCash),
		paidOn("2025-06-10", 500, enum.PaymentMethodBkash),
		paidOn("2025-06-05", 2000, enum.PaymentMethodCash),
		paidOn("2025-05-30", 3000, enum.PaymentMethodBank),
	}
	students := []entity.Student{
		{StudentID: "S-1001", Name: "Rahim Uddin", FeesDue: decimal.NewFromInt(500)},
		{StudentID: "S-1002", Name: "Nusrat Jahan", FeesDue: decimal.NewFromInt(1200)},
		{StudentID: "S-1003", Name: "Tanvir Ahmed", FeesDue: decimal.Zero},
	}
	attempts := []entity.PaymentAttempt{
		{Status: enum.PaymentStatusProcessing},
		{Status: enum.PaymentStatusSucceeded},
		{Status: enum.PaymentStatusInitiated},
	}

	stats := BuildDashboard(collections, students, attempts, entity.MustParseDate("2025-06-10"))

	assert.Equal(t, 3, stats.TotalStudents)
	assert.Equal(t, 2, stats.StudentsWithDue)
	assert.Equal(t, 4, stats.TotalCollections)
	assertAmount(t, 7000, stats.TotalCollected, "total_collected")
	assertAmount(t, 2000, stats.CollectedToday, "collected_today")
	assertAmount(t, 4000, stats.CollectedThisMonth, "collected_this_month")
	assertAmount(t, 1700, stats.OutstandingDue, "outstanding_due")
	assert.Equal(t, 2, stats.PendingPayments)

	require.Len(t, stats.DailyCollections, 7)
	assert.Equal(t, "2025-06-04", stats.DailyCollections[0].Date)
	assert.Equal(t, "2025-06-10", stats.DailyCollections[6].Date)
	assertAmount(t, 2000, stats.DailyCollections[6].Amount, "today bucket")
	assert.Equal(t, 2, stats.DailyCollections[6].Count)
	assertAmount(t, 2000, stats.DailyCollections[1].Amount, "2025-06-05 bucket")

	require.Len(t, stats.ByPaymentMethod, 3)
	assert.Equal(t, enum.PaymentMethodCash, stats.ByPaymentMethod[0].Method)
	assertAmount(t, 3500, stats.ByPaymentMethod[0].Amount, "cash")

	require.Len(t, stats.TopDues, 2)
	assert.Equal(t, "S-1002", stats.TopDues[0].StudentID)
}

func TestDashboardService_ReadsStores(t *testing.T) {
	e := newTestEnv(t, time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC))
	e.addFeeType(t, "Tuition Fee", 5000)
	e.addStudent(t, "S-1001", "Rahim Uddin")

	d := draftFor("S-1001", 2000, "Tuition Fee")
	d.Confirmed = true
	_, _, err := e.collectionSvc.Submit(e.ctx, d)
	require.NoError(t, err)

	stats, err := NewDashboardService(e.collections, e.students, e.attempts, e.clock).GetDashboardStats(e.ctx)
	require.NoError(t, err)
	assertAmount(t, 2000, stats.CollectedToday, "collected_today")
	assertAmount(t, 3000, stats.OutstandingDue, "outstanding_due")
	assert.Equal(t, 1, stats.StudentsWithDue)
}
