package service

import (
	"context"
	"sort"
	"strings"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/sangkips/schoolfees-api/internal/domain/enum"
	"github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DashboardService provides fee collection statistics
type DashboardService struct {
	collections repository.CollectionRepository
	students    repository.StudentRepository
	attempts    repository.PaymentAttemptRepository
	clock       Clock
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	collections repository.CollectionRepository,
	students repository.StudentRepository,
	attempts repository.PaymentAttemptRepository,
	clock Clock,
) *DashboardService {
	return &DashboardService{
		collections: collections,
		students:    students,
		attempts:    attempts,
		clock:       clock,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalStudents      int                  `json:"total_students"`
	StudentsWithDue    int                  `json:"students_with_due"`
	TotalCollections   int                  `json:"total_collections"`
	TotalCollected     decimal.Decimal      `json:"total_collected"`
	CollectedToday     decimal.Decimal      `json:"collected_today"`
	CollectedThisMonth decimal.Decimal      `json:"collected_this_month"`
	OutstandingDue     decimal.Decimal      `json:"outstanding_due"`
	PendingPayments    int                  `json:"pending_payments"`
	DailyCollections   []DailyCollection    `json:"daily_collections"`
	ByPaymentMethod    []MethodCollection   `json:"by_payment_method"`
	TopDues            []StudentDueSnapshot `json:"top_dues"`
}

// DailyCollection is the amount taken on one day
type DailyCollection struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// MethodCollection is the amount taken through one payment method
type MethodCollection struct {
	Method enum.PaymentMethod `json:"method"`
	Amount decimal.Decimal    `json:"amount"`
	Count  int                `json:"count"`
}

// StudentDueSnapshot names a student who still owes money
type StudentDueSnapshot struct {
	StudentID string          `json:"student_id"`
	Name      string          `json:"name"`
	ClassName string          `json:"class_name"`
	FeesDue   decimal.Decimal `json:"fees_due"`
}

const (
	dashboardDays    = 7
	dashboardTopDues = 5
)

// GetDashboardStats returns dashboard statistics
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	collections, err := s.collections.List(ctx)
	if err != nil {
		return nil, err
	}
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, err
	}
	attempts, err := s.attempts.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := BuildDashboard(collections, students, attempts, today(s.clock))
	return stats, nil
}

// BuildDashboard computes the statistics from snapshots of the stores as of day.
func BuildDashboard(collections []entity.Collection, students []entity.Student, attempts []entity.PaymentAttempt, day entity.Date) *DashboardStats {
	stats := &DashboardStats{
		TotalStudents:      len(students),
		TotalCollections:   len(collections),
		TotalCollected:     decimal.Zero,
		CollectedToday:     decimal.Zero,
		CollectedThisMonth: decimal.Zero,
		OutstandingDue:     decimal.Zero,
		DailyCollections:   make([]DailyCollection, 0, dashboardDays),
		ByPaymentMethod:    []MethodCollection{},
		TopDues:            []StudentDueSnapshot{},
	}

	// Daily buckets for the last week, oldest first
	start := day.Time().AddDate(0, 0, -(dashboardDays - 1))
	daily := make(map[string]int, dashboardDays)
	for i := 0; i < dashboardDays; i++ {
		d := entity.DateOf(start.AddDate(0, 0, i)).String()
		daily[d] = i
		stats.DailyCollections = append(stats.DailyCollections, DailyCollection{Date: d, Amount: decimal.Zero})
	}

	methods := map[enum.PaymentMethod]int{}
	monthStart := entity.NewDate(day.Time().Year(), day.Time().Month(), 1)
	for _, c := range collections {
		stats.TotalCollected = stats.TotalCollected.Add(c.PaidAmount)
		if c.PayDate.Equal(day) {
			stats.CollectedToday = stats.CollectedToday.Add(c.PaidAmount)
		}
		if !c.PayDate.Before(monthStart) && !c.PayDate.After(day) {
			stats.CollectedThisMonth = stats.CollectedThisMonth.Add(c.PaidAmount)
		}
		if i, ok := daily[c.PayDate.String()]; ok {
			stats.DailyCollections[i].Amount = stats.DailyCollections[i].Amount.Add(c.PaidAmount)
			stats.DailyCollections[i].Count++
		}

		i, ok := methods[c.PaymentMethod]
		if !ok {
			i = len(stats.ByPaymentMethod)
			methods[c.PaymentMethod] = i
			stats.ByPaymentMethod = append(stats.ByPaymentMethod, MethodCollection{Method: c.PaymentMethod, Amount: decimal.Zero})
		}
		stats.ByPaymentMethod[i].Amount = stats.ByPaymentMethod[i].Amount.Add(c.PaidAmount)
		stats.ByPaymentMethod[i].Count++
	}
	sort.SliceStable(stats.ByPaymentMethod, func(i, j int) bool {
		return stats.ByPaymentMethod[i].Amount.GreaterThan(stats.ByPaymentMethod[j].Amount)
	})

	for _, st := range students {
		if !st.FeesDue.IsPositive() {
			continue
		}
		stats.StudentsWithDue++
		stats.OutstandingDue = stats.OutstandingDue.Add(st.FeesDue)
		stats.TopDues = append(stats.TopDues, StudentDueSnapshot{
			StudentID: st.StudentID,
			Name:      st.Name,
			ClassName: st.ClassName,
			FeesDue:   st.FeesDue,
		})
	}
	sort.SliceStable(stats.TopDues, func(i, j int) bool {
		if !stats.TopDues[i].FeesDue.Equal(stats.TopDues[j].FeesDue) {
			return stats.TopDues[i].FeesDue.GreaterThan(stats.TopDues[j].FeesDue)
		}
		return strings.ToLower(stats.TopDues[i].StudentID) < strings.ToLower(stats.TopDues[j].StudentID)
	})
	if len(stats.TopDues) > dashboardTopDues {
		stats.TopDues = stats.TopDues[:dashboardTopDues]
	}

	for _, a := range attempts {
		if !a.Status.IsTerminal() {
			stats.PendingPayments++
		}
	}

	return stats
}
