package service

import (
	"testing"
	"time"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tuitionFeeType(amount int64) entity.FeeType {
	return entity.FeeType{Dimensions: sixA, FeesType: "Tuition Fee", FeesAmount: decimal.NewFromInt(amount)}
}

func rahimTuitionDiscount() entity.Discount {
	return entity.Discount{
		ID:             "d-1",
		StudentName:    "Rahim Uddin",
		Dimensions:     sixA,
		FeesType:       "Tuition Fee",
		Regular:        decimal.NewFromInt(5000),
		DiscountAmount: decimal.NewFromInt(1000),
		StartDate:      entity.MustParseDate("2025-01-01"),
		EndDate:        entity.MustParseDate("2025-12-31"),
	}
}

func TestResolveFees_DiscountInsideWindow(t *testing.T) {
	res := ResolveFees(
		[]entity.FeeType{tuitionFeeType(5000)},
		[]entity.Discount{rahimTuitionDiscount()},
		sixA, entity.FeeTypeList{"Tuition Fee"}, "Rahim Uddin",
		entity.MustParseDate("2025-06-01"),
	)

	require.Len(t, res.Lines, 1)
	assertAmount(t, 4000, res.Amounts["Tuition Fee"], "amount")
	assertAmount(t, 5000, res.Lines[0].BaseAmount, "base_amount")
	assert.Equal(t, FeeSourceDiscount, res.Lines[0].Source)
	assert.Equal(t, "d-1", res.Lines[0].DiscountID)
	assertAmount(t, 4000, res.Total, "total")
}

func TestResolveFees_DiscountExpired(t *testing.T) {
	res := ResolveFees(
		[]entity.FeeType{tuitionFeeType(5500)},
		[]entity.Discount{rahimTuitionDiscount()},
		sixA, entity.FeeTypeList{"Tuition Fee"}, "Rahim Uddin",
		entity.MustParseDate("2026-01-01"),
	)

	assertAmount(t, 5500, res.Amounts["Tuition Fee"], "amount")
	assert.Equal(t, FeeSourceFeeType, res.Lines[0].Source)
	assert.Empty(t, res.Lines[0].DiscountID)
}

func TestResolveFees_WindowIsInclusive(t *testing.T) {
	for _, day := range []string{"2025-01-01", "2025-12-31"} {
		res := ResolveFees(nil, []entity.Discount{rahimTuitionDiscount()},
			sixA, entity.FeeTypeList{"Tuition Fee"}, "Rahim Uddin", entity.MustParseDate(day))
		assertAmount(t, 4000, res.Total, day)
	}
}

func TestResolveFees_DiscountNeedsStudentName(t *testing.T) {
	res := ResolveFees(
		[]entity.FeeType{tuitionFeeType(5000)},
		[]entity.Discount{rahimTuitionDiscount()},
		sixA, entity.FeeTypeList{"Tuition Fee"}, "",
		entity.MustParseDate("2025-06-01"),
	)
	assertAmount(t, 5000, res.Total, "total")

	res = ResolveFees(
		[]entity.FeeType{tuitionFeeType(5000)},
		[]entity.Discount{rahimTuitionDiscount()},
		sixA, entity.FeeTypeList{"Tuition Fee"}, "Nusrat Jahan",
		entity.MustParseDate("2025-06-01"),
	)
	assertAmount(t, 5000, res.Total, "total")
}

func TestResolveFees_Unresolved(t *testing.T) {
	other := sixA
	other.Section = "B"

	res := ResolveFees(
		[]entity.FeeType{{Dimensions: other, FeesType: "Exam Fee", FeesAmount: decimal.NewFromInt(500)}},
		nil, sixA, entity.FeeTypeList{"Exam Fee", "Library Fee"}, "", entity.MustParseDate("2025-06-01"),
	)

	assert.Equal(t, []string{"Exam Fee", "Library Fee"}, res.Unresolved)
	assertAmount(t, 0, res.Total, "total")
	for _, l := range res.Lines {
		assert.Equal(t, FeeSourceUnresolved, l.Source)
		assertAmount(t, 0, l.Amount, l.FeesType)
	}
}

func TestResolveFees_DuplicatesCollapseAndFirstMatchWins(t *testing.T) {
	res := ResolveFees(
		[]entity.FeeType{tuitionFeeType(1500), tuitionFeeType(1800)},
		nil, sixA, entity.FeeTypeList{"Tuition Fee", " Tuition Fee ", "Tuition Fee"}, "",
		entity.MustParseDate("2025-06-01"),
	)

	require.Len(t, res.Lines, 1)
	assertAmount(t, 1500, res.Total, "total")
}

func TestResolveFees_DiscountNeverNegative(t *testing.T) {
	d := rahimTuitionDiscount()
	d.Regular = decimal.NewFromInt(500)
	d.DiscountAmount = decimal.NewFromInt(800)

	res := ResolveFees(nil, []entity.Discount{d}, sixA, entity.FeeTypeList{"Tuition Fee"}, "Rahim Uddin",
		entity.MustParseDate("2025-06-01"))
	assertAmount(t, 0, res.Total, "total")
	assert.Equal(t, FeeSourceDiscount, res.Lines[0].Source)
}

func TestFeeResolver_ResolveUsesStoredData(t *testing.T) {
	e := newTestEnv(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	e.addFeeType(t, "Tuition Fee", 5000)
	e.addFeeType(t, "Exam Fee", 500)
	e.addStudent(t, "S-1001", "Rahim Uddin")
	_, err := e.discounts.Create(e.ctx, rahimTuitionDiscount())
	require.NoError(t, err)

	res, err := e.resolver.Resolve(e.ctx, sixA, entity.FeeTypeList{"Tuition Fee", "Exam Fee"}, "s-1001")
	require.NoError(t, err)
	assertAmount(t, 4500, res.Total, "total")

	// an unknown student gets no discount
	res, err = e.resolver.Resolve(e.ctx, sixA, entity.FeeTypeList{"Tuition Fee"}, "S-9999")
	require.NoError(t, err)
	assertAmount(t, 5000, res.Total, "total")
}
