package database

import (
	"context"
	"fmt"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/sangkips/schoolfees-api/internal/domain/enum"
	"github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DemoStores are the stores SeedDemoData writes to.
type DemoStores struct {
	FeeTypes    repository.FeeTypeRepository
	Students    repository.StudentRepository
	Collections repository.CollectionRepository
}

var demoScope = entity.Dimensions{Class: "Six", Group: "General", Section: "A", Session: "2025"}

// DemoFeeTypes returns the sample fee schedule for one class.
func DemoFeeTypes() []entity.FeeType {
	due := entity.MustParseDate("2025-03-31")
	return []entity.FeeType{
		{Dimensions: demoScope, FeesType: "Admission Fee", FeesAmount: decimal.NewFromInt(2000), PayableLastDate: due},
		{Dimensions: demoScope, FeesType: "Tuition Fee", FeesAmount: decimal.NewFromInt(1500), PayableLastDate: due},
		{Dimensions: demoScope, FeesType: "Exam Fee", FeesAmount: decimal.NewFromInt(500), PayableLastDate: due},
	}
}

// DemoStudents returns sample students in the demo class.
func DemoStudents() []entity.Student {
	return []entity.Student{
		{StudentID: "S-1001", Name: "Rahim Uddin", ClassName: demoScope.Class, Group: demoScope.Group, Section: demoScope.Section, Session: demoScope.Session, Roll: "1", GuardianName: "Karim Uddin"},
		{StudentID: "S-1002", Name: "Nusrat Jahan", ClassName: demoScope.Class, Group: demoScope.Group, Section: demoScope.Section, Session: demoScope.Session, Roll: "2", GuardianName: "Abdul Jalil"},
	}
}

// DemoCollections returns sample collections whose derived amounts are
// already consistent with each other.
func DemoCollections() []entity.Collection {
	return []entity.Collection{
		{
			SL:            1,
			StudentID:     "S-1001",
			Dimensions:    demoScope,
			FeesType:      entity.FeeTypeList{"Admission Fee", "Tuition Fee"},
			FeesAmounts:   map[string]decimal.Decimal{"Admission Fee": decimal.NewFromInt(2000), "Tuition Fee": decimal.NewFromInt(1500)},
			TotalPayable:  decimal.NewFromInt(3500),
			PaidAmount:    decimal.NewFromInt(3000),
			PayableDue:    decimal.NewFromInt(500),
			TotalDue:      decimal.NewFromInt(500),
			PaymentMethod: enum.PaymentMethodCash,
			PayDate:       entity.MustParseDate("2025-01-10"),
		},
		{
			SL:            2,
			StudentID:     "S-1002",
			Dimensions:    demoScope,
			FeesType:      entity.FeeTypeList{"Admission Fee"},
			FeesAmounts:   map[string]decimal.Decimal{"Admission Fee": decimal.NewFromInt(2000)},
			TotalPayable:  decimal.NewFromInt(2000),
			PaidAmount:    decimal.NewFromInt(2000),
			PayableDue:    decimal.Zero,
			TotalDue:      decimal.Zero,
			PaymentMethod: enum.PaymentMethodBkash,
			PayDate:       entity.MustParseDate("2025-01-12"),
		},
	}
}

// SeedDemoData fills each empty store with sample records. Stores that
// already hold data are left alone.
func SeedDemoData(ctx context.Context, s DemoStores, log *zap.Logger) error {
	feeTypes, err := s.FeeTypes.List(ctx)
	if err != nil {
		return err
	}
	if len(feeTypes) == 0 {
		if _, err := s.FeeTypes.Append(ctx, DemoFeeTypes()...); err != nil {
			return fmt.Errorf("seed fee types: %w", err)
		}
		log.Info("seeded demo fee types")
	}

	students, err := s.Students.List(ctx)
	if err != nil {
		return err
	}
	if len(students) == 0 {
		for _, st := range DemoStudents() {
			if _, err := s.Students.Create(ctx, st); err != nil {
				return fmt.Errorf("seed student %s: %w", st.StudentID, err)
			}
		}
		log.Info("seeded demo students")
	}

	seeded, err := s.Collections.InitializeWithDefaults(ctx, DemoCollections())
	if err != nil {
		return fmt.Errorf("seed collections: %w", err)
	}
	if seeded {
		log.Info("seeded demo collections")
	}
	return nil
}
