package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/sangkips/schoolfees-api/pkg/apperror"
	"github.com/sangkips/schoolfees-api/pkg/logger"
	"github.com/sangkips/schoolfees-api/pkg/printer"
	"github.com/sangkips/schoolfees-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PrinterService builds money receipts and sends them to the receipt printer.
type PrinterService struct {
	printer     printer.Printer
	collections repository.CollectionRepository
	students    repository.StudentRepository
	school      *SchoolService
	clock       Clock
	width       int
	log         *zap.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	collections repository.CollectionRepository,
	students repository.StudentRepository,
	school *SchoolService,
	clock Clock,
	width int,
	log *zap.Logger,
) *PrinterService {
	return &PrinterService{
		printer:     p,
		collections: collections,
		students:    students,
		school:      school,
		clock:       clock,
		width:       width,
		log:         logger.OrNop(log),
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	kind := s.printer.Kind()
	return &PrinterStatus{
		Configured: kind != "none",
		Connected:  s.printer.Available(ctx),
		Type:       kind,
	}
}

// BuildReceipt composes the receipt of a collection without printing it.
func (s *PrinterService) BuildReceipt(ctx context.Context, key string) (*entity.Receipt, error) {
	c, err := s.collections.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.NewNotFoundError("Collection")
	}

	info, err := s.school.GetSchoolInfo(ctx)
	if err != nil {
		return nil, err
	}

	r := &entity.Receipt{
		Header: entity.ReceiptHeader{
			SchoolName: info.Name,
			Address:    info.Address,
			Phone:      info.Phone,
			EIIN:       info.EIIN,
		},
		ReceiptNo:     utils.GenerateReceiptNo("MR", c.SL),
		CollectionSL:  c.SL,
		Date:          c.PayDate.String(),
		StudentID:     c.StudentID,
		Scope:         c.Dimensions.Label(),
		PaymentMethod: string(c.PaymentMethod),
		Currency:      info.Currency,
		Lines:         make([]entity.ReceiptLine, 0, len(c.FeesType)),
		TotalPayable:  c.TotalPayable,
		Paid:          c.PaidAmount,
		PayableDue:    c.PayableDue,
		TotalDue:      c.TotalDue,
	}

	if st, err := s.students.GetByID(ctx, c.StudentID); err == nil && st != nil {
		r.StudentName = st.Name
	}

	for _, name := range c.FeesType {
		amount, ok := c.FeesAmounts[name]
		if !ok {
			amount = decimal.Zero
		}
		r.Lines = append(r.Lines, entity.ReceiptLine{FeesType: name, Amount: amount})
	}
	return r, nil
}

// PrintCollectionReceipt builds and prints the receipt of a collection. The
// receipt is returned even when printing fails so it can be shown instead.
func (s *PrinterService) PrintCollectionReceipt(ctx context.Context, key string) (*entity.Receipt, error) {
	r, err := s.BuildReceipt(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(ctx, FormatReceipt(r, s.width)); err != nil {
		s.log.Warn("receipt not printed", zap.Int64("sl", r.CollectionSL), zap.String("printer", s.printer.Kind()), zap.Error(err))
		return r, fmt.Errorf("failed to print receipt: %w", err)
	}
	return r, nil
}

// TestPrint sends a sample receipt so the operator can check alignment.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	info, err := s.school.GetSchoolInfo(ctx)
	if err != nil {
		return nil, err
	}
	r := &entity.Receipt{
		Header:        entity.ReceiptHeader{SchoolName: info.Name, Address: info.Address, Phone: info.Phone, EIIN: info.EIIN},
		ReceiptNo:     "TEST",
		Date:          s.today().String(),
		StudentID:     "S-000",
		StudentName:   "Test Student",
		Scope:         "Class 1 / Session 2025",
		PaymentMethod: "cash",
		Currency:      info.Currency,
		Lines: []entity.ReceiptLine{
			{FeesType: "Tuition Fee", Amount: decimal.NewFromInt(1500)},
			{FeesType: "Exam Fee", Amount: decimal.NewFromInt(500)},
		},
		TotalPayable: decimal.NewFromInt(2000),
		Paid:         decimal.NewFromInt(2000),
		PayableDue:   decimal.Zero,
		TotalDue:     decimal.Zero,
	}
	if err := s.printer.Print(ctx, FormatReceipt(r, s.width)); err != nil {
		return r, fmt.Errorf("failed to print test page: %w", err)
	}
	return r, nil
}

func (s *PrinterService) today() entity.Date {
	if s.clock == nil {
		return entity.DateOf(time.Now())
	}
	return today(s.clock)
}

func money(currency string, d decimal.Decimal) string {
	if currency == "" {
		return d.StringFixed(2)
	}
	return currency + " " + d.StringFixed(2)
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	doc.Heading(r.Header.SchoolName, printer.FontDouble)
	doc.SetAlign(printer.AlignCenter)
	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.EIIN != "" {
		doc.TextF("EIIN: %s", r.Header.EIIN)
	}
	doc.SetBold(true).Text("MONEY RECEIPT").SetBold(false)
	doc.SetAlign(printer.AlignLeft).Separator('-')

	doc.KeyValue("Receipt:", r.ReceiptNo).
		KeyValue("Date:", r.Date).
		KeyValue("Student ID:", r.StudentID)
	if r.StudentName != "" {
		doc.KeyValue("Name:", r.StudentName)
	}
	doc.Text(r.Scope)
	doc.KeyValue("Paid by:", r.PaymentMethod)
	doc.Separator('-')

	for _, l := range r.Lines {
		doc.KeyValue(l.FeesType, money("", l.Amount))
	}
	doc.Separator('-')

	doc.KeyValue("Total payable:", money(r.Currency, r.TotalPayable))
	doc.SetBold(true).
		KeyValue("PAID:", money(r.Currency, r.Paid)).
		SetBold(false)
	doc.KeyValue("Payable due:", money(r.Currency, r.PayableDue))
	if r.TotalDue.IsPositive() {
		doc.KeyValue("Total due:", money(r.Currency, r.TotalDue))
	}
	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter).
		FeedLines(1).
		Text("Thank you").
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
