package service

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/sangkips/schoolfees-api/pkg/printer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPrinterFixture(t *testing.T) (*testEnv, *printer.Recorder, *PrinterService) {
	t.Helper()
	e := newTestEnv(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	e.addFeeType(t, "Tuition Fee", 1500)
	e.addFeeType(t, "Exam Fee", 500)
	e.addStudent(t, "S-1001", "Rahim Uddin")

	d := draftFor("S-1001", 1500, "Tuition Fee", "Exam Fee")
	d.Confirmed = true
	_, _, err := e.collectionSvc.Submit(e.ctx, d)
	require.NoError(t, err)

	rec := &printer.Recorder{}
	return e, rec, NewPrinterService(rec, e.collections, e.students, e.schoolSvc, e.clock, 32, zap.NewNop())
}

func TestPrinterService_BuildReceipt(t *testing.T) {
	e, rec, svc := newPrinterFixture(t)

	r, err := svc.BuildReceipt(e.ctx, "1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(r.ReceiptNo, "MR-000001-"), r.ReceiptNo)
	assert.Equal(t, "Green Valley School", r.Header.SchoolName)
	assert.Equal(t, "BDT", r.Currency)
	assert.Equal(t, "Rahim Uddin", r.StudentName)
	assert.Equal(t, "Six / General / A / 2025", r.Scope)
	require.Len(t, r.Lines, 2)
	assert.Equal(t, "Tuition Fee", r.Lines[0].FeesType)
	assertAmount(t, 500, r.Lines[1].Amount, "exam fee")
	assertAmount(t, 500, r.TotalDue, "total_due")
	assert.Empty(t, rec.Jobs(), "building does not print")

	_, err = svc.BuildReceipt(e.ctx, "7")
	requireAppError(t, err, http.StatusNotFound)
}

func TestPrinterService_PrintCollectionReceipt(t *testing.T) {
	e, rec, svc := newPrinterFixture(t)

	_, err := svc.PrintCollectionReceipt(e.ctx, "1")
	require.NoError(t, err)

	jobs := rec.Jobs()
	require.Len(t, jobs, 1)
	assert.True(t, bytes.Contains(jobs[0], []byte("Green Valley School")))
	assert.True(t, bytes.Contains(jobs[0], []byte("MONEY RECEIPT")))
	assert.True(t, bytes.Contains(jobs[0], []byte("Total due:")))

	rec.Err = errors.New("paper out")
	r, err := svc.PrintCollectionReceipt(e.ctx, "1")
	require.Error(t, err)
	assert.NotNil(t, r, "the receipt is still returned")
	assert.Len(t, rec.Jobs(), 1)
}

func TestPrinterService_Status(t *testing.T) {
	e, _, svc := newPrinterFixture(t)

	st := svc.GetStatus(e.ctx)
	assert.True(t, st.Configured)
	assert.True(t, st.Connected)
	assert.Equal(t, "recorder", st.Type)

	none := NewPrinterService(printer.Discard(), e.collections, e.students, e.schoolSvc, e.clock, 32, nil)
	st = none.GetStatus(e.ctx)
	assert.False(t, st.Configured)
	assert.False(t, st.Connected)
}

func TestPrinterService_TestPrint(t *testing.T) {
	e, rec, svc := newPrinterFixture(t)

	r, err := svc.TestPrint(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", r.Date)
	require.Len(t, rec.Jobs(), 1)
}

func TestFormatReceipt_OmitsTotalDueWhenSettled(t *testing.T) {
	r := &entity.Receipt{
		Header:       entity.ReceiptHeader{SchoolName: "Green Valley School"},
		ReceiptNo:    "MR-000002-ABCD",
		Currency:     "BDT",
		Lines:        []entity.ReceiptLine{{FeesType: "Tuition Fee", Amount: decimal.NewFromInt(1500)}},
		TotalPayable: decimal.NewFromInt(1500),
		Paid:         decimal.NewFromInt(1500),
		PayableDue:   decimal.Zero,
		TotalDue:     decimal.Zero,
	}

	out := FormatReceipt(r, 32)
	assert.True(t, bytes.Contains(out, []byte("BDT 1500.00")))
	assert.False(t, bytes.Contains(out, []byte("Total due:")))
}
