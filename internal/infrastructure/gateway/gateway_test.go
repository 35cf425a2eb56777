package gateway

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	domainGateway "github.com/sangkips/schoolfees-api/internal/domain/gateway"
	"github.com/sangkips/schoolfees-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServerKey = "SB-Mid-server-test"

type fakeSnap struct {
	req  *snap.Request
	resp *snap.Response
	err  *midtrans.Error
}

func (f *fakeSnap) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	f.req = req
	return f.resp, f.err
}

func signed(n domainGateway.Notification) domainGateway.Notification {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + testServerKey))
	n.SignatureKey = hex.EncodeToString(sum[:])
	return n
}

func notification(status, fraud string) domainGateway.Notification {
	return signed(domainGateway.Notification{
		OrderID:           "att-1",
		TransactionID:     "tx-1",
		TransactionStatus: status,
		FraudStatus:       fraud,
		StatusCode:        "200",
		GrossAmount:       "5000.00",
	})
}

func TestMidtransCharge(t *testing.T) {
	client := &fakeSnap{resp: &snap.Response{Token: "tok", RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/tok"}}
	g := newMidtransGateway(client, testServerKey, nil)

	res, err := g.Charge(context.Background(), domainGateway.ChargeRequest{
		AttemptID:   "att-1",
		Amount:      decimal.RequireFromString("5000.00"),
		Method:      enum.PaymentMethodCard,
		StudentID:   "S-1001",
		StudentName: "Rahim Uddin",
		Items: []domainGateway.ChargeItem{
			{Name: "Tuition Fee", Amount: decimal.NewFromInt(4500)},
			{Name: "Exam Fee", Amount: decimal.NewFromInt(500)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, enum.PaymentStatusProcessing, res.Status)
	assert.Equal(t, "tok", res.Reference)
	assert.Equal(t, client.resp.RedirectURL, res.RedirectURL)

	require.NotNil(t, client.req)
	assert.Equal(t, "att-1", client.req.TransactionDetails.OrderID)
	assert.Equal(t, int64(5000), client.req.TransactionDetails.GrossAmt)
	require.NotNil(t, client.req.CreditCard)
	assert.True(t, client.req.CreditCard.Secure)
	require.NotNil(t, client.req.Items)
	items := *client.req.Items
	require.Len(t, items, 1)
	assert.Equal(t, "Tuition Fee, Exam Fee", items[0].Name)
	assert.Equal(t, int64(5000), items[0].Price)
}

func TestMidtransChargeErrors(t *testing.T) {
	g := newMidtransGateway(&fakeSnap{}, testServerKey, nil)
	_, err := g.Charge(context.Background(), domainGateway.ChargeRequest{AttemptID: "att-1", Amount: decimal.Zero})
	assert.Error(t, err)

	client := &fakeSnap{}
	g = newMidtransGateway(client, testServerKey, nil)
	_, err = g.Charge(context.Background(), domainGateway.ChargeRequest{AttemptID: "att-1", Amount: decimal.RequireFromString("1500.40")})
	assert.Error(t, err, "fractional amounts are not rounded")
	assert.Nil(t, client.req)

	g = newMidtransGateway(&fakeSnap{err: &midtrans.Error{Message: "access denied"}}, testServerKey, nil)
	_, err = g.Charge(context.Background(), domainGateway.ChargeRequest{AttemptID: "att-1", Amount: decimal.NewFromInt(100)})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "access denied"), err.Error())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Charge(ctx, domainGateway.ChargeRequest{AttemptID: "att-1", Amount: decimal.NewFromInt(100)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMidtransInterpret(t *testing.T) {
	g := newMidtransGateway(&fakeSnap{}, testServerKey, nil)

	tests := []struct {
		status, fraud string
		want          enum.PaymentStatus
	}{
		{"settlement", "", enum.PaymentStatusSucceeded},
		{"capture", "accept", enum.PaymentStatusSucceeded},
		{"capture", "challenge", enum.PaymentStatusProcessing},
		{"capture", "deny", enum.PaymentStatusFailed},
		{"pending", "", enum.PaymentStatusProcessing},
		{"expire", "", enum.PaymentStatusFailed},
		{"CANCEL", "", enum.PaymentStatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.status+"/"+tt.fraud, func(t *testing.T) {
			out, err := g.Interpret(notification(tt.status, tt.fraud))
			require.NoError(t, err)
			assert.Equal(t, "att-1", out.AttemptID)
			assert.Equal(t, "tx-1", out.Reference)
			assert.Equal(t, tt.want, out.Status)
			assert.True(t, decimal.NewFromInt(5000).Equal(out.Amount), out.Amount.String())
			if tt.want == enum.PaymentStatusFailed {
				assert.NotEmpty(t, out.FailureReason)
			}
		})
	}
}

func TestMidtransInterpretRejectsBadSignature(t *testing.T) {
	g := newMidtransGateway(&fakeSnap{}, testServerKey, nil)

	n := notification("settlement", "")
	n.GrossAmount = "1.00"
	_, err := g.Interpret(n)
	assert.ErrorIs(t, err, domainGateway.ErrInvalidSignature)

	n = notification("settlement", "")
	n.SignatureKey = ""
	_, err = g.Interpret(n)
	assert.ErrorIs(t, err, domainGateway.ErrInvalidSignature)

	n = notification("settlement", "")
	n.SignatureKey = strings.ToUpper(n.SignatureKey)
	_, err = g.Interpret(n)
	assert.NoError(t, err, "hex case does not matter")
}

func TestMidtransInterpretRejectsBadAmount(t *testing.T) {
	g := newMidtransGateway(&fakeSnap{}, testServerKey, nil)

	n := notification("settlement", "")
	n.GrossAmount = "five thousand"
	_, err := g.Interpret(signed(n))
	require.Error(t, err)
	assert.NotErrorIs(t, err, domainGateway.ErrInvalidSignature)
}

func TestManualGateway(t *testing.T) {
	g := NewManualGateway()
	assert.Equal(t, "manual", g.Name())

	res, err := g.Charge(context.Background(), domainGateway.ChargeRequest{AttemptID: "att-1", Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusSucceeded, res.Status)
	assert.True(t, strings.HasPrefix(res.Reference, "MAN-"))

	_, err = g.Interpret(domainGateway.Notification{})
	assert.ErrorIs(t, err, domainGateway.ErrNotificationUnused)
}
