package gateway

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	domainGateway "github.com/sangkips/schoolfees-api/internal/domain/gateway"
	"github.com/sangkips/schoolfees-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// snapClient is the part of snap.Client the gateway uses.
type snapClient interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type midtransGateway struct {
	client    snapClient
	serverKey string
	log       *zap.Logger
}

// NewMidtransGateway charges through Midtrans Snap. The payer finishes on
// the returned redirect URL and the result arrives as a notification.
func NewMidtransGateway(serverKey string, production bool, log *zap.Logger) domainGateway.Gateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	var c snap.Client
	c.New(serverKey, env)
	return newMidtransGateway(&c, serverKey, log)
}

func newMidtransGateway(client snapClient, serverKey string, log *zap.Logger) *midtransGateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &midtransGateway{client: client, serverKey: serverKey, log: log}
}

func (g *midtransGateway) Name() string { return "midtrans" }

func (g *midtransGateway) Charge(ctx context.Context, req domainGateway.ChargeRequest) (*domainGateway.ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() || !req.Amount.Equal(req.Amount.Truncate(0)) {
		return nil, fmt.Errorf("midtrans: amount must be a positive whole number, got %s", req.Amount)
	}
	gross := req.Amount.IntPart()

	sr := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.AttemptID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: truncate(req.StudentName, 50),
		},
		CustomField1: truncate(req.StudentID, 40),
	}
	if req.Method == enum.PaymentMethodCard {
		sr.CreditCard = &snap.CreditCardDetails{Secure: true}
	}

	// Item prices must add up to the gross amount, so fees are shown as one line.
	names := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		names = append(names, it.Name)
	}
	itemName := "School fees"
	if len(names) > 0 {
		itemName = strings.Join(names, ", ")
	}
	sr.Items = &[]midtrans.ItemDetails{{
		ID:       req.AttemptID,
		Name:     truncate(itemName, 50),
		Price:    gross,
		Qty:      1,
		Category: "school-fees",
	}}

	resp, merr := g.client.CreateTransaction(sr)
	if merr != nil {
		g.log.Warn("midtrans charge failed", zap.String("attempt_id", req.AttemptID), zap.String("error", merr.GetMessage()))
		return nil, fmt.Errorf("midtrans: %s", merr.GetMessage())
	}

	return &domainGateway.ChargeResult{
		Status:      enum.PaymentStatusProcessing,
		Reference:   resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}

// Interpret checks the SHA-512 signature Midtrans puts on every notification
// and maps the transaction status.
func (g *midtransGateway) Interpret(n domainGateway.Notification) (*domainGateway.Outcome, error) {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + g.serverKey))
	if n.SignatureKey == "" || !strings.EqualFold(hex.EncodeToString(sum[:]), n.SignatureKey) {
		return nil, domainGateway.ErrInvalidSignature
	}

	amount, err := decimal.NewFromString(n.GrossAmount)
	if err != nil {
		return nil, fmt.Errorf("midtrans: invalid gross_amount %q", n.GrossAmount)
	}

	out := &domainGateway.Outcome{AttemptID: n.OrderID, Reference: n.TransactionID, Status: enum.PaymentStatusProcessing, Amount: amount}
	switch strings.ToLower(n.TransactionStatus) {
	case "settlement":
		out.Status = enum.PaymentStatusSucceeded
	case "capture":
		switch strings.ToLower(n.FraudStatus) {
		case "accept", "":
			out.Status = enum.PaymentStatusSucceeded
		case "challenge":
			// held for review; a later notification settles it
		default:
			out.Status = enum.PaymentStatusFailed
			out.FailureReason = "capture rejected by fraud check"
		}
	case "deny", "cancel", "expire", "failure":
		out.Status = enum.PaymentStatusFailed
		out.FailureReason = "midtrans: " + strings.ToLower(n.TransactionStatus)
	}
	return out, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
