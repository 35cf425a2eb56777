// Package gateway holds the payment provider implementations.
package gateway

import (
	"context"

	domainGateway "github.com/sangkips/schoolfees-api/internal/domain/gateway"
	"github.com/sangkips/schoolfees-api/internal/domain/enum"
	"github.com/sangkips/schoolfees-api/pkg/utils"
)

// manualGateway settles at once. It records money taken at the counter or
// through a mobile wallet the cashier has already checked.
type manualGateway struct{}

func NewManualGateway() domainGateway.Gateway {
	return manualGateway{}
}

func (manualGateway) Name() string { return "manual" }

func (manualGateway) Charge(ctx context.Context, req domainGateway.ChargeRequest) (*domainGateway.ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &domainGateway.ChargeResult{
		Status:    enum.PaymentStatusSucceeded,
		Reference: utils.GenerateReferenceNo("MAN"),
	}, nil
}

func (manualGateway) Interpret(domainGateway.Notification) (*domainGateway.Outcome, error) {
	return nil, domainGateway.ErrNotificationUnused
}
