// Package payments holds the payment-capture collaborator. The storefront
// ships with a simulated processor only; order creation never gates on it.
package payments

import (
	"context"
	"math/rand"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ChargeRequest struct {
	Amount float64              `json:"amount"`
	Method domain.PaymentMethod `json:"method"`
}

type Receipt struct {
	TransactionID string    `json:"transactionId"`
	Approved      bool      `json:"approved"`
	Amount        float64   `json:"amount"`
	ProcessedAt   time.Time `json:"processedAt"`
}

type Processor interface {
	Charge(ctx context.Context, req ChargeRequest) (*Receipt, error)
}

// SimulatedProcessor approves a configurable fraction of charges after an
// artificial processing delay. No money moves anywhere.
type SimulatedProcessor struct {
	approvalRate float64
	delay        time.Duration
	randFloat    func() float64
	log          *logrus.Logger
}

func NewSimulatedProcessor(approvalRate float64, delay time.Duration, logger *logrus.Logger) *SimulatedProcessor {
	return &SimulatedProcessor{
		approvalRate: approvalRate,
		delay:        delay,
		randFloat:    rand.Float64,
		log:          logger,
	}
}

// NewSimulatedProcessorWithRand substitutes the randomness source. Intended for tests.
func NewSimulatedProcessorWithRand(approvalRate float64, delay time.Duration, randFloat func() float64, logger *logrus.Logger) *SimulatedProcessor {
	p := NewSimulatedProcessor(approvalRate, delay, logger)
	p.randFloat = randFloat
	return p
}

func (p *SimulatedProcessor) Charge(ctx context.Context, req ChargeRequest) (*Receipt, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	receipt := &Receipt{
		TransactionID: "SIM-" + uuid.NewString(),
		Approved:      p.randFloat() < p.approvalRate,
		Amount:        req.Amount,
		ProcessedAt:   time.Now().UTC(),
	}

	if receipt.Approved {
		p.log.Infof("Payments: Simulated charge %s approved (%.2f via %s)", receipt.TransactionID, req.Amount, req.Method)
	} else {
		p.log.Warnf("Payments: Simulated charge %s declined (%.2f via %s)", receipt.TransactionID, req.Amount, req.Method)
	}
	return receipt, nil
}
