// Package payment simulates the external payment gateway. A real
// integration would go behind the same interface.
package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type Result struct {
	Success   bool   `json:"success"`
	Reference string `json:"reference,omitempty"`
}

type Gateway interface {
	SubmitPayment(ctx context.Context, method string, amount float64) (Result, error)
}

type SimulatedGateway struct{}

func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{}
}

func (g *SimulatedGateway) SubmitPayment(ctx context.Context, method string, amount float64) (Result, error) {
	if method == "" {
		return Result{}, errors.New("payment method is required")
	}
	if amount <= 0 {
		return Result{}, errors.New("payment amount must be positive")
	}
	return Result{Success: true, Reference: uuid.NewString()}, nil
}

var _ Gateway = (*SimulatedGateway)(nil)
