package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nightflow/nightflow-core/internal/core/ports"
)

const (
	platformFeeRate   = 0.05
	partnerPayoutRate = 0.10
)

// FinanceService computes the ledger rollup behind the finance screen.
type FinanceService struct {
	sales    ports.SaleRepository
	tenantID string
	log      zerolog.Logger
}

func NewFinanceService(sales ports.SaleRepository, tenantID string, log zerolog.Logger) *FinanceService {
	return &FinanceService{sales: sales, tenantID: tenantID, log: log}
}

// Summary aggregates the tenant's full ledger: gross revenue, platform fees,
// the 10% partner payout pool, and the resulting net.
func (f *FinanceService) Summary(ctx context.Context) (*ports.FinanceSummary, error) {
	ledger, err := f.sales.ListByTenant(ctx, f.tenantID)
	if err != nil {
		return nil, fmt.Errorf("finance summary: %w", err)
	}

	var gross float64
	for _, sale := range ledger {
		gross += sale.Amount
	}

	fees := gross * platformFeeRate
	payouts := gross * partnerPayoutRate
	return &ports.FinanceSummary{
		GrossRevenue:   gross,
		PlatformFees:   fees,
		PartnerPayouts: payouts,
		NetRevenue:     gross - fees - payouts,
		Transactions:   len(ledger),
	}, nil
}
