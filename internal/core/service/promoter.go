package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nightflow/nightflow-core/internal/core/ports"
)

// promoterCommissionRate is the share of attributed gross a promoter earns.
const promoterCommissionRate = 0.10

// PromoterService rolls up referral performance for the promoter mobile view.
type PromoterService struct {
	sales      ports.SaleRepository
	tenantID   string
	linkDomain string // e.g. "nightflow.com"
	log        zerolog.Logger
}

func NewPromoterService(sales ports.SaleRepository, tenantID, linkDomain string, log zerolog.Logger) *PromoterService {
	return &PromoterService{sales: sales, tenantID: tenantID, linkDomain: linkDomain, log: log}
}

// Stats aggregates the ledger entries attributed to the referral code and
// builds the promoter's share link.
func (p *PromoterService) Stats(ctx context.Context, refCode string) (*ports.PromoterStats, error) {
	attributed, err := p.sales.ListByReferral(ctx, p.tenantID, refCode)
	if err != nil {
		return nil, fmt.Errorf("promoter stats: %w", err)
	}

	var gross float64
	for _, sale := range attributed {
		gross += sale.Amount
	}

	return &ports.PromoterStats{
		Sales:       len(attributed),
		GrossAmount: gross,
		Commission:  gross * promoterCommissionRate,
		ShareLink:   fmt.Sprintf("https://%s/reserva?ref=%s", p.linkDomain, refCode),
	}, nil
}
