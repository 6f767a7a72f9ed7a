package admin

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"ms-storefront/internal/models"
)

// StatsService aggregates issued-ticket data for the admin dashboard.
type StatsService struct {
	db *bun.DB
}

func NewStatsService(db *bun.DB) *StatsService {
	return &StatsService{db: db}
}

// EventSales is the per-event slice of the dashboard.
type EventSales struct {
	EventID     string  `bun:"event_id" json:"event_id"`
	EventTitle  string  `bun:"event_title" json:"event_title"`
	TicketsSold int     `bun:"tickets_sold" json:"tickets_sold"`
	Revenue     float64 `bun:"revenue" json:"revenue"`
}

// DashboardStats is the admin dashboard payload.
type DashboardStats struct {
	TotalTickets int                  `json:"total_tickets"`
	TotalRevenue float64              `json:"total_revenue"`
	EventSales   []EventSales         `json:"event_sales"`
	DailyCounts  []models.TicketCount `json:"daily_counts"`
}

// Dashboard computes the aggregate view over all issued tickets.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	total, err := s.db.NewSelect().
		Model((*models.Ticket)(nil)).
		Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	var revenue float64
	err = s.db.NewSelect().
		Model((*models.Ticket)(nil)).
		ColumnExpr("COALESCE(SUM(price), 0)").
		Scan(ctx, &revenue)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	var sales []EventSales
	err = s.db.NewSelect().
		Model((*models.Ticket)(nil)).
		ColumnExpr("event_id").
		ColumnExpr("event_title").
		ColumnExpr("COUNT(*) AS tickets_sold").
		ColumnExpr("SUM(price) AS revenue").
		GroupExpr("event_id, event_title").
		OrderExpr("tickets_sold DESC").
		Scan(ctx, &sales)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate event sales: %w", err)
	}

	var daily []models.TicketCount
	err = s.db.NewSelect().
		Model(&daily).
		Order("date ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily counts: %w", err)
	}

	return &DashboardStats{
		TotalTickets: total,
		TotalRevenue: revenue,
		EventSales:   sales,
		DailyCounts:  daily,
	}, nil
}
