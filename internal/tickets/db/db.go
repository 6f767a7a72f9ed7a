package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"ms-storefront/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// CreateTickets appends a whole checkout batch inside one transaction: either
// every ticket from the batch becomes visible or none does.
func (d *DB) CreateTickets(ctx context.Context, tickets []models.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	return d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&tickets).Exec(ctx)
		return err
	})
}

// GetTicketsByUser returns the user's tickets in insertion order.
func (d *DB) GetTicketsByUser(ctx context.Context, userID string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := d.Bun.NewSelect().
		Model(&tickets).
		Where("user_id = ?", userID).
		Order("issued_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// GetTicketByNumber fetches one ticket, scoped to its owner.
func (d *DB) GetTicketByNumber(ctx context.Context, userID, ticketNumber string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.Bun.NewSelect().
		Model(&ticket).
		Where("user_id = ?", userID).
		Where("ticket_number = ?", ticketNumber).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetTotalTicketsCount returns the total number of issued tickets.
func (d *DB) GetTotalTicketsCount(ctx context.Context) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Ticket)(nil)).
		Count(ctx)
}

// IncrementTicketCount bumps the per-event daily issuance tally.
func (d *DB) IncrementTicketCount(ctx context.Context, eventID string, timestamp time.Time) error {
	date := timestamp.Truncate(24 * time.Hour)

	var existing models.TicketCount
	err := d.Bun.NewSelect().
		Model(&existing).
		Where("event_id = ?", eventID).
		Where("date = ?", date).
		Limit(1).
		Scan(ctx)
	if err != nil {
		newCount := models.TicketCount{
			EventID: eventID,
			Date:    date,
			Count:   1,
		}
		_, err = d.Bun.NewInsert().Model(&newCount).Exec(ctx)
		return err
	}

	existing.Count++
	_, err = d.Bun.NewUpdate().
		Model(&existing).
		Column("count").
		Where("id = ?", existing.ID).
		Exec(ctx)
	return err
}

// GetTicketCountsForEvent returns the daily tallies for one event.
func (d *DB) GetTicketCountsForEvent(ctx context.Context, eventID string) ([]models.TicketCount, error) {
	var counts []models.TicketCount
	err := d.Bun.NewSelect().
		Model(&counts).
		Where("event_id = ?", eventID).
		Order("date ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticket counts for event %s: %w", eventID, err)
	}
	return counts, nil
}
