package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/yagnesh-3/fira/internal/model"
	"github.com/yagnesh-3/fira/internal/queue"
	"github.com/yagnesh-3/fira/internal/repository"
)

// Refunder issues a refund against a payment. Satisfied by
// PaymentService.
type Refunder interface {
	RequestRefund(ctx context.Context, paymentID uint64, reason string, amount *decimal.Decimal) (*model.Refund, error)
}

// EventService orchestrates event cancellation: it cancels every active
// ticket, refunds the paid ones, notifies their holders, and finally
// moves the event itself into its terminal state. The batch is
// deliberately sequential and non-transactional; each ticket is
// processed in its own error scope so one bad refund cannot abort the
// rest.
type EventService struct {
	events    EventStore
	tickets   TicketStore
	refunder  Refunder
	notifier  NotificationStore
	publisher CancellationPublisher // optional, may be nil
	log       zerolog.Logger
}

// NewEventService constructs an EventService. publisher may be nil when
// no message broker is configured.
func NewEventService(events EventStore, tickets TicketStore, refunder Refunder, notifier NotificationStore, publisher CancellationPublisher, log zerolog.Logger) *EventService {
	if events == nil || tickets == nil || refunder == nil || notifier == nil {
		panic("nil dependency passed to NewEventService")
	}
	return &EventService{
		events:    events,
		tickets:   tickets,
		refunder:  refunder,
		notifier:  notifier,
		publisher: publisher,
		log:       log,
	}
}

// RefundSummary aggregates the outcome of the cancellation batch.
// RefundsInitiated and RefundsFailed count only tickets that had an
// associated payment; unpaid tickets appear in TotalTickets alone.
// FailedTicketIDs lists every ticket whose processing failed so an
// operator can re-drive just those.
type RefundSummary struct {
	TotalTickets      int             `json:"total_tickets"`
	RefundsInitiated  int             `json:"refunds_initiated"`
	RefundsFailed     int             `json:"refunds_failed"`
	TotalRefundAmount decimal.Decimal `json:"total_refund_amount"`
	FailedTicketIDs   []uint64        `json:"failed_ticket_ids,omitempty"`
}

// CancelOutcome is returned by CancelEvent: the updated event plus the
// aggregate refund result.
type CancelOutcome struct {
	Event   *model.Event  `json:"event"`
	Refunds RefundSummary `json:"refund_results"`
}

// CancelEvent cancels an event on behalf of its organizer. The event
// itself is the only idempotency guard: cancelling an already-cancelled
// event fails with ErrEventAlreadyCancelled and performs no writes.
// Once the per-ticket loop has run, the event is unconditionally marked
// cancelled with zero attendees, even if every refund failed; callers
// must inspect the summary counters to detect degraded outcomes.
func (s *EventService) CancelEvent(ctx context.Context, eventID, organizerID uint64, reason string) (*CancelOutcome, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	// The terminal-state guard comes before ownership so any caller
	// probing a cancelled event sees the same answer as its organizer.
	if event.Status == model.EventCancelled {
		return nil, ErrEventAlreadyCancelled
	}
	if event.OrganizerID != organizerID {
		return nil, repository.ErrForbidden
	}

	tickets, err := s.tickets.ListActiveByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load active tickets: %w", err)
	}

	now := time.Now().UTC()
	summary := RefundSummary{
		TotalTickets:      len(tickets),
		TotalRefundAmount: decimal.Zero,
	}
	for i := range tickets {
		s.processTicket(ctx, &tickets[i], event, reason, now, &summary)
	}

	if err := s.events.MarkCancelled(ctx, eventID, reason, now); err != nil {
		return nil, fmt.Errorf("mark event cancelled: %w", err)
	}
	event.Status = model.EventCancelled
	event.CancellationReason = &reason
	event.CancelledAt = &now
	event.CurrentAttendees = 0

	s.log.Info().
		Uint64("event_id", eventID).
		Int("total_tickets", summary.TotalTickets).
		Int("refunds_initiated", summary.RefundsInitiated).
		Int("refunds_failed", summary.RefundsFailed).
		Str("total_refund_amount", summary.TotalRefundAmount.String()).
		Msg("event cancelled")

	if s.publisher != nil {
		msg := queue.EventCancelledMessage{
			EventID:           event.ID,
			EventName:         event.Name,
			Reason:            reason,
			TotalTickets:      summary.TotalTickets,
			RefundsInitiated:  summary.RefundsInitiated,
			RefundsFailed:     summary.RefundsFailed,
			TotalRefundAmount: summary.TotalRefundAmount.String(),
			CancelledAt:       now.Format(time.RFC3339),
		}
		if err := s.publisher.PublishEventCancelled(ctx, msg); err != nil {
			s.log.Warn().Err(err).Uint64("event_id", eventID).Msg("publish cancellation message")
		}
	}

	return &CancelOutcome{Event: event, Refunds: summary}, nil
}

// processTicket handles one ticket of the cancellation batch: cancel
// it, refund its payment if it has one, and notify its holder. Every
// failure is absorbed into the summary so the batch always runs to the
// end.
func (s *EventService) processTicket(ctx context.Context, ticket *model.Ticket, event *model.Event, reason string, now time.Time, summary *RefundSummary) {
	if err := s.tickets.MarkCancelled(ctx, ticket.ID, reason, now); err != nil {
		s.log.Error().Err(err).Uint64("ticket_id", ticket.ID).Msg("cancel ticket in batch")
		summary.FailedTicketIDs = append(summary.FailedTicketIDs, ticket.ID)
		if ticket.PaymentID != nil {
			summary.RefundsFailed++
		}
		return
	}

	refunded := false
	if ticket.PaymentID != nil {
		if _, err := s.refunder.RequestRefund(ctx, *ticket.PaymentID, "event_cancelled", nil); err != nil {
			s.log.Error().Err(err).
				Uint64("ticket_id", ticket.ID).
				Uint64("payment_id", *ticket.PaymentID).
				Msg("refund ticket in batch")
			summary.RefundsFailed++
			summary.FailedTicketIDs = append(summary.FailedTicketIDs, ticket.ID)
		} else {
			summary.RefundsInitiated++
			summary.TotalRefundAmount = summary.TotalRefundAmount.Add(ticket.PricePaid)
			refunded = true
		}
	}

	message := fmt.Sprintf("The event %q has been cancelled. Reason: %s.", event.Name, reason)
	if ticket.PricePaid.IsPositive() {
		if refunded {
			message += " A refund for your ticket has been initiated."
		} else if ticket.PaymentID != nil {
			message += " Your refund could not be processed automatically and will be handled by support."
		}
	}
	refType := string(model.ReferenceTicket)
	notification := &model.Notification{
		UserID:        ticket.UserID,
		Type:          model.NotificationEventCancelled,
		Title:         "Event cancelled",
		Message:       message,
		Channel:       model.ChannelInApp,
		Priority:      model.PriorityNormal,
		ReferenceType: &refType,
		ReferenceID:   &ticket.ID,
	}
	if err := s.notifier.Create(ctx, notification); err != nil {
		// Notification failure is logged only; it does not count
		// against the refund outcome.
		s.log.Error().Err(err).Uint64("ticket_id", ticket.ID).Msg("notify ticket holder")
	}
}
