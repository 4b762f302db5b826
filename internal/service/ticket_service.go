package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/yagnesh-3/fira/internal/model"
	"github.com/yagnesh-3/fira/internal/repository"
)

// PaymentInitiator raises a gateway order and a pending payment for a
// purchase that still needs paying. Satisfied by PaymentService.
type PaymentInitiator interface {
	Initiate(ctx context.Context, userID uint64, refType model.ReferenceType, refID uint64, amount decimal.Decimal) (*model.Payment, error)
}

// TicketService implements purchase, check-in and cancellation of
// individual tickets. Refund issuance is deliberately not handled here;
// it is the caller's responsibility, and Cancel only reports whether
// the ticket is refund-eligible.
type TicketService struct {
	events   EventStore
	tickets  TicketStore
	payments PaymentInitiator
	log      zerolog.Logger
}

// NewTicketService constructs a TicketService.
func NewTicketService(events EventStore, tickets TicketStore, payments PaymentInitiator, log zerolog.Logger) *TicketService {
	if events == nil || tickets == nil || payments == nil {
		panic("nil dependency passed to NewTicketService")
	}
	return &TicketService{events: events, tickets: tickets, payments: payments, log: log}
}

// PurchaseResult is the outcome of a purchase call. Either
// PaymentRequired is set and Payment carries the freshly raised gateway
// order, or Ticket carries the created ticket.
type PurchaseResult struct {
	PaymentRequired bool           `json:"payment_required"`
	Payment         *model.Payment `json:"payment,omitempty"`
	Ticket          *model.Ticket  `json:"ticket,omitempty"`
}

// Purchase buys quantity seats on an event. For a paid event with no
// prior payment reference it raises a gateway order and returns a
// payment-required result without creating a ticket or consuming
// capacity. Otherwise capacity is reserved atomically and the ticket is
// created with its code and QR image. repository.ErrCapacityExceeded
// surfaces when the requested quantity does not fit.
func (s *TicketService) Purchase(ctx context.Context, userID, eventID uint64, quantity uint32, ticketType string, paymentID *uint64) (*PurchaseResult, error) {
	if quantity == 0 {
		quantity = 1
	}
	if ticketType == "" {
		ticketType = model.TicketTypeGeneral
	}
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventUpcoming {
		return nil, ErrEventNotUpcoming
	}

	if quantity > event.RemainingCapacity() {
		// Advisory read; the guarded capacity update at ticket creation
		// stays authoritative. This keeps a sold-out event from raising
		// a gateway order the redeeming call can never fulfil.
		return nil, repository.ErrCapacityExceeded
	}

	total := event.TicketPrice.Mul(decimal.NewFromInt(int64(quantity)))
	if event.IsPaid() && paymentID == nil {
		// The ticket is only created once the payment is confirmed; the
		// order references the event in the meantime.
		payment, err := s.payments.Initiate(ctx, userID, model.ReferenceTicket, event.ID, total)
		if err != nil {
			return nil, err
		}
		return &PurchaseResult{PaymentRequired: true, Payment: payment}, nil
	}

	if err := s.events.ReserveCapacity(ctx, eventID, quantity); err != nil {
		return nil, err
	}

	code, err := generateTicketCode()
	if err != nil {
		s.releaseQuietly(ctx, eventID, quantity)
		return nil, fmt.Errorf("generate ticket code: %w", err)
	}
	qr, err := renderQR(code, eventID, userID)
	if err != nil {
		s.releaseQuietly(ctx, eventID, quantity)
		return nil, fmt.Errorf("render ticket qr: %w", err)
	}

	ticket := &model.Ticket{
		UserID:     userID,
		EventID:    eventID,
		Code:       code,
		QRCode:     qr,
		Quantity:   quantity,
		TicketType: ticketType,
		PricePaid:  total,
		Status:     model.TicketActive,
		PaymentID:  paymentID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		s.releaseQuietly(ctx, eventID, quantity)
		return nil, fmt.Errorf("persist ticket: %w", err)
	}
	s.log.Info().
		Uint64("ticket_id", ticket.ID).
		Uint64("event_id", eventID).
		Uint32("quantity", quantity).
		Msg("ticket issued")
	return &PurchaseResult{Ticket: ticket}, nil
}

// releaseQuietly hands reserved seats back after a failed purchase
// step. The release failure is only logged; the original error wins.
func (s *TicketService) releaseQuietly(ctx context.Context, eventID uint64, quantity uint32) {
	if err := s.events.ReleaseCapacity(ctx, eventID, quantity); err != nil {
		s.log.Error().Err(err).Uint64("event_id", eventID).Msg("release capacity after failed purchase")
	}
}

// Validate checks a ticket in. The operation is intentionally not
// idempotent: a second call on the same ticket fails with
// ErrTicketAlreadyUsed so the code cannot be used for re-entry.
func (s *TicketService) Validate(ctx context.Context, ticketID uint64) (*model.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.IsUsed {
		return nil, ErrTicketAlreadyUsed
	}
	if ticket.Status != model.TicketActive {
		return nil, ErrTicketNotActive
	}
	now := time.Now().UTC()
	if err := s.tickets.MarkUsed(ctx, ticketID, now); err != nil {
		// A concurrent check-in can win the guarded update between our
		// read and write; report it the same way as a plain double scan.
		if err == repository.ErrConflict {
			return nil, ErrTicketAlreadyUsed
		}
		return nil, err
	}
	ticket.Status = model.TicketUsed
	ticket.IsUsed = true
	ticket.UsedAt = &now
	s.log.Info().Uint64("ticket_id", ticketID).Msg("ticket checked in")
	return ticket, nil
}

// CancelResult reports a ticket cancellation together with the refund
// eligibility determination. Refund issuance belongs to the caller.
type CancelResult struct {
	Ticket         *model.Ticket `json:"ticket"`
	RefundEligible bool          `json:"refund_eligible"`
}

// Cancel voids a ticket and releases its seats. A checked-in ticket
// cannot be cancelled. Only the ticket's owner may cancel it.
func (s *TicketService) Cancel(ctx context.Context, ticketID, userID uint64, reason string) (*CancelResult, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != userID {
		return nil, repository.ErrForbidden
	}
	if ticket.IsUsed {
		return nil, ErrTicketAlreadyUsed
	}
	if ticket.Status != model.TicketActive {
		return nil, ErrTicketNotActive
	}
	now := time.Now().UTC()
	if err := s.tickets.MarkCancelled(ctx, ticketID, reason, now); err != nil {
		if err == repository.ErrConflict {
			return nil, ErrTicketNotActive
		}
		return nil, err
	}
	if err := s.events.ReleaseCapacity(ctx, ticket.EventID, ticket.Quantity); err != nil {
		s.log.Error().Err(err).Uint64("event_id", ticket.EventID).Msg("release capacity after cancellation")
	}
	ticket.Status = model.TicketCancelled
	ticket.CancellationReason = &reason
	ticket.CancelledAt = &now
	s.log.Info().Uint64("ticket_id", ticketID).Msg("ticket cancelled")
	return &CancelResult{
		Ticket:         ticket,
		RefundEligible: ticket.PaymentID != nil && ticket.PricePaid.IsPositive(),
	}, nil
}

// ticketCodeAlphabet avoids 0/O and 1/I so codes survive being read
// aloud at the door.
const ticketCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateTicketCode produces a human-readable code like FIRA-7KQ2M9XW.
func generateTicketCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = ticketCodeAlphabet[int(b)%len(ticketCodeAlphabet)]
	}
	return "FIRA-" + string(buf), nil
}

// qrPayload is the JSON embedded in the ticket's QR image.
type qrPayload struct {
	Code     string `json:"code"`
	EventID  uint64 `json:"event_id"`
	UserID   uint64 `json:"user_id"`
	IssuedAt string `json:"issued_at"`
}

// renderQR encodes the ticket identifiers into a QR PNG and returns it
// base64-encoded for storage and embedding.
func renderQR(code string, eventID, userID uint64) (string, error) {
	payload, err := json.Marshal(qrPayload{
		Code:     code,
		EventID:  eventID,
		UserID:   userID,
		IssuedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
