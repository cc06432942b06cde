package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.

type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service logs internal audit information.
//
// IMPORTANT:
// - Audit is internal-only. Do not expose these records to tenant users by default.
// - Callers should treat audit logging as best-effort.

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.CompanyID == "" {
		return ErrInvalidEvent
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	now := s.clock().UTC()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	return s.repo.Append(ctx, e)
}

// LogAdminAction records a privileged action (including hidden roles).
func (s *Service) LogAdminAction(ctx context.Context, companyID, actorUserID, actorRole, ip, message, warehouseID, metadata string) error {
	return s.Append(ctx, Event{
		CompanyID:   companyID,
		Type:        EventTypeAdminAction,
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		IPAddress:   ip,
		WarehouseID: warehouseID,
		Message:     message,
		Metadata:    metadata,
	})
}

// LogRateChange records a change to a warehouse rate table.
func (s *Service) LogRateChange(ctx context.Context, companyID, actorUserID, actorRole, warehouseID, message, metadata string) error {
	return s.Append(ctx, Event{
		CompanyID:   companyID,
		Type:        EventTypeRateChange,
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		WarehouseID: warehouseID,
		Message:     message,
		Metadata:    metadata,
	})
}

// LogOverrideChange records a change to per-date price overrides.
func (s *Service) LogOverrideChange(ctx context.Context, companyID, actorUserID, actorRole, warehouseID, message, metadata string) error {
	return s.Append(ctx, Event{
		CompanyID:   companyID,
		Type:        EventTypeOverrideChange,
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		WarehouseID: warehouseID,
		Message:     message,
		Metadata:    metadata,
	})
}

// LogPaymentEvent records an inbound payment-provider webhook event.
func (s *Service) LogPaymentEvent(ctx context.Context, companyID, paymentRef, message, metadata string) error {
	return s.Append(ctx, Event{
		CompanyID:  companyID,
		Type:       EventTypePaymentEvent,
		PaymentRef: paymentRef,
		Message:    message,
		Metadata:   metadata,
	})
}
