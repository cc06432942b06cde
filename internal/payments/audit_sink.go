package payments

import (
	"context"
	"fmt"

	"tsmartwarehouse/internal/audit"
)

// AuditSink records payment events in the append-only audit log.
type AuditSink struct {
	Audit *audit.Service
}

func (s AuditSink) ConsumePaymentEvent(ctx context.Context, ev PaymentEvent) error {
	if s.Audit == nil {
		return fmt.Errorf("payments: audit service not configured")
	}
	msg := fmt.Sprintf("%s %d %s", ev.Kind, ev.AmountMinor, ev.Currency)
	return s.Audit.LogPaymentEvent(ctx, ev.CompanyID, ev.PaymentRef, msg, ev.RawPayload)
}
