package payments

import (
	"context"
	"net/http"
	"time"

	"tsmartwarehouse/internal/metrics"
	"tsmartwarehouse/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Sink consumes verified payment events. The audit service satisfies
// this via a small adapter; notifications can be added alongside.
type Sink interface {
	ConsumePaymentEvent(ctx context.Context, ev PaymentEvent) error
}

// WebhookHandler verifies and parses provider webhooks, maps them to
// internal events, and hands them to the sink.
//
// No business logic here. Booking and invoice state stay external.

type WebhookHandler struct {
	Verifier *Verifier
	Sink     Sink
	Metrics  *metrics.Recorder

	Now func() time.Time
}

func (h WebhookHandler) HandleEvent(c *gin.Context) {
	log := logger.FromGin(c)

	if h.Now == nil {
		h.Now = time.Now
	}
	if h.Verifier == nil || h.Sink == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "payments webhook not configured"})
		return
	}

	body, err := ReadEventBody(c.Request)
	if err != nil {
		log.Warn("payment webhook read failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	if err := h.Verifier.Verify(c.GetHeader(SignatureHeader), body, h.Now()); err != nil {
		log.Warn("payment webhook signature rejected", "err", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	env, err := ParseEvent(body)
	if err != nil {
		log.Warn("payment webhook parse failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid event"})
		return
	}

	ev := env.ToPaymentEvent(body)
	if ev.Kind == EventKindUnknown {
		// Acknowledge unhandled event types so the provider stops retrying.
		log.Info("payment webhook ignored", "type", env.Type, "event_id", env.ID)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if err := h.Sink.ConsumePaymentEvent(c.Request.Context(), ev); err != nil {
		log.Error("payment event consume failed", "event_id", ev.ProviderEventID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "event not recorded"})
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordWebhookEvent(string(ev.Kind))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
