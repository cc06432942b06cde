package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Signature header format (Stripe-style):
//
//	Signature: t=<unix>,v1=<hex hmac-sha256>
//
// The signed payload is "<t>.<body>". Multiple v1 entries may appear
// during secret rotation; any matching one passes.

const SignatureHeader = "Signature"

var (
	ErrBadSignatureHeader = errors.New("payments: malformed signature header")
	ErrSignatureMismatch  = errors.New("payments: signature mismatch")
	ErrSignatureExpired   = errors.New("payments: signature timestamp outside tolerance")
)

type Verifier struct {
	secret    []byte
	tolerance time.Duration
}

func NewVerifier(secret string, tolerance time.Duration) *Verifier {
	if tolerance <= 0 {
		tolerance = 5 * time.Minute
	}
	return &Verifier{secret: []byte(secret), tolerance: tolerance}
}

func (v *Verifier) Verify(header string, body []byte, now time.Time) error {
	ts, sigs, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}

	at := time.Unix(ts, 0)
	if now.Sub(at) > v.tolerance || at.Sub(now) > v.tolerance {
		return ErrSignatureExpired
	}

	mac := hmac.New(sha256.New, v.secret)
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(body)
	expected := mac.Sum(nil)

	for _, s := range sigs {
		got, err := hex.DecodeString(s)
		if err != nil {
			continue
		}
		if hmac.Equal(expected, got) {
			return nil
		}
	}
	return ErrSignatureMismatch
}

// Sign produces a header value for the given body. Used by tests and
// the CLI's webhook replay helper.
func (v *Verifier) Sign(body []byte, at time.Time) string {
	mac := hmac.New(sha256.New, v.secret)
	fmt.Fprintf(mac, "%d.", at.Unix())
	mac.Write(body)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func parseSignatureHeader(header string) (ts int64, sigs []string, err error) {
	if header == "" {
		return 0, nil, ErrBadSignatureHeader
	}
	for _, part := range strings.Split(header, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return 0, nil, ErrBadSignatureHeader
		}
		switch k {
		case "t":
			ts, err = strconv.ParseInt(val, 10, 64)
			if err != nil {
				return 0, nil, ErrBadSignatureHeader
			}
		case "v1":
			sigs = append(sigs, val)
		}
	}
	if ts == 0 || len(sigs) == 0 {
		return 0, nil, ErrBadSignatureHeader
	}
	return ts, sigs, nil
}
