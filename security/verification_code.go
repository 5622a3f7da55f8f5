package security

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"social-chat-api/apperror"
	"social-chat-api/enum"
	"social-chat-api/observability/metrics"
)

const (
	DefaultCodeTTL = 300 * time.Second
	codeDigits     = 6
)

var (
	ErrCodeExpired  = apperror.New(apperror.KindCodeExpired, "verification code has expired")
	ErrCodeMismatch = apperror.New(apperror.KindCodeMismatch, "verification code is incorrect")
)

// CodeStore is the key/value collaborator holding issued codes.
type CodeStore interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Del(ctx context.Context, key string) error
}

// VerificationCode gates sensitive mutations behind short-lived codes keyed by purpose and address.
type VerificationCode struct {
	store     CodeStore
	ttl       time.Duration
	singleUse bool
}

func NewVerificationCode(store CodeStore, ttl time.Duration, singleUse bool) *VerificationCode {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	return &VerificationCode{store: store, ttl: ttl, singleUse: singleUse}
}

func CodeKey(purpose enum.CaptchaPurpose, address string) string {
	return string(purpose) + "_" + address
}

func (v *VerificationCode) Issue(ctx context.Context, purpose enum.CaptchaPurpose, address string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", apperror.Internal("failed to generate verification code", err)
	}
	if err := v.store.Set(ctx, CodeKey(purpose, address), code, v.ttl); err != nil {
		return "", apperror.Internal("failed to store verification code", err)
	}
	metrics.VerificationCodesTotal.WithLabelValues(string(purpose), "issued").Inc()
	return code, nil
}

// Check must succeed before the guarded mutation runs.
func (v *VerificationCode) Check(ctx context.Context, purpose enum.CaptchaPurpose, address, supplied string) error {
	key := CodeKey(purpose, address)
	stored, found, err := v.store.Get(ctx, key)
	if err != nil {
		return apperror.Internal("failed to read verification code", err)
	}
	if !found {
		metrics.VerificationCodesTotal.WithLabelValues(string(purpose), "expired").Inc()
		return ErrCodeExpired
	}
	if stored != supplied {
		metrics.VerificationCodesTotal.WithLabelValues(string(purpose), "mismatch").Inc()
		return ErrCodeMismatch
	}
	if v.singleUse {
		if err := v.store.Del(ctx, key); err != nil {
			return apperror.Internal("failed to consume verification code", err)
		}
	}
	metrics.VerificationCodesTotal.WithLabelValues(string(purpose), "ok").Inc()
	return nil
}

func generateCode() (string, error) {
	limit := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}
