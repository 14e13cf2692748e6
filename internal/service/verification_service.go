package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Caltsic/AIourstory-sub001/internal/config"
	"github.com/Caltsic/AIourstory-sub001/internal/domain"
	"github.com/Caltsic/AIourstory-sub001/internal/metrics"
	"github.com/Caltsic/AIourstory-sub001/internal/ratelimit"
	"github.com/Caltsic/AIourstory-sub001/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Mailer is the outbound delivery dependency; the SMTP implementation lives
// in internal/mail and tests substitute a recorder.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email string, purpose domain.CodePurpose, code string) error
}

type VerificationService struct {
	codes  repository.VerificationCodeRepository
	budget *ratelimit.SendBudget
	mailer Mailer
	cfg    *config.Config
}

func NewVerificationService(codes repository.VerificationCodeRepository, budget *ratelimit.SendBudget, mailer Mailer, cfg *config.Config) *VerificationService {
	return &VerificationService{
		codes:  codes,
		budget: budget,
		mailer: mailer,
		cfg:    cfg,
	}
}

// SendCode charges the cooldown/daily budget, stores a hashed single-use
// code and delivers it. A delivery failure refunds the charged budget so a
// flaky provider cannot starve the sender.
func (s *VerificationService) SendCode(ctx context.Context, email string, purpose domain.CodePurpose) error {
	now := time.Now()
	if err := s.budget.Charge(ctx, email, now); err != nil {
		metrics.VerificationSendsTotal.WithLabelValues("limited").Inc()
		return err
	}

	code, err := generateNumericCode(6)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	record := &domain.EmailVerificationCode{
		Email:     email,
		Purpose:   purpose,
		CodeHash:  string(hash),
		Attempts:  0,
		ExpiresAt: now.Add(s.cfg.VerifyCodeTTL),
	}
	if err := s.codes.Replace(ctx, record); err != nil {
		return err
	}

	if err := s.mailer.SendVerificationCode(ctx, email, purpose, code); err != nil {
		log.Error().Err(err).Str("email", email).Msg("verification delivery failed, refunding budget")
		if refundErr := s.budget.Refund(ctx, email, now); refundErr != nil {
			log.Error().Err(refundErr).Str("email", email).Msg("budget refund failed")
		}
		metrics.VerificationSendsTotal.WithLabelValues("delivery_failed").Inc()
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}
	metrics.VerificationSendsTotal.WithLabelValues("sent").Inc()
	return nil
}

// VerifyCode consumes the active code for (email, purpose). Wrong guesses
// increment the attempt counter; once it reaches the cap the code is dead
// even for the correct value.
func (s *VerificationService) VerifyCode(ctx context.Context, email string, purpose domain.CodePurpose, code string) error {
	record, err := s.codes.Get(ctx, email, purpose)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCodeNotFound
		}
		return err
	}

	if record.Expired(time.Now()) {
		_ = s.codes.Delete(ctx, record.ID)
		return domain.ErrCodeExpired
	}

	if record.Attempts >= s.cfg.MaxCodeAttempts {
		return domain.ErrTooManyAttempts
	}

	if bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(code)) != nil {
		if err := s.codes.IncrementAttempts(ctx, record.ID); err != nil {
			return err
		}
		return domain.ErrCodeInvalid
	}

	return s.codes.Delete(ctx, record.ID)
}

func generateNumericCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
