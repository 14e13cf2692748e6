package service

import (
	"github.com/Caltsic/AIourstory-sub001/internal/config"
	"github.com/Caltsic/AIourstory-sub001/internal/ratelimit"
	"github.com/Caltsic/AIourstory-sub001/internal/repository"
)

type Services struct {
	Token        *TokenService
	Verification *VerificationService
	Account      *AccountService
	Plaza        *PlazaService
	Moderation   *ModerationService
	Report       *ReportService
}

func NewServices(repos *repository.Repositories, budget *ratelimit.SendBudget, mailer Mailer, cfg *config.Config) *Services {
	tokens := NewTokenService(cfg)
	verification := NewVerificationService(repos.Code, budget, mailer, cfg)
	plaza := NewPlazaService(repos.Prompt, repos.Story)

	return &Services{
		Token:        tokens,
		Verification: verification,
		Account:      NewAccountService(repos.User, verification, tokens, cfg),
		Plaza:        plaza,
		Moderation:   NewModerationService(repos.Prompt, repos.Story),
		Report:       NewReportService(repos.Report, plaza),
	}
}
