package postgres

import (
	"context"

	"github.com/Caltsic/AIourstory-sub001/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type verificationCodeRepository struct {
	db *gorm.DB
}

func NewVerificationCodeRepository(db *gorm.DB) *verificationCodeRepository {
	return &verificationCodeRepository{db: db}
}

func (r *verificationCodeRepository) Replace(ctx context.Context, code *domain.EmailVerificationCode) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.EmailVerificationCode{},
			"email = ? AND purpose = ?", code.Email, code.Purpose).Error; err != nil {
			return err
		}
		return tx.Create(code).Error
	})
}

func (r *verificationCodeRepository) Get(ctx context.Context, email string, purpose domain.CodePurpose) (*domain.EmailVerificationCode, error) {
	var code domain.EmailVerificationCode
	err := r.db.WithContext(ctx).First(&code, "email = ? AND purpose = ?", email, purpose).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *verificationCodeRepository) IncrementAttempts(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.EmailVerificationCode{}).
		Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error
}

func (r *verificationCodeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.EmailVerificationCode{}, "id = ?", id).Error
}
