package repository

import (
	"errors"

	"go-inventory-ledger/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrKeyClaimed is returned when (tenant, operation, key) was already used
var ErrKeyClaimed = errors.New("idempotency key already claimed")

type IdempotencyRepository interface {
	Claim(tx *gorm.DB, tenantID, operation, key string) (*model.IdempotencyKey, error)
	SetReference(tx *gorm.DB, claim *model.IdempotencyKey, referenceID string) error
}

type idempotencyRepo struct {
	db *gorm.DB
}

func NewIdempotencyRepo(db *gorm.DB) IdempotencyRepository {
	return &idempotencyRepo{db}
}

// Claim inserts the key inside the caller's transaction. A concurrent claimer of the
// same key blocks on the unique index until this transaction ends. When the key
// already exists, the existing row is returned together with ErrKeyClaimed.
func (r *idempotencyRepo) Claim(tx *gorm.DB, tenantID, operation, key string) (*model.IdempotencyKey, error) {
	claim := &model.IdempotencyKey{TenantID: tenantID, Operation: operation, Key: key}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(claim)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		return claim, nil
	}

	var existing model.IdempotencyKey
	err := tx.Where("tenant_id = ? AND operation = ? AND key = ?", tenantID, operation, key).First(&existing).Error
	if err != nil {
		return nil, err
	}
	return &existing, ErrKeyClaimed
}

func (r *idempotencyRepo) SetReference(tx *gorm.DB, claim *model.IdempotencyKey, referenceID string) error {
	claim.ReferenceID = referenceID
	return tx.Model(claim).Update("reference_id", referenceID).Error
}
