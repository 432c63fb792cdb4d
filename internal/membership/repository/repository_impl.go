package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taxgate/internal/membership/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	GenID *snowflake.Node
}

type levelRepo struct {
	db *gorm.DB
}

func NewLevelRepository(p Params) domain.LevelRepository {
	return &levelRepo{db: p.DB}
}

func (r *levelRepo) GetByID(ctx context.Context, id snowflake.ID) (*domain.Level, error) {
	var level domain.Level
	err := r.db.WithContext(ctx).First(&level, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrLevelNotFound
	}
	if err != nil {
		return nil, err
	}
	return &level, nil
}

func (r *levelRepo) GetByName(ctx context.Context, name string) (*domain.Level, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrLevelNotFound
	}

	var level domain.Level
	err := r.db.WithContext(ctx).First(&level, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrLevelNotFound
	}
	if err != nil {
		return nil, err
	}
	return &level, nil
}

func (r *levelRepo) List(ctx context.Context) ([]domain.Level, error) {
	var levels []domain.Level
	if err := r.db.WithContext(ctx).Order("name asc").Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

func (r *levelRepo) Create(ctx context.Context, level *domain.Level) error {
	return r.db.WithContext(ctx).Create(level).Error
}

func (r *levelRepo) UpdateTaxMeta(ctx context.Context, id snowflake.ID, meta domain.TaxMeta) error {
	result := r.db.WithContext(ctx).Model(&domain.Level{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"tax_item_code": strings.TrimSpace(meta.ItemCode),
			"tax_code":      strings.TrimSpace(meta.TaxCode),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrLevelNotFound
	}
	return nil
}

type memberRepo struct {
	db *gorm.DB
}

func NewMemberRepository(p Params) domain.MemberRepository {
	return &memberRepo{db: p.DB}
}

func (r *memberRepo) GetByID(ctx context.Context, id snowflake.ID) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepo) Create(ctx context.Context, member *domain.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

type paymentRepo struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func NewPaymentRepository(p Params) domain.PaymentRepository {
	return &paymentRepo{db: p.DB, genID: p.GenID}
}

func (r *paymentRepo) GetByID(ctx context.Context, id snowflake.ID) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepo) WriteMeta(ctx context.Context, paymentID snowflake.ID, key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	meta := domain.PaymentMeta{
		ID:        r.genID.Generate(),
		PaymentID: paymentID,
		Key:       key,
		Value:     encoded,
	}
	return r.db.WithContext(ctx).Create(&meta).Error
}

func (r *paymentRepo) GetMeta(ctx context.Context, paymentID snowflake.ID, key string) (*domain.PaymentMeta, error) {
	var meta domain.PaymentMeta
	err := r.db.WithContext(ctx).
		First(&meta, "payment_id = ? AND meta_key = ?", paymentID, key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

func (r *paymentRepo) HasMeta(ctx context.Context, paymentID snowflake.ID, keys ...string) (bool, error) {
	if len(keys) == 0 {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.PaymentMeta{}).
		Where("payment_id = ? AND meta_key IN ?", paymentID, keys).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
