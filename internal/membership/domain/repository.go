package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrLevelNotFound   = errors.New("level_not_found")
	ErrMemberNotFound  = errors.New("member_not_found")
	ErrPaymentNotFound = errors.New("payment_not_found")
)

type LevelRepository interface {
	GetByID(ctx context.Context, id snowflake.ID) (*Level, error)
	GetByName(ctx context.Context, name string) (*Level, error)
	List(ctx context.Context) ([]Level, error)
	Create(ctx context.Context, level *Level) error
	UpdateTaxMeta(ctx context.Context, id snowflake.ID, meta TaxMeta) error
}

type MemberRepository interface {
	GetByID(ctx context.Context, id snowflake.ID) (*Member, error)
	Create(ctx context.Context, member *Member) error
}

type PaymentRepository interface {
	GetByID(ctx context.Context, id snowflake.ID) (*Payment, error)
	Create(ctx context.Context, payment *Payment) error
	WriteMeta(ctx context.Context, paymentID snowflake.ID, key string, value any) error
	GetMeta(ctx context.Context, paymentID snowflake.ID, key string) (*PaymentMeta, error)
	HasMeta(ctx context.Context, paymentID snowflake.ID, keys ...string) (bool, error)
}
