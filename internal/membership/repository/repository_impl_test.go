package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/smallbiznis/taxgate/internal/membership/domain"
)

func setup(t *testing.T) Params {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&domain.Level{},
		&domain.Member{},
		&domain.Payment{},
		&domain.PaymentMeta{},
	)
	assert.NoError(t, err)

	node, err := snowflake.NewNode(2)
	assert.NoError(t, err)

	return Params{DB: db, GenID: node}
}

func TestLevelRepository(t *testing.T) {
	p := setup(t)
	repo := NewLevelRepository(p)
	ctx := context.Background()

	level := &domain.Level{
		ID:          p.GenID.Generate(),
		Name:        "level-" + p.GenID.Generate().String(),
		Price:       100,
		TaxItemCode: "membership",
		TaxCode:     "SW054000",
	}
	assert.NoError(t, repo.Create(ctx, level))

	byID, err := repo.GetByID(ctx, level.ID)
	assert.NoError(t, err)
	assert.Equal(t, level.Name, byID.Name)
	assert.Equal(t, domain.TaxMeta{ItemCode: "membership", TaxCode: "SW054000"}, byID.TaxMeta())

	byName, err := repo.GetByName(ctx, "  "+level.Name+"  ")
	assert.NoError(t, err)
	assert.Equal(t, level.ID, byName.ID)

	_, err = repo.GetByID(ctx, p.GenID.Generate())
	assert.ErrorIs(t, err, domain.ErrLevelNotFound)

	_, err = repo.GetByName(ctx, "")
	assert.ErrorIs(t, err, domain.ErrLevelNotFound)

	assert.NoError(t, repo.UpdateTaxMeta(ctx, level.ID, domain.TaxMeta{ItemCode: " new-item ", TaxCode: ""}))
	updated, err := repo.GetByID(ctx, level.ID)
	assert.NoError(t, err)
	assert.Equal(t, "new-item", updated.TaxItemCode)
	assert.Empty(t, updated.TaxCode)

	assert.ErrorIs(t, repo.UpdateTaxMeta(ctx, p.GenID.Generate(), domain.TaxMeta{}), domain.ErrLevelNotFound)

	levels, err := repo.List(ctx)
	assert.NoError(t, err)
	assert.NotEmpty(t, levels)
}

func TestMemberRepository(t *testing.T) {
	p := setup(t)
	repo := NewMemberRepository(p)
	ctx := context.Background()

	member := &domain.Member{
		ID:    p.GenID.Generate(),
		Email: p.GenID.Generate().String() + "@example.com",
		Line1: "1 First Ave",
	}
	assert.NoError(t, repo.Create(ctx, member))

	found, err := repo.GetByID(ctx, member.ID)
	assert.NoError(t, err)
	assert.Equal(t, member.Email, found.Email)
	assert.Equal(t, "1 First Ave", found.AddressFields()["line1"])

	_, err = repo.GetByID(ctx, p.GenID.Generate())
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}

func TestPaymentRepository_Meta(t *testing.T) {
	p := setup(t)
	repo := NewPaymentRepository(p)
	ctx := context.Background()

	payment := &domain.Payment{
		ID:        p.GenID.Generate(),
		MemberID:  p.GenID.Generate(),
		LevelName: "gold",
		Amount:    108.25,
		Currency:  "USD",
		Status:    domain.PaymentStatusComplete,
	}
	assert.NoError(t, repo.Create(ctx, payment))

	found, err := repo.GetByID(ctx, payment.ID)
	assert.NoError(t, err)
	assert.Equal(t, 108.25, found.Amount)

	_, err = repo.GetByID(ctx, p.GenID.Generate())
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)

	has, err := repo.HasMeta(ctx, payment.ID, domain.MetaKeyTaxDetails, domain.MetaKeyTaxRequest)
	assert.NoError(t, err)
	assert.False(t, has)

	has, err = repo.HasMeta(ctx, payment.ID)
	assert.NoError(t, err)
	assert.False(t, has)

	assert.NoError(t, repo.WriteMeta(ctx, payment.ID, domain.MetaKeyTaxDetails, map[string]float64{
		"taxable": 100, "tax": 8.25, "rate": 0.0825,
	}))

	has, err = repo.HasMeta(ctx, payment.ID, domain.MetaKeyTaxDetails, domain.MetaKeyTaxRequest)
	assert.NoError(t, err)
	assert.True(t, has)

	meta, err := repo.GetMeta(ctx, payment.ID, domain.MetaKeyTaxDetails)
	assert.NoError(t, err)
	assert.NotNil(t, meta)

	var decoded map[string]float64
	assert.NoError(t, json.Unmarshal(meta.Value, &decoded))
	assert.Equal(t, 8.25, decoded["tax"])

	missing, err := repo.GetMeta(ctx, payment.ID, domain.MetaKeyTaxRequest)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
