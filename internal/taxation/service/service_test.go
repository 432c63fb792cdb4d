package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/smallbiznis/taxgate/internal/config"
	membershipdomain "github.com/smallbiznis/taxgate/internal/membership/domain"
	membershiprepo "github.com/smallbiznis/taxgate/internal/membership/repository"
)

type fixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	settings *config.SettingsHolder
	levels   membershipdomain.LevelRepository
	members  membershipdomain.MemberRepository
	payments membershipdomain.PaymentRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&membershipdomain.Level{},
		&membershipdomain.Member{},
		&membershipdomain.Payment{},
		&membershipdomain.PaymentMeta{},
	)
	assert.NoError(t, err)

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	params := membershiprepo.Params{DB: db, GenID: node}

	return &fixture{
		db:   db,
		node: node,
		settings: config.NewStaticSettingsHolder(config.TaxSettings{
			CompanyCode: "DEFAULT",
			CompanyAddress: config.CompanyAddress{
				Line1:      "100 Ravine Lane NE",
				City:       "Bainbridge Island",
				Region:     "WA",
				PostalCode: "98110",
				Country:    "US",
			},
			CurrencyCode:      "USD",
			GuestCustomerCode: "99999",
		}),
		levels:   membershiprepo.NewLevelRepository(params),
		members:  membershiprepo.NewMemberRepository(params),
		payments: membershiprepo.NewPaymentRepository(params),
	}
}

func (f *fixture) builder() *Builder {
	return NewBuilder(BuilderParams{
		Settings: f.settings,
		Levels:   f.levels,
		Members:  f.members,
	})
}

func (f *fixture) seedLevel(t *testing.T, itemCode string) *membershipdomain.Level {
	t.Helper()
	level := &membershipdomain.Level{
		ID:             f.node.Generate(),
		Name:           "Gold " + f.node.Generate().String(),
		Description:    "Gold membership",
		Price:          100,
		RecurringPrice: 50,
		Recurring:      true,
		TaxItemCode:    itemCode,
		TaxCode:        "SW054000",
	}
	assert.NoError(t, f.levels.Create(context.Background(), level))
	return level
}

func (f *fixture) seedMember(t *testing.T) *membershipdomain.Member {
	t.Helper()
	member := &membershipdomain.Member{
		ID:         f.node.Generate(),
		Email:      f.node.Generate().String() + "@example.com",
		Line1:      "742 Evergreen Terrace",
		City:       "Springfield",
		Region:     "OR",
		PostalCode: "97475",
		Country:    "US",
	}
	assert.NoError(t, f.members.Create(context.Background(), member))
	return member
}

func (f *fixture) seedPayment(t *testing.T, member *membershipdomain.Member, level *membershipdomain.Level) *membershipdomain.Payment {
	t.Helper()
	payment := &membershipdomain.Payment{
		ID:        f.node.Generate(),
		MemberID:  member.ID,
		LevelName: level.Name,
		Amount:    108.25,
		Currency:  "USD",
		Status:    membershipdomain.PaymentStatusComplete,
	}
	assert.NoError(t, f.payments.Create(context.Background(), payment))
	return payment
}
