package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/smallbiznis/taxgate/internal/avatax"
	membershipdomain "github.com/smallbiznis/taxgate/internal/membership/domain"
	taxdomain "github.com/smallbiznis/taxgate/internal/taxation/domain"
)

func TestBuildEstimate_Defaults(t *testing.T) {
	f := newFixture(t)
	level := f.seedLevel(t, "membership-gold")

	req, err := f.builder().BuildEstimate(context.Background(), &taxdomain.CheckoutSubmission{
		LevelID:        level.ID,
		Address:        map[string]string{"line1": "1 First Ave", "city": "Seattle", "state": "WA", "zip": "98101"},
		TotalToday:     100,
		TotalRecurring: 50,
	})
	assert.NoError(t, err)

	assert.Equal(t, avatax.DocumentTypeSalesOrder, req.Type)
	assert.Empty(t, req.Code)
	assert.False(t, req.Commit)
	assert.Equal(t, "DEFAULT", req.CompanyCode)
	assert.Equal(t, "USD", req.CurrencyCode)
	assert.Equal(t, time.Now().UTC().Format(avatax.DateFormat), req.Date)

	// No member, no form email: the guest placeholder applies.
	assert.Equal(t, "99999", req.CustomerCode)

	assert.NotNil(t, req.Addresses.ShipTo)
	assert.Equal(t, "1 First Ave", req.Addresses.ShipTo.Line1)
	assert.Equal(t, "WA", req.Addresses.ShipTo.Region)
	assert.Nil(t, req.Addresses.ShipFrom)

	assert.Len(t, req.Lines, 2)
	assert.Equal(t, 100.0, req.Lines[0].Amount)
	assert.Equal(t, 50.0, req.Lines[1].Amount)
	for _, line := range req.Lines {
		assert.Equal(t, "membership-gold", line.ItemCode)
		assert.Equal(t, "SW054000", line.TaxCode)
		assert.False(t, line.TaxIncluded)
	}
}

func TestBuildEstimate_CustomerCodeResolution(t *testing.T) {
	f := newFixture(t)
	level := f.seedLevel(t, "membership-gold")
	member := f.seedMember(t)

	// Authenticated member wins.
	req, err := f.builder().BuildEstimate(context.Background(), &taxdomain.CheckoutSubmission{
		LevelID:  level.ID,
		MemberID: &member.ID,
		Email:    "form@example.com",
	})
	assert.NoError(t, err)
	assert.Equal(t, member.Email, req.CustomerCode)

	// Form email next.
	req, err = f.builder().BuildEstimate(context.Background(), &taxdomain.CheckoutSubmission{
		LevelID: level.ID,
		Email:   "form@example.com",
	})
	assert.NoError(t, err)
	assert.Equal(t, "form@example.com", req.CustomerCode)
}

func TestBuildEstimate_VATID(t *testing.T) {
	f := newFixture(t)
	level := f.seedLevel(t, "membership-gold")

	req, err := f.builder().BuildEstimate(context.Background(), &taxdomain.CheckoutSubmission{
		LevelID: level.ID,
		VATID:   " GB123456789 ",
	})
	assert.NoError(t, err)
	assert.Equal(t, "GB123456789", req.BusinessIdentificationNo)
}

func TestBuildEstimate_ConfigurationErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.builder().BuildEstimate(context.Background(), &taxdomain.CheckoutSubmission{
		LevelID: f.node.Generate(),
	})
	var configErr *taxdomain.ConfigurationError
	assert.ErrorAs(t, err, &configErr)
	assert.Equal(t, "the subscription level is invalid", configErr.Reason)

	level := f.seedLevel(t, "")
	_, err = f.builder().BuildEstimate(context.Background(), &taxdomain.CheckoutSubmission{
		LevelID: level.ID,
	})
	assert.ErrorAs(t, err, &configErr)
	assert.Equal(t, "this subscription level does not have a related AvaTax item", configErr.Reason)
}

func TestBuildCommit(t *testing.T) {
	f := newFixture(t)
	level := f.seedLevel(t, "membership-gold")
	member := f.seedMember(t)
	payment := f.seedPayment(t, member, level)

	req, err := f.builder().BuildCommit(context.Background(), payment)
	assert.NoError(t, err)

	assert.Equal(t, avatax.DocumentTypeSalesInvoice, req.Type)
	assert.Equal(t, payment.ID.String(), req.Code)
	assert.True(t, req.Commit)
	assert.Equal(t, member.Email, req.CustomerCode)
	assert.Equal(t, "USD", req.CurrencyCode)

	assert.NotNil(t, req.Addresses.ShipFrom)
	assert.Equal(t, "100 Ravine Lane NE", req.Addresses.ShipFrom.Line1)
	assert.NotNil(t, req.Addresses.ShipTo)
	assert.Equal(t, "742 Evergreen Terrace", req.Addresses.ShipTo.Line1)

	assert.Len(t, req.Lines, 1)
	line := req.Lines[0]
	assert.Equal(t, payment.Amount, line.Amount)
	assert.True(t, line.TaxIncluded)
	assert.Equal(t, "membership-gold", line.ItemCode)
	assert.Equal(t, level.Description, line.Description)
}

func TestBuildCommit_DisableCommit(t *testing.T) {
	f := newFixture(t)
	level := f.seedLevel(t, "membership-gold")
	member := f.seedMember(t)
	payment := f.seedPayment(t, member, level)

	settings := f.settings.Current()
	settings.DisableCommit = true
	f.settings.Replace(settings)

	req, err := f.builder().BuildCommit(context.Background(), payment)
	assert.NoError(t, err)
	assert.False(t, req.Commit)
	assert.Equal(t, avatax.DocumentTypeSalesInvoice, req.Type)
}

func TestBuildCommit_ConfigurationErrors(t *testing.T) {
	f := newFixture(t)
	level := f.seedLevel(t, "membership-gold")
	member := f.seedMember(t)

	var configErr *taxdomain.ConfigurationError

	// Unknown member.
	_, err := f.builder().BuildCommit(context.Background(), &membershipdomain.Payment{
		ID:        f.node.Generate(),
		MemberID:  f.node.Generate(),
		LevelName: level.Name,
	})
	assert.ErrorAs(t, err, &configErr)
	assert.Equal(t, "no member found for this payment", configErr.Reason)

	// Unknown level.
	_, err = f.builder().BuildCommit(context.Background(), &membershipdomain.Payment{
		ID:        f.node.Generate(),
		MemberID:  member.ID,
		LevelName: "does-not-exist",
	})
	assert.ErrorAs(t, err, &configErr)
	assert.Equal(t, "the subscription level is invalid", configErr.Reason)

	// Level without an item mapping.
	unmapped := f.seedLevel(t, "")
	_, err = f.builder().BuildCommit(context.Background(), &membershipdomain.Payment{
		ID:        f.node.Generate(),
		MemberID:  member.ID,
		LevelName: unmapped.Name,
	})
	assert.ErrorAs(t, err, &configErr)
	assert.Equal(t, "this subscription level does not have a related AvaTax item", configErr.Reason)
}

func TestBuildCommit_RequestModifier(t *testing.T) {
	f := newFixture(t)
	level := f.seedLevel(t, "membership-gold")
	member := f.seedMember(t)
	payment := f.seedPayment(t, member, level)

	builder := NewBuilder(BuilderParams{
		Settings:  f.settings,
		Levels:    f.levels,
		Members:   f.members,
		Modifiers: []taxdomain.RequestModifier{modifierFunc(func(ctx context.Context, req *avatax.TransactionRequest) {
			req.TaxDate = "2026-01-01"
		})},
	})

	req, err := builder.BuildCommit(context.Background(), payment)
	assert.NoError(t, err)
	assert.Equal(t, "2026-01-01", req.TaxDate)
}

type modifierFunc func(ctx context.Context, req *avatax.TransactionRequest)

func (f modifierFunc) ModifyRequest(ctx context.Context, req *avatax.TransactionRequest) {
	f(ctx, req)
}
