package service

import (
	"context"
	"strings"
	"time"

	"github.com/smallbiznis/taxgate/internal/avatax"
	"github.com/smallbiznis/taxgate/internal/config"
	membershipdomain "github.com/smallbiznis/taxgate/internal/membership/domain"
	taxdomain "github.com/smallbiznis/taxgate/internal/taxation/domain"
	"go.uber.org/fx"
)

type BuilderParams struct {
	fx.In

	Settings  *config.SettingsHolder
	Levels    membershipdomain.LevelRepository
	Members   membershipdomain.MemberRepository
	Modifiers []taxdomain.RequestModifier `group:"taxation.request_modifiers"`
}

// Builder assembles transaction requests for the estimate and commit flows.
type Builder struct {
	settings  *config.SettingsHolder
	levels    membershipdomain.LevelRepository
	members   membershipdomain.MemberRepository
	modifiers []taxdomain.RequestModifier
}

func NewBuilder(p BuilderParams) *Builder {
	return &Builder{
		settings:  p.Settings,
		levels:    p.Levels,
		members:   p.Members,
		modifiers: p.Modifiers,
	}
}

// BuildEstimate assembles a SalesOrder request for an in-progress checkout.
// Estimates never commit and never carry a document code.
func (b *Builder) BuildEstimate(ctx context.Context, sub *taxdomain.CheckoutSubmission) (*avatax.TransactionRequest, error) {
	settings := b.settings.Current()
	req := b.defaults(settings)

	if code := b.resolveEstimateCustomer(ctx, sub); code != "" {
		req.CustomerCode = code
	}

	shipTo := avatax.NormalizeAddress(sub.Address)
	req.Addresses.ShipTo = &shipTo

	level, err := b.levels.GetByID(ctx, sub.LevelID)
	if err != nil {
		return nil, taxdomain.NewConfigurationError("the subscription level is invalid")
	}
	meta := level.TaxMeta()
	if meta.ItemCode == "" {
		return nil, taxdomain.NewConfigurationError("this subscription level does not have a related AvaTax item")
	}

	line := avatax.LineItem{
		ID:       level.ID.String(),
		Quantity: 1,
		ItemCode: meta.ItemCode,
		TaxCode:  meta.TaxCode,
	}

	// One line for the amount due today, one for the recurring amount.
	today := line
	today.Amount = sub.TotalToday
	recurring := line
	recurring.Amount = sub.TotalRecurring
	req.Lines = []avatax.LineItem{today, recurring}

	if vat := strings.TrimSpace(sub.VATID); vat != "" {
		req.BusinessIdentificationNo = vat
	}

	b.applyModifiers(ctx, req)
	return req, nil
}

// BuildCommit assembles a SalesInvoice request for a finalized payment. The
// payment ID becomes the document code, so the remote transaction is always
// traceable to exactly one payment.
func (b *Builder) BuildCommit(ctx context.Context, payment *membershipdomain.Payment) (*avatax.TransactionRequest, error) {
	settings := b.settings.Current()

	member, err := b.members.GetByID(ctx, payment.MemberID)
	if err != nil {
		return nil, taxdomain.NewConfigurationError("no member found for this payment")
	}

	level, err := b.levels.GetByName(ctx, payment.LevelName)
	if err != nil {
		return nil, taxdomain.NewConfigurationError("the subscription level is invalid")
	}
	meta := level.TaxMeta()
	if meta.ItemCode == "" {
		return nil, taxdomain.NewConfigurationError("this subscription level does not have a related AvaTax item")
	}

	req := b.defaults(settings)
	req.Type = avatax.DocumentTypeSalesInvoice
	req.Code = payment.ID.String()
	req.Commit = !settings.DisableCommit
	req.CustomerCode = member.Email
	if payment.Currency != "" {
		req.CurrencyCode = payment.Currency
	}

	shipFrom := companyAddress(settings)
	shipTo := avatax.NormalizeAddress(member.AddressFields())
	req.Addresses = avatax.Addresses{
		ShipFrom: &shipFrom,
		ShipTo:   &shipTo,
	}

	req.Lines = []avatax.LineItem{{
		ID:          level.ID.String(),
		Quantity:    1,
		Amount:      payment.Amount,
		ItemCode:    meta.ItemCode,
		TaxCode:     meta.TaxCode,
		Description: level.Description,
		TaxIncluded: true,
	}}

	if vat := strings.TrimSpace(member.VATID); vat != "" {
		req.BusinessIdentificationNo = vat
	}

	b.applyModifiers(ctx, req)
	return req, nil
}

// defaults is the canonical parameter set both flows start from. Callers
// override on top of it, never the other way around.
func (b *Builder) defaults(settings config.TaxSettings) *avatax.TransactionRequest {
	return &avatax.TransactionRequest{
		Type:         avatax.DocumentTypeSalesOrder,
		CompanyCode:  settings.CompanyCode,
		Date:         time.Now().UTC().Format(avatax.DateFormat),
		CustomerCode: settings.GuestCustomerCode,
		CurrencyCode: settings.CurrencyCode,
		Commit:       false,
	}
}

// resolveEstimateCustomer resolves the customer code for an estimate: the
// authenticated member's email, then the email submitted on the form. An
// empty return keeps the guest placeholder from the defaults.
func (b *Builder) resolveEstimateCustomer(ctx context.Context, sub *taxdomain.CheckoutSubmission) string {
	if sub.MemberID != nil {
		if member, err := b.members.GetByID(ctx, *sub.MemberID); err == nil {
			return member.Email
		}
	}
	return strings.TrimSpace(sub.Email)
}

func (b *Builder) applyModifiers(ctx context.Context, req *avatax.TransactionRequest) {
	for _, modifier := range b.modifiers {
		modifier.ModifyRequest(ctx, req)
	}
}

func companyAddress(settings config.TaxSettings) avatax.Address {
	return avatax.Address{
		Line1:      settings.CompanyAddress.Line1,
		Line2:      settings.CompanyAddress.Line2,
		City:       settings.CompanyAddress.City,
		Region:     settings.CompanyAddress.Region,
		PostalCode: settings.CompanyAddress.PostalCode,
		Country:    settings.CompanyAddress.Country,
	}
}
