package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	taxdomain "github.com/smallbiznis/taxgate/internal/taxation/domain"
)

type checkoutRequest struct {
	LevelID        string            `json:"level_id"`
	MemberID       string            `json:"member_id"`
	Email          string            `json:"email"`
	VATID          string            `json:"vat_id"`
	Address        map[string]string `json:"address"`
	TotalToday     *float64          `json:"total_today"`
	TotalRecurring *float64          `json:"total_recurring"`
}

type checkoutResponse struct {
	State             taxdomain.CalculationState `json:"state"`
	Rate              float64                    `json:"rate"`
	Total             float64                    `json:"total"`
	TotalRecurring    float64                    `json:"total_recurring"`
	TotalTax          float64                    `json:"total_tax"`
	TotalRecurringTax float64                    `json:"total_recurring_tax"`
	// Tax-inclusive amounts for gateways that charge a single grossed-up
	// price instead of separate fee lines.
	Price          float64                `json:"price"`
	RecurringPrice float64                `json:"recurring_price"`
	Fees           []taxdomain.Fee        `json:"fees"`
	Errors         []taxdomain.FieldError `json:"errors"`
}

// orderFees collects the fees a submission attaches. A fee is rejected when
// one with the same identity is already present.
type orderFees struct {
	fees []taxdomain.Fee
}

func (o *orderFees) AddFee(fee taxdomain.Fee) bool {
	for _, existing := range o.fees {
		if existing.ID == fee.ID {
			return false
		}
	}
	o.fees = append(o.fees, fee)
	return true
}

// CalculateCheckout previews the tax for an in-progress checkout. No fees are
// attached; the same totals can be requested repeatedly for display.
func (s *Server) CalculateCheckout(c *gin.Context) {
	s.runCheckout(c, false)
}

// RegisterCheckout handles the final registration submit: the address is
// validated, the estimate runs, and the computed tax lands as fees.
func (s *Server) RegisterCheckout(c *gin.Context) {
	s.runCheckout(c, true)
}

func (s *Server) runCheckout(c *gin.Context, final bool) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sub, err := s.buildSubmission(c, req, final)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	collector := &taxdomain.ErrorCollector{}
	if final {
		s.validator.Validate(c.Request.Context(), req.Address, collector)
	}

	calc := taxdomain.NewCalculation()
	fees := &orderFees{}
	s.calculator.Calculate(c.Request.Context(), sub, calc, collector, fees)

	// On a recurring level the one-time portion of the first charge feeds the
	// initial tax base the way a signup fee does; the recurring price itself
	// is grossed up alone.
	basePrice, oneTimeFee := sub.TotalToday, 0.0
	if sub.Recurring {
		basePrice = sub.TotalRecurring
		oneTimeFee = sub.TotalToday - sub.TotalRecurring
	}

	c.JSON(http.StatusOK, checkoutResponse{
		State:             calc.State,
		Rate:              calc.Rate,
		Total:             calc.Total,
		TotalRecurring:    calc.TotalRecurring,
		TotalTax:          calc.TotalTax,
		TotalRecurringTax: calc.TotalRecurringTax,
		Price:             calc.AddTax(basePrice, oneTimeFee),
		RecurringPrice:    calc.AddTax(sub.TotalRecurring, 0),
		Fees:              fees.fees,
		Errors:            collector.Errors(),
	})
}

func (s *Server) buildSubmission(c *gin.Context, req checkoutRequest, final bool) (*taxdomain.CheckoutSubmission, error) {
	levelID, err := snowflake.ParseString(strings.TrimSpace(req.LevelID))
	if err != nil || levelID == 0 {
		return nil, newValidationError("level_id", "invalid_level_id", "invalid level_id")
	}

	sub := &taxdomain.CheckoutSubmission{
		LevelID: levelID,
		Email:   strings.TrimSpace(req.Email),
		VATID:   strings.TrimSpace(req.VATID),
		Address: req.Address,
		Final:   final,
	}

	if memberID := strings.TrimSpace(req.MemberID); memberID != "" {
		parsed, err := snowflake.ParseString(memberID)
		if err != nil || parsed == 0 {
			return nil, newValidationError("member_id", "invalid_member_id", "invalid member_id")
		}
		sub.MemberID = &parsed
	}

	level, err := s.levels.GetByID(c.Request.Context(), levelID)
	if err != nil {
		return nil, err
	}

	// The host cart may override the charged totals (prorations, discounts);
	// otherwise the level's list prices apply.
	sub.TotalToday = level.Price
	if req.TotalToday != nil {
		sub.TotalToday = *req.TotalToday
	}
	sub.TotalRecurring = level.RecurringPrice
	if req.TotalRecurring != nil {
		sub.TotalRecurring = *req.TotalRecurring
	}
	sub.Recurring = level.Recurring

	return sub, nil
}
