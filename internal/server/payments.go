package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	"github.com/smallbiznis/taxgate/internal/avatax"
	membershipdomain "github.com/smallbiznis/taxgate/internal/membership/domain"
)

type createPaymentRequest struct {
	MemberID  string  `json:"member_id"`
	LevelName string  `json:"level_name"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status"`
}

// CreatePayment mirrors a payment row from the host membership system so the
// recorder can reference it when the finalize hook fires.
func (s *Server) CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	memberID, err := snowflake.ParseString(strings.TrimSpace(req.MemberID))
	if err != nil || memberID == 0 {
		AbortWithError(c, newValidationError("member_id", "invalid_member_id", "invalid member_id"))
		return
	}
	if strings.TrimSpace(req.LevelName) == "" {
		AbortWithError(c, newValidationError("level_name", "invalid_level_name", "invalid level_name"))
		return
	}

	status := membershipdomain.PaymentStatus(strings.TrimSpace(req.Status))
	if status == "" {
		status = membershipdomain.PaymentStatusPending
	}

	payment := &membershipdomain.Payment{
		ID:        s.genID.Generate(),
		MemberID:  memberID,
		LevelName: strings.TrimSpace(req.LevelName),
		Amount:    req.Amount,
		Currency:  strings.TrimSpace(req.Currency),
		Status:    status,
	}
	if err := s.payments.Create(c.Request.Context(), payment); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// RecordPaymentTax is the payment-finalized hook. The commit outcome is
// written as payment metadata; replays return the recorded outcome.
func (s *Server) RecordPaymentTax(c *gin.Context) {
	paymentID, err := paymentIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.recorder.Record(c.Request.Context(), paymentID); err != nil {
		AbortWithError(c, err)
		return
	}

	s.respondPaymentTax(c, paymentID)
}

// GetPaymentTax returns the recorded tax outcome for a payment.
func (s *Server) GetPaymentTax(c *gin.Context) {
	paymentID, err := paymentIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if _, err := s.payments.GetByID(c.Request.Context(), paymentID); err != nil {
		AbortWithError(c, err)
		return
	}

	s.respondPaymentTax(c, paymentID)
}

type voidPaymentRequest struct {
	Reason string `json:"reason"`
}

// VoidPaymentTax cancels the committed transaction for a refunded or revoked
// payment.
func (s *Server) VoidPaymentTax(c *gin.Context) {
	paymentID, err := paymentIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	payment, err := s.payments.GetByID(c.Request.Context(), paymentID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req voidPaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "DocVoided"
	}

	voidReq := &avatax.VoidRequest{
		CompanyCode: s.settings.Current().CompanyCode,
		Code:        payment.ID.String(),
		Reason:      reason,
	}
	if err := s.newClient().VoidTransaction(c.Request.Context(), voidReq); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"voided": true})
}

func (s *Server) respondPaymentTax(c *gin.Context, paymentID snowflake.ID) {
	ctx := c.Request.Context()

	if meta, err := s.payments.GetMeta(ctx, paymentID, membershipdomain.MetaKeyTaxDetails); err == nil && meta != nil {
		c.JSON(http.StatusOK, gin.H{"recorded": true, "tax_details": json.RawMessage(meta.Value)})
		return
	}

	if meta, err := s.payments.GetMeta(ctx, paymentID, membershipdomain.MetaKeyTaxRequest); err == nil && meta != nil {
		c.JSON(http.StatusOK, gin.H{"recorded": false, "tax_request": json.RawMessage(meta.Value)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recorded": false})
}

func paymentIDParam(c *gin.Context) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil || id == 0 {
		return 0, newValidationError("id", "invalid_payment_id", "invalid payment id")
	}
	return id, nil
}
