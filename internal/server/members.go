package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	membershipdomain "github.com/smallbiznis/taxgate/internal/membership/domain"
)

type createMemberRequest struct {
	Email      string `json:"email"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	VATID      string `json:"vat_id"`
}

// CreateMember mirrors a member from the host membership system. The stored
// address becomes the ship-to on commit transactions.
func (s *Server) CreateMember(c *gin.Context) {
	var req createMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		AbortWithError(c, newValidationError("email", "invalid_email", "invalid email"))
		return
	}

	member := &membershipdomain.Member{
		ID:         s.genID.Generate(),
		Email:      strings.TrimSpace(req.Email),
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		Region:     req.Region,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		VATID:      strings.TrimSpace(req.VATID),
	}
	if err := s.members.Create(c.Request.Context(), member); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"member": member})
}
