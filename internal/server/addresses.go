package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	taxdomain "github.com/smallbiznis/taxgate/internal/taxation/domain"
)

// ValidateAddress resolves an address and reports any blocking messages.
// Warnings never block; only error-severity messages land in errors.
func (s *Server) ValidateAddress(c *gin.Context) {
	var form map[string]string
	if err := c.ShouldBindJSON(&form); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	collector := &taxdomain.ErrorCollector{}
	resolution := s.validator.Validate(c.Request.Context(), form, collector)

	resp := gin.H{
		"valid":  collector.Empty(),
		"errors": collector.Errors(),
	}
	if resolution != nil {
		resp["address"] = resolution.Address
	}
	c.JSON(http.StatusOK, resp)
}

// TestConnection verifies the configured AvaTax credentials with a minimal,
// never-committed calculation.
func (s *Server) TestConnection(c *gin.Context) {
	authenticated, err := s.newClient().TestConnection(c.Request.Context(), s.settings.Current().CompanyCode)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"authenticated": authenticated})
}
