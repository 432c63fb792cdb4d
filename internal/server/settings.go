package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smallbiznis/taxgate/internal/config"
)

type taxSettingsPayload struct {
	CompanyCode        string                `json:"company_code"`
	CompanyAddress     companyAddressPayload `json:"company_address"`
	CurrencyCode       string                `json:"currency_code"`
	GuestCustomerCode  string                `json:"guest_customer_code"`
	DisableCommit      bool                  `json:"disable_commit"`
	DisableCalculation bool                  `json:"disable_calculation"`
}

type companyAddressPayload struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (s *Server) GetTaxSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": toSettingsPayload(s.settings.Current())})
}

// UpdateTaxSettings swaps the active settings. The change is in-memory only;
// durable configuration still lives in taxgate.yml.
func (s *Server) UpdateTaxSettings(c *gin.Context) {
	var payload taxSettingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	settings := config.TaxSettings{
		CompanyCode: strings.TrimSpace(payload.CompanyCode),
		CompanyAddress: config.CompanyAddress{
			Line1:      payload.CompanyAddress.Line1,
			Line2:      payload.CompanyAddress.Line2,
			City:       payload.CompanyAddress.City,
			Region:     payload.CompanyAddress.Region,
			PostalCode: payload.CompanyAddress.PostalCode,
			Country:    payload.CompanyAddress.Country,
		},
		CurrencyCode:       strings.TrimSpace(payload.CurrencyCode),
		GuestCustomerCode:  strings.TrimSpace(payload.GuestCustomerCode),
		DisableCommit:      payload.DisableCommit,
		DisableCalculation: payload.DisableCalculation,
	}

	defaults := config.DefaultTaxSettings()
	if settings.CurrencyCode == "" {
		settings.CurrencyCode = defaults.CurrencyCode
	}
	if settings.GuestCustomerCode == "" {
		settings.GuestCustomerCode = defaults.GuestCustomerCode
	}

	s.settings.Replace(settings)
	c.JSON(http.StatusOK, gin.H{"settings": toSettingsPayload(settings)})
}

func toSettingsPayload(settings config.TaxSettings) taxSettingsPayload {
	return taxSettingsPayload{
		CompanyCode: settings.CompanyCode,
		CompanyAddress: companyAddressPayload{
			Line1:      settings.CompanyAddress.Line1,
			Line2:      settings.CompanyAddress.Line2,
			City:       settings.CompanyAddress.City,
			Region:     settings.CompanyAddress.Region,
			PostalCode: settings.CompanyAddress.PostalCode,
			Country:    settings.CompanyAddress.Country,
		},
		CurrencyCode:       settings.CurrencyCode,
		GuestCustomerCode:  settings.GuestCustomerCode,
		DisableCommit:      settings.DisableCommit,
		DisableCalculation: settings.DisableCalculation,
	}
}
