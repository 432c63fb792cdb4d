package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	membershipdomain "github.com/smallbiznis/taxgate/internal/membership/domain"
)

type createLevelRequest struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	RecurringPrice float64 `json:"recurring_price"`
	Recurring      bool    `json:"recurring"`
	TaxItemCode    string  `json:"tax_item_code"`
	TaxCode        string  `json:"tax_code"`
}

func (s *Server) ListLevels(c *gin.Context) {
	levels, err := s.levels.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"levels": levels})
}

// CreateLevel mirrors a subscription level from the host membership system.
func (s *Server) CreateLevel(c *gin.Context) {
	var req createLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		AbortWithError(c, newValidationError("name", "invalid_name", "invalid name"))
		return
	}

	level := &membershipdomain.Level{
		ID:             s.genID.Generate(),
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Price:          req.Price,
		RecurringPrice: req.RecurringPrice,
		Recurring:      req.Recurring,
		TaxItemCode:    strings.TrimSpace(req.TaxItemCode),
		TaxCode:        strings.TrimSpace(req.TaxCode),
	}
	if err := s.levels.Create(c.Request.Context(), level); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"level": level})
}

func (s *Server) GetLevelTaxMeta(c *gin.Context) {
	levelID, err := levelIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	level, err := s.levels.GetByID(c.Request.Context(), levelID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tax_meta": level.TaxMeta()})
}

// UpdateLevelTaxMeta sets the AvaTax item/tax code mapping on a level.
func (s *Server) UpdateLevelTaxMeta(c *gin.Context) {
	levelID, err := levelIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var meta membershipdomain.TaxMeta
	if err := c.ShouldBindJSON(&meta); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	meta.ItemCode = strings.TrimSpace(meta.ItemCode)
	meta.TaxCode = strings.TrimSpace(meta.TaxCode)

	if err := s.levels.UpdateTaxMeta(c.Request.Context(), levelID, meta); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tax_meta": meta})
}

func levelIDParam(c *gin.Context) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil || id == 0 {
		return 0, newValidationError("id", "invalid_level_id", "invalid level id")
	}
	return id, nil
}
