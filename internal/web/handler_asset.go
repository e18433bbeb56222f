package web

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/vbonduro/assettracker/internal/domain"
)

const msgMissingFields = "name, amount and category are required"

type createAssetRequest struct {
	Name        string           `json:"name" validate:"required"`
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	Quantity    *int64           `json:"quantity"`
	Description string           `json:"description"`
	Category    string           `json:"category" validate:"required"`
}

// updateAssetRequest leaves absent fields nil. Unknown fields are ignored.
type updateAssetRequest struct {
	Name        *string          `json:"name"`
	Amount      *decimal.Decimal `json:"amount"`
	Quantity    *int64           `json:"quantity"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleListAssets(c echo.Context) error {
	assets, err := s.repo.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, assets)
}

func (s *Server) handleGetAsset(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	asset, err := s.repo.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, asset)
}

func (s *Server) handleCreateAsset(c echo.Context) error {
	var body createAssetRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body").SetInternal(err)
	}
	if err := c.Validate(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgMissingFields).SetInternal(err)
	}
	// A zero amount counts as missing, like an empty name or category.
	if body.Amount.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, msgMissingFields)
	}

	asset, err := s.repo.Create(c.Request().Context(), domain.NewAsset{
		Name:        body.Name,
		Amount:      *body.Amount,
		Quantity:    body.Quantity,
		Description: body.Description,
		Category:    body.Category,
	})
	if err != nil {
		return err
	}

	s.logger.Debug("asset created", "id", asset.ID, "category", asset.Category)
	return c.JSON(http.StatusCreated, asset)
}

func (s *Server) handleUpdateAsset(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var body updateAssetRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body").SetInternal(err)
	}

	asset, err := s.repo.Update(c.Request().Context(), id, domain.AssetUpdate{
		Name:        body.Name,
		Amount:      body.Amount,
		Quantity:    body.Quantity,
		Description: body.Description,
		Category:    body.Category,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, asset)
}

func (s *Server) handleDeleteAsset(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, msgAssetNotFound)
	}

	s.logger.Debug("asset deleted", "id", id)
	return c.JSON(http.StatusOK, messageResponse{Message: "asset deleted"})
}

func (s *Server) handleGetSummary(c echo.Context) error {
	summary, err := s.repo.GetSummary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// parseID reads the :id path parameter. Anything but an integer is treated
// as an unmatched route.
func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.ErrNotFound
	}
	return id, nil
}
