package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"options-monitor/internal/dto"
	"options-monitor/internal/model"
	"options-monitor/internal/repository"
	"options-monitor/pkg/utils"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupPositions(base *echo.Group) {
	v1 := base.Group("/v1/positions")
	{
		v1.GET("", h.ListPositions)
		v1.POST("", h.CreatePosition)
		v1.PUT("/:id", h.UpdatePosition)
		v1.DELETE("/:id", h.DeletePosition)
		v1.POST("/:id/toggle", h.TogglePosition)
	}
}

func (h *HttpAPIHandler) ListPositions(c echo.Context) error {
	positions, err := h.repo.PositionRepo.Get(c.Request().Context(), dto.GetPositionsParam{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("positions", positions))
}

func (h *HttpAPIHandler) CreatePosition(c echo.Context) error {
	position, resp := h.bindPosition(c)
	if resp != nil {
		return c.JSON(resp.Code, resp)
	}

	if err := h.repo.PositionRepo.Create(c.Request().Context(), position); err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("position created", position))
}

func (h *HttpAPIHandler) UpdatePosition(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid position id"))
	}

	existing, err := h.repo.PositionRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPositionNotFound) {
			return c.JSON(http.StatusNotFound, dto.NewNotFoundResponse("position not found"))
		}
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}

	position, resp := h.bindPosition(c)
	if resp != nil {
		return c.JSON(resp.Code, resp)
	}
	position.ID = existing.ID
	position.Enabled = existing.Enabled
	position.CreatedAt = existing.CreatedAt

	// Contract identity may have changed, retire the old trailing state.
	if position.IdentityKey() != existing.IdentityKey() {
		h.service.Engine.EvictPeak(existing.IdentityKey())
	}

	if err := h.repo.PositionRepo.Update(c.Request().Context(), position); err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("position updated", position))
}

func (h *HttpAPIHandler) DeletePosition(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid position id"))
	}

	position, err := h.repo.PositionRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPositionNotFound) {
			return c.JSON(http.StatusNotFound, dto.NewNotFoundResponse("position not found"))
		}
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}

	if err := h.repo.PositionRepo.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}
	h.service.Engine.EvictPeak(position.IdentityKey())

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("position deleted", nil))
}

func (h *HttpAPIHandler) TogglePosition(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid position id"))
	}

	position, err := h.repo.PositionRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPositionNotFound) {
			return c.JSON(http.StatusNotFound, dto.NewNotFoundResponse("position not found"))
		}
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}

	enabled := position.Enabled == nil || !*position.Enabled
	if err := h.repo.PositionRepo.UpdateColumns(c.Request().Context(), id, map[string]interface{}{"enabled": enabled}); err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}
	position.Enabled = utils.ToPointer(enabled)

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("position toggled", position))
}

func (h *HttpAPIHandler) bindPosition(c echo.Context) (*model.Position, *dto.BaseResponse) {
	var req dto.PositionRequest
	if err := c.Bind(&req); err != nil {
		return nil, dto.NewBadRequestResponse("invalid request payload")
	}
	if err := h.validator.Struct(&req); err != nil {
		return nil, dto.NewBadRequestResponse(err.Error())
	}

	positionType := model.PositionType(req.Type)
	if positionType.IsSpread() && req.ShortStrike == nil {
		return nil, dto.NewBadRequestResponse("short_strike is required for spread positions")
	}

	expiry, err := time.Parse("2006-01-02", req.Expiry)
	if err != nil {
		return nil, dto.NewBadRequestResponse("invalid expiry date")
	}

	entryDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.EntryDate != "" {
		entryDate, err = time.Parse("2006-01-02", req.EntryDate)
		if err != nil {
			return nil, dto.NewBadRequestResponse("invalid entry date")
		}
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	return &model.Position{
		Ticker:       strings.ToUpper(req.Ticker),
		Type:         positionType,
		Expiry:       expiry,
		LongStrike:   req.LongStrike,
		ShortStrike:  req.ShortStrike,
		EntryPrice:   req.EntryPrice,
		EntryDate:    entryDate,
		Quantity:     quantity,
		PreviousPeak: req.PreviousPeak,
		Enabled:      utils.ToPointer(true),
	}, nil
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
