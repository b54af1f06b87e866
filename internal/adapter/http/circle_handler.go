package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	circleUC "github.com/Theodorio/ajo-api/internal/usecase/circle"
	"github.com/Theodorio/ajo-api/internal/usecase/settlement"
)

type CircleHandler struct {
	circles    *circleUC.Usecase
	settlement *settlement.Usecase
}

func NewCircleHandler(circles *circleUC.Usecase, st *settlement.Usecase) *CircleHandler {
	return &CircleHandler{circles: circles, settlement: st}
}

type createCircleReq struct {
	Name               string `json:"name"                validate:"required,min=3,max=64"`
	ContributionAmount string `json:"contribution_amount" validate:"required,money"`
	CycleDays          int    `json:"cycle_days"          validate:"omitempty,gte=1,lte=365"`
}

type joinCircleReq struct {
	ParticipantID string `json:"participant_id" validate:"required,hex32"`
}

type contributeReq struct {
	ParticipantID string `json:"participant_id" validate:"required,hex32"`
}

func (h *CircleHandler) CreateCircle(c echo.Context) error {
	var req createCircleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	amount, err := decimal.NewFromString(req.ContributionAmount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid contribution_amount"})
	}
	dto, err := h.circles.Create(c.Request().Context(), circleUC.CreateCircleInput{
		Name:               req.Name,
		ContributionAmount: amount,
		CycleDays:          req.CycleDays,
	})
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *CircleHandler) JoinCircle(c echo.Context) error {
	circleID := c.Param("circle_id")
	if circleID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing circle_id path param"})
	}
	var req joinCircleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.circles.Join(c.Request().Context(), circleUC.JoinInput{
		CircleID:      circleID,
		ParticipantID: req.ParticipantID,
	})
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CircleHandler) ActivateCircle(c echo.Context) error {
	circleID := c.Param("circle_id")
	if circleID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing circle_id path param"})
	}
	dto, err := h.circles.Activate(c.Request().Context(), circleID)
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CircleHandler) Contribute(c echo.Context) error {
	circleID := c.Param("circle_id")
	if circleID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing circle_id path param"})
	}
	var req contributeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.circles.Contribute(c.Request().Context(), circleUC.ContributeInput{
		CircleID:      circleID,
		ParticipantID: req.ParticipantID,
	})
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CircleHandler) GetCircle(c echo.Context) error {
	circleID := c.Param("circle_id")
	if circleID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing circle_id path param"})
	}
	dto, err := h.circles.Get(c.Request().Context(), circleID)
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CircleHandler) ProcessPayout(c echo.Context) error {
	circleID := c.Param("circle_id")
	if circleID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing circle_id path param"})
	}
	dto, err := h.settlement.ProcessPayout(c.Request().Context(), circleID)
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CircleHandler) ListReceipts(c echo.Context) error {
	circleID := c.Param("circle_id")
	if circleID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing circle_id path param"})
	}
	out, err := h.settlement.ListReceipts(c.Request().Context(), circleID)
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"receipts": out})
}
