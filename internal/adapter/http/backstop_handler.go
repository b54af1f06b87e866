package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Theodorio/ajo-api/internal/usecase/backstop"
)

type BackstopHandler struct{ uc *backstop.Usecase }

func NewBackstopHandler(uc *backstop.Usecase) *BackstopHandler { return &BackstopHandler{uc: uc} }

func (h *BackstopHandler) GetReserve(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context())
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BackstopHandler) RecoverLoan(c echo.Context) error {
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	dto, err := h.uc.MarkRecovered(c.Request().Context(), loanID)
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BackstopHandler) CircleLoans(c echo.Context) error {
	circleID := c.Param("circle_id")
	if circleID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing circle_id path param"})
	}
	out, err := h.uc.LoansByCircle(c.Request().Context(), circleID)
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"loans": out})
}
