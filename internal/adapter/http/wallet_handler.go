package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Theodorio/ajo-api/internal/usecase/wallet"
)

type WalletHandler struct{ uc *wallet.Usecase }

func NewWalletHandler(uc *wallet.Usecase) *WalletHandler { return &WalletHandler{uc: uc} }

type createParticipantReq struct {
	ParticipantID string `json:"participant_id" validate:"required,hex32"`
}

type moveFundsReq struct {
	Amount string `json:"amount" validate:"required,money"`
}

func (h *WalletHandler) CreateParticipant(c echo.Context) error {
	var req createParticipantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.CreateParticipant(c.Request().Context(), wallet.CreateParticipantInput{
		ParticipantID: req.ParticipantID,
	})
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *WalletHandler) GetWallet(c echo.Context) error {
	participantID := c.Param("participant_id")
	if participantID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing participant_id path param"})
	}
	dto, err := h.uc.Get(c.Request().Context(), participantID)
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *WalletHandler) Deposit(c echo.Context) error {
	return h.moveFunds(c, h.uc.Deposit)
}

func (h *WalletHandler) Withdraw(c echo.Context) error {
	return h.moveFunds(c, h.uc.Withdraw)
}

func (h *WalletHandler) RepayDebt(c echo.Context) error {
	return h.moveFunds(c, h.uc.RepayDebt)
}

// moveFunds is the shared bind/validate/dispatch path for deposit,
// withdraw and repay. The amount arrives as a string so it never loses
// precision on the wire.
func (h *WalletHandler) moveFunds(c echo.Context, op func(ctx context.Context, in wallet.MoveFundsInput) (*wallet.WalletDTO, error)) error {
	participantID := c.Param("participant_id")
	if participantID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing participant_id path param"})
	}
	var req moveFundsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid amount"})
	}
	dto, err := op(c.Request().Context(), wallet.MoveFundsInput{
		ParticipantID: participantID,
		Amount:        amount,
	})
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *WalletHandler) Debtors(c echo.Context) error {
	min := decimal.Zero
	if raw := c.QueryParam("min"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.IsNegative() {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min query param"})
		}
		min = parsed
	}
	out, err := h.uc.Debtors(c.Request().Context(), min)
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"debtors": out})
}
