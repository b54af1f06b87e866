package http

import (
	"errors"
	"net/http"

	"github.com/Theodorio/ajo-api/internal/domain/backstop"
	"github.com/Theodorio/ajo-api/internal/domain/circle"
	"github.com/Theodorio/ajo-api/internal/domain/reputation"
	"github.com/Theodorio/ajo-api/internal/domain/wallet"
	circleUC "github.com/Theodorio/ajo-api/internal/usecase/circle"
	walletUC "github.com/Theodorio/ajo-api/internal/usecase/wallet"
)

// ---- helpers ----

// statusForError maps domain errors to HTTP codes. Anything unmapped is a
// 500 so real bugs don't hide behind 4xx.
func statusForError(err error) int {
	switch {
	case errors.Is(err, wallet.ErrNotFound),
		errors.Is(err, reputation.ErrNotFound),
		errors.Is(err, circle.ErrNotFound),
		errors.Is(err, circle.ErrRecipientNotFound),
		errors.Is(err, backstop.ErrNotFound),
		errors.Is(err, backstop.ErrLoanNotFound):
		return http.StatusNotFound
	case errors.Is(err, wallet.ErrInsufficientFunds),
		errors.Is(err, wallet.ErrOverpaymentRejected),
		errors.Is(err, wallet.ErrNonPositiveAmount),
		errors.Is(err, backstop.ErrNonPositiveAmount),
		errors.Is(err, walletUC.ErrInvalidParticipantID),
		errors.Is(err, circleUC.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, walletUC.ErrDuplicateParticipant),
		errors.Is(err, circle.ErrAlreadyPaid),
		errors.Is(err, circle.ErrDuplicateMembership),
		errors.Is(err, circle.ErrNotAMember),
		errors.Is(err, circle.ErrNotActive),
		errors.Is(err, circle.ErrNotForming),
		errors.Is(err, circle.ErrBelowQuorum),
		errors.Is(err, backstop.ErrReserveInsufficient):
		return http.StatusConflict
	}
	var denied *circleUC.JoinDeniedError
	if errors.As(err, &denied) {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
