package http

import (
	"encoding/json"
	"net/http"

	"github.com/mhmall/mall-api/internal/domain"
)

const (
	codeMethodNotAllowed    = "method_not_allowed"
	codeNotFound            = "not_found"
	codeInvalidRequestBody  = "invalid_request_body"
	codeInvalidID           = "invalid_id"
	codeInvalidQuantity     = "invalid_quantity"
	codeUnknownOption       = "unknown_option"
	codeInsufficientStock   = "insufficient_stock"
	codeGuestDetailsMissing = "guest_details_required"
	codeRecipientMissing    = "recipient_required"
	codeOrderNotFound       = "order_not_found"
	codeNotOrderOwner       = "not_order_owner"
	codeOrderNotPending     = "order_not_pending"
	codeFinalizeFailed      = "order_finalize_failed"
	codeCancelNotAllowed    = "cancel_not_allowed"
	codeConcurrentConflict  = "concurrent_conflict"
	codeOptionNameRequired  = "option_name_required"
	codeInvalidPrice        = "invalid_price"
	codeInvalidStock        = "invalid_stock"
	codeOptionExists        = "option_already_exists"
	codeUnauthorized        = "unauthorized"
	codeForbidden           = "forbidden"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps the business-condition sentinels onto HTTP status
// codes. Anything unrecognized is a storage fault and surfaces as 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrInvalidQuantity:
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case domain.ErrGuestDetailsRequired:
		writeError(w, http.StatusBadRequest, codeGuestDetailsMissing, err.Error())
	case domain.ErrRecipientRequired:
		writeError(w, http.StatusBadRequest, codeRecipientMissing, err.Error())
	case domain.ErrUnknownOption:
		writeError(w, http.StatusBadRequest, codeUnknownOption, err.Error())
	case domain.ErrInsufficientStock:
		writeError(w, http.StatusConflict, codeInsufficientStock, err.Error())
	case domain.ErrOrderNotFound:
		writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
	case domain.ErrNotOrderOwner:
		writeError(w, http.StatusForbidden, codeNotOrderOwner, err.Error())
	case domain.ErrOrderNotPending:
		writeError(w, http.StatusConflict, codeOrderNotPending, err.Error())
	case domain.ErrOrderFinalizeFailed:
		writeError(w, http.StatusConflict, codeFinalizeFailed, err.Error())
	case domain.ErrCancelNotAllowed:
		writeError(w, http.StatusConflict, codeCancelNotAllowed, err.Error())
	case domain.ErrConcurrentConflict:
		writeError(w, http.StatusConflict, codeConcurrentConflict, err.Error())
	case domain.ErrOptionNameRequired:
		writeError(w, http.StatusBadRequest, codeOptionNameRequired, err.Error())
	case domain.ErrInvalidPrice:
		writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
	case domain.ErrInvalidStock:
		writeError(w, http.StatusBadRequest, codeInvalidStock, err.Error())
	case domain.ErrOptionAlreadyExists:
		writeError(w, http.StatusConflict, codeOptionExists, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
