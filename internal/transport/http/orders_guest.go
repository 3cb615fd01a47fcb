package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mhmall/mall-api/internal/app"
	"github.com/mhmall/mall-api/internal/domain"
)

// OrderWorkflow is the surface the order handlers need from the service.
type OrderWorkflow interface {
	PlaceOrder(ctx context.Context, in app.PlaceOrderInput) (string, error)
	FinalizeOrder(ctx context.Context, in app.FinalizeOrderInput) (domain.Order, error)
	CancelOrder(ctx context.Context, in app.CancelOrderInput) error
	GetOrder(ctx context.Context, orderNo string, owner app.OrderOwner) (domain.Order, []domain.OrderLine, error)
	ListMemberOrders(ctx context.Context, memberID string) ([]domain.Order, error)
}

// HandleGuestOrders serves /orders/guest: POST places an order, PUT
// finalizes it with recipient details.
func HandleGuestOrders(svc OrderWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			placeGuestOrder(svc, w, r)
		case http.MethodPut:
			finalizeGuestOrder(svc, w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type selectionRequest struct {
	OptionID string `json:"option_id"`
	Quantity int    `json:"quantity"`
}

type placeGuestOrderRequest struct {
	GuestName     string             `json:"guest_name"`
	GuestPhone    string             `json:"guest_phone"`
	GuestPassword string             `json:"guest_password"`
	Selections    []selectionRequest `json:"selections"`
}

type placeOrderResponse struct {
	OrderNo string `json:"order_no"`
	Status  string `json:"status"`
}

func placeGuestOrder(svc OrderWorkflow, w http.ResponseWriter, r *http.Request) {
	var req placeGuestOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	orderNo, err := svc.PlaceOrder(r.Context(), app.PlaceOrderInput{
		Owner: app.GuestOwner{
			Name:     req.GuestName,
			Phone:    req.GuestPhone,
			Password: req.GuestPassword,
		},
		Selections: toSelections(req.Selections),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, placeOrderResponse{
		OrderNo: orderNo,
		Status:  string(domain.OrderStatusPendingOrder),
	})
}

type recipientRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Zipcode string `json:"zipcode"`
	Addr    string `json:"addr"`
}

type finalizeGuestOrderRequest struct {
	OrderNo       string           `json:"order_no"`
	GuestPassword string           `json:"guest_password"`
	Recipient     recipientRequest `json:"recipient"`
}

func finalizeGuestOrder(svc OrderWorkflow, w http.ResponseWriter, r *http.Request) {
	var req finalizeGuestOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	order, err := svc.FinalizeOrder(r.Context(), app.FinalizeOrderInput{
		OrderNo: req.OrderNo,
		Owner:   app.GuestOwner{Password: req.GuestPassword},
		Recipient: domain.Recipient{
			Name:    req.Recipient.Name,
			Phone:   req.Recipient.Phone,
			Zipcode: req.Recipient.Zipcode,
			Addr:    req.Recipient.Addr,
		},
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

type guestOrderViewRequest struct {
	OrderNo       string `json:"order_no"`
	GuestPassword string `json:"guest_password"`
}

// HandleGuestOrderView serves POST /orders/guest/view. The password
// travels in the body, so the lookup is a POST rather than a GET.
func HandleGuestOrderView(svc OrderWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req guestOrderViewRequest
		if !decodeBody(w, r, &req) {
			return
		}

		order, lines, err := svc.GetOrder(r.Context(), req.OrderNo, app.GuestOwner{Password: req.GuestPassword})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toOrderDetailResponse(order, lines))
	}
}

type guestCancelRequest struct {
	GuestPassword string `json:"guest_password"`
}

// HandleGuestOrderCancel serves PUT /orders/guest/cancel/{orderNo}.
func HandleGuestOrderCancel(svc OrderWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		orderNo, ok := parseCancelPath(r.URL.Path, "guest")
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		var req guestCancelRequest
		if !decodeBody(w, r, &req) {
			return
		}

		err := svc.CancelOrder(r.Context(), app.CancelOrderInput{
			OrderNo: orderNo,
			Owner:   app.GuestOwner{Password: req.GuestPassword},
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"order_no": orderNo,
			"status":   string(domain.OrderStatusCancelled),
		})
	}
}

func parseCancelPath(path, kind string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 {
		return "", false
	}
	if parts[0] != "orders" || parts[1] != kind || parts[2] != "cancel" || parts[3] == "" {
		return "", false
	}
	return parts[3], true
}

func toSelections(reqs []selectionRequest) []app.OrderSelection {
	selections := make([]app.OrderSelection, len(reqs))
	for i, s := range reqs {
		selections[i] = app.OrderSelection{OptionID: s.OptionID, Quantity: s.Quantity}
	}
	return selections
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
