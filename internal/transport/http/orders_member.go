package http

import (
	"net/http"
	"time"

	"github.com/mhmall/mall-api/internal/app"
	"github.com/mhmall/mall-api/internal/domain"
)

// HandleMemberOrders serves /orders/member: POST places an order for the
// authenticated member, PUT finalizes one. The member id comes from the
// auth middleware, never from the request body.
func HandleMemberOrders(svc OrderWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			placeMemberOrder(svc, w, r)
		case http.MethodPut:
			finalizeMemberOrder(svc, w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type placeMemberOrderRequest struct {
	Selections []selectionRequest `json:"selections"`
}

func placeMemberOrder(svc OrderWorkflow, w http.ResponseWriter, r *http.Request) {
	var req placeMemberOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	orderNo, err := svc.PlaceOrder(r.Context(), app.PlaceOrderInput{
		Owner:      app.MemberOwner{ID: memberIDFromContext(r.Context())},
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

type finalizeMemberOrderRequest struct {
	OrderNo   string           `json:"order_no"`
	Recipient recipientRequest `json:"recipient"`
}

func finalizeMemberOrder(svc OrderWorkflow, w http.ResponseWriter, r *http.Request) {
	var req finalizeMemberOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	order, err := svc.FinalizeOrder(r.Context(), app.FinalizeOrderInput{
		OrderNo: req.OrderNo,
		Owner:   app.MemberOwner{ID: memberIDFromContext(r.Context())},
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

// HandleMemberOrderView serves GET /orders/member/view?order_no=...
func HandleMemberOrderView(svc OrderWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		orderNo := r.URL.Query().Get("order_no")
		order, lines, err := svc.GetOrder(r.Context(), orderNo, app.MemberOwner{ID: memberIDFromContext(r.Context())})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toOrderDetailResponse(order, lines))
	}
}

// HandleMemberOrderList serves GET /orders/member/list.
func HandleMemberOrderList(svc OrderWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		orders, err := svc.ListMemberOrders(r.Context(), memberIDFromContext(r.Context()))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]orderResponse, len(orders))
		for i, order := range orders {
			resp[i] = toOrderResponse(order)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleMemberOrderCancel serves PUT /orders/member/cancel/{orderNo}.
func HandleMemberOrderCancel(svc OrderWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		orderNo, ok := parseCancelPath(r.URL.Path, "member")
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		err := svc.CancelOrder(r.Context(), app.CancelOrderInput{
			OrderNo: orderNo,
			Owner:   app.MemberOwner{ID: memberIDFromContext(r.Context())},
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

type orderResponse struct {
	OrderNo     string            `json:"order_no"`
	Status      string            `json:"status"`
	TotalAmount int64             `json:"total_amount"`
	Recipient   *recipientRequest `json:"recipient,omitempty"`
	BankName    string            `json:"bank_name,omitempty"`
	AccountNo   string            `json:"account_no,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

type orderLineResponse struct {
	OptionID  string `json:"option_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type orderDetailResponse struct {
	orderResponse
	Lines []orderLineResponse `json:"lines"`
}

func toOrderResponse(order domain.Order) orderResponse {
	resp := orderResponse{
		OrderNo:     order.OrderNo,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		BankName:    order.BankName,
		AccountNo:   order.AccountNo,
		CreatedAt:   order.CreatedAt,
	}
	if order.RecipientName != "" {
		resp.Recipient = &recipientRequest{
			Name:    order.RecipientName,
			Phone:   order.RecipientPhone,
			Zipcode: order.RecipientZipcode,
			Addr:    order.RecipientAddr,
		}
	}
	return resp
}

func toOrderDetailResponse(order domain.Order, lines []domain.OrderLine) orderDetailResponse {
	resp := orderDetailResponse{orderResponse: toOrderResponse(order)}
	resp.Lines = make([]orderLineResponse, len(lines))
	for i, line := range lines {
		resp.Lines[i] = orderLineResponse{
			OptionID:  line.OptionID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}
	return resp
}
