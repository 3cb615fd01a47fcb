package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/mhmall/mall-api/internal/app"
	"github.com/mhmall/mall-api/internal/domain"
)

// CatalogAdmin is the surface the admin handlers need from the service.
type CatalogAdmin interface {
	CreateOption(ctx context.Context, in app.CreateOptionInput) (domain.Option, error)
	ListOptions(ctx context.Context) ([]domain.Option, error)
	AddStock(ctx context.Context, optionID string, quantity int) error
}

// HandleAdminOptions serves /admin/options: POST creates an option, GET
// lists the catalog.
func HandleAdminOptions(svc CatalogAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			createOption(svc, w, r)
		case http.MethodGet:
			listOptions(svc, w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type createOptionRequest struct {
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Stock     int    `json:"stock"`
}

type optionResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unit_price"`
	Available int       `json:"available"`
	CreatedAt time.Time `json:"created_at"`
}

func createOption(svc CatalogAdmin, w http.ResponseWriter, r *http.Request) {
	var req createOptionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	option, err := svc.CreateOption(r.Context(), app.CreateOptionInput{
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
		Stock:     req.Stock,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOptionResponse(option))
}

func listOptions(svc CatalogAdmin, w http.ResponseWriter, r *http.Request) {
	options, err := svc.ListOptions(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]optionResponse, len(options))
	for i, option := range options {
		resp[i] = toOptionResponse(option)
	}
	writeJSON(w, http.StatusOK, resp)
}

type addStockRequest struct {
	Quantity int `json:"quantity"`
}

// HandleAdminOptionStock serves PUT /admin/options/{id}/stock.
func HandleAdminOptionStock(svc CatalogAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		optionID, ok := parseOptionStockPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		var req addStockRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if err := svc.AddStock(r.Context(), optionID, req.Quantity); err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"id": optionID})
	}
}

func parseOptionStockPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 {
		return "", false
	}
	if parts[0] != "admin" || parts[1] != "options" || parts[3] != "stock" || parts[2] == "" {
		return "", false
	}
	return parts[2], true
}

func toOptionResponse(option domain.Option) optionResponse {
	return optionResponse{
		ID:        option.ID,
		Name:      option.Name,
		UnitPrice: option.UnitPrice,
		Available: option.Available,
		CreatedAt: option.CreatedAt,
	}
}
