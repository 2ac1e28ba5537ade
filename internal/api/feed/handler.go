package feed

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"farmconnect/internal/domain"
	apperror "farmconnect/internal/errors"
	"farmconnect/internal/pkg/logger"
	"farmconnect/internal/pkg/middleware"
)

// FeedService define o contrato que o Handler espera da camada de Serviço.
type FeedService interface {
	CreateFeed(ctx domain.Context, supplierID string, feed domain.Feed) (domain.Feed, error)
	GetFeed(ctx domain.Context, id string) (domain.Feed, error)
	ListFeeds(ctx domain.Context) ([]domain.Feed, error)
	ListBySupplier(ctx domain.Context, supplierID string) ([]domain.Feed, error)
	UpdateFeed(ctx domain.Context, feed domain.Feed) (domain.Feed, error)
	DeleteFeed(ctx domain.Context, id string) error
}

// Handler agrupa os métodos de Handler do catálogo de feeds.
type Handler struct {
	Service FeedService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc FeedService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
				http.Error(w, "Erro ao codificar resposta", http.StatusInternalServerError)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{Code: status, Category: category, Message: message})
}

// pathID extrai o segmento final da URL (o ID) após o prefixo da rota.
func pathID(r *http.Request, prefix string) string {
	return strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
}

// GetAllFeedsHandler lida com GET /api/feed/getAllFeeds (rota pública).
func (h *Handler) GetAllFeedsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	feeds, err := h.Service.ListFeeds(r.Context())
	h.handleServiceResponse(w, r, feeds, err, http.StatusOK)
}

// GetFeedByIDHandler lida com GET /api/feed/getFeedById/{id} (rota pública).
func (h *Handler) GetFeedByIDHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	id := pathID(r, "/api/feed/getFeedById/")
	feed, err := h.Service.GetFeed(r.Context(), id)
	h.handleServiceResponse(w, r, feed, err, http.StatusOK)
}

// GetSupplierFeedsHandler lida com GET /api/feed/supplier/my-feeds (Supplier).
func (h *Handler) GetSupplierFeedsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}

	feeds, err := h.Service.ListBySupplier(r.Context(), claims.UserID)
	h.handleServiceResponse(w, r, feeds, err, http.StatusOK)
}

// AddFeedHandler lida com POST /api/feed/addFeed (Supplier).
func (h *Handler) AddFeedHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusCreated)
		return
	}

	var feed domain.Feed
	if err := json.NewDecoder(r.Body).Decode(&feed); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	createdFeed, err := h.Service.CreateFeed(r.Context(), claims.UserID, feed)
	h.handleServiceResponse(w, r, createdFeed, err, http.StatusCreated)
}

// UpdateFeedHandler lida com PUT /api/feed/updateFeed/{id} (Supplier).
func (h *Handler) UpdateFeedHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var feed domain.Feed
	if err := json.NewDecoder(r.Body).Decode(&feed); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}
	feed.ID = pathID(r, "/api/feed/updateFeed/")

	updatedFeed, err := h.Service.UpdateFeed(r.Context(), feed)
	h.handleServiceResponse(w, r, updatedFeed, err, http.StatusOK)
}

// DeleteFeedHandler lida com DELETE /api/feed/deleteFeed/{id} (Supplier).
func (h *Handler) DeleteFeedHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	id := pathID(r, "/api/feed/deleteFeed/")
	err := h.Service.DeleteFeed(r.Context(), id)
	h.handleServiceResponse(w, r, map[string]string{"message": "Feed excluído com sucesso."}, err, http.StatusOK)
}
