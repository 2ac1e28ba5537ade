package feedback

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

// FeedbackService define o contrato que o Handler espera da camada de Serviço.
type FeedbackService interface {
	CreateFeedback(ctx domain.Context, ownerID string, creation domain.FeedbackCreation) (domain.Feedback, error)
	ListByOwner(ctx domain.Context, ownerID string) ([]domain.Feedback, error)
	ListBySupplier(ctx domain.Context, supplierID string) ([]domain.Feedback, error)
	DeleteFeedback(ctx domain.Context, id, ownerID string) error
}

// Handler agrupa os métodos de Handler de feedbacks.
type Handler struct {
	Service FeedbackService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc FeedbackService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

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

func pathID(r *http.Request, prefix string) string {
	return strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
}

// AddFeedbackHandler lida com POST /api/feedback/addFeedback (Owner).
func (h *Handler) AddFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusCreated)
		return
	}

	var creation domain.FeedbackCreation
	if err := json.NewDecoder(r.Body).Decode(&creation); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	createdFeedback, err := h.Service.CreateFeedback(r.Context(), claims.UserID, creation)
	h.handleServiceResponse(w, r, createdFeedback, err, http.StatusCreated)
}

// GetOwnerFeedbacksHandler lida com GET /api/feedback/owner/all (Owner).
func (h *Handler) GetOwnerFeedbacksHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}

	feedbacks, err := h.Service.ListByOwner(r.Context(), claims.UserID)
	h.handleServiceResponse(w, r, feedbacks, err, http.StatusOK)
}

// GetSupplierFeedbacksHandler lida com GET /api/feedback/supplier/all (Supplier).
func (h *Handler) GetSupplierFeedbacksHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}

	feedbacks, err := h.Service.ListBySupplier(r.Context(), claims.UserID)
	h.handleServiceResponse(w, r, feedbacks, err, http.StatusOK)
}

// DeleteFeedbackHandler lida com DELETE /api/feedback/deleteFeedback/{id} (Owner).
func (h *Handler) DeleteFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}

	id := pathID(r, "/api/feedback/deleteFeedback/")
	err := h.Service.DeleteFeedback(r.Context(), id, claims.UserID)
	h.handleServiceResponse(w, r, map[string]string{"message": "Feedback excluído com sucesso."}, err, http.StatusOK)
}
