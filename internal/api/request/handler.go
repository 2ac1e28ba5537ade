package request

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

// RequestService define o contrato que o Handler espera da camada de Serviço.
type RequestService interface {
	CreateRequest(ctx domain.Context, ownerID string, creation domain.RequestCreation) (domain.Request, error)
	UpdateStatus(ctx domain.Context, id string, newStatus domain.RequestStatus) (domain.Request, error)
	DeleteRequest(ctx domain.Context, id string) error
	ListByOwner(ctx domain.Context, ownerID string) ([]domain.Request, error)
	ListBySupplier(ctx domain.Context, supplierID string) ([]domain.Request, error)
}

// Handler agrupa os métodos de Handler do fluxo de requisições.
type Handler struct {
	Service RequestService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc RequestService, log logger.Logger) *Handler {
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

// AddRequestHandler lida com POST /api/request/addRequest (Owner).
// Cria a requisição como Pendente; nenhum estoque é reservado aqui.
func (h *Handler) AddRequestHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusCreated)
		return
	}

	var creation domain.RequestCreation
	if err := json.NewDecoder(r.Body).Decode(&creation); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	createdReq, err := h.Service.CreateRequest(r.Context(), claims.UserID, creation)
	h.handleServiceResponse(w, r, createdReq, err, http.StatusCreated)
}

// UpdateRequestStatusHandler lida com PUT /api/request/updateRequestStatus/{id} (Supplier).
// Aprovação decrementa o estoque atomicamente; rejeição apenas muda o status.
func (h *Handler) UpdateRequestStatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var update domain.RequestStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	id := pathID(r, "/api/request/updateRequestStatus/")
	updatedReq, err := h.Service.UpdateStatus(r.Context(), id, update.Status)
	h.handleServiceResponse(w, r, updatedReq, err, http.StatusOK)
}

// DeleteRequestHandler lida com DELETE /api/request/deleteRequest/{id} (Owner).
// Apenas requisições Pendentes podem ser excluídas; a regra é do servidor.
func (h *Handler) DeleteRequestHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	id := pathID(r, "/api/request/deleteRequest/")
	err := h.Service.DeleteRequest(r.Context(), id)
	h.handleServiceResponse(w, r, map[string]string{"message": "Requisição excluída com sucesso."}, err, http.StatusOK)
}

// GetOwnerRequestsHandler lida com GET /api/request/owner/all (Owner).
func (h *Handler) GetOwnerRequestsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}

	requests, err := h.Service.ListByOwner(r.Context(), claims.UserID)
	h.handleServiceResponse(w, r, requests, err, http.StatusOK)
}

// GetSupplierRequestsHandler lida com GET /api/request/supplier/all (Supplier).
func (h *Handler) GetSupplierRequestsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}

	requests, err := h.Service.ListBySupplier(r.Context(), claims.UserID)
	h.handleServiceResponse(w, r, requests, err, http.StatusOK)
}
