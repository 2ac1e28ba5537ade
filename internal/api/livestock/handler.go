package livestock

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

// LivestockService define o contrato que o Handler espera da camada de Serviço.
type LivestockService interface {
	CreateLivestock(ctx domain.Context, ownerID string, livestock domain.Livestock) (domain.Livestock, error)
	GetLivestock(ctx domain.Context, id, ownerID string) (domain.Livestock, error)
	ListByOwner(ctx domain.Context, ownerID string) ([]domain.Livestock, error)
	UpdateLivestock(ctx domain.Context, livestock domain.Livestock) (domain.Livestock, error)
	DeleteLivestock(ctx domain.Context, id, ownerID string) error
}

// Handler agrupa os métodos de Handler do registro de rebanho.
// Todas as rotas são exclusivas do Owner e escopadas pelo usuário autenticado.
type Handler struct {
	Service LivestockService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc LivestockService, log logger.Logger) *Handler {
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

// ownerID extrai o ID do proprietário autenticado do contexto.
func ownerID(r *http.Request) (string, bool) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		return "", false
	}
	return claims.UserID, true
}

// GetAllLivestockHandler lida com GET /api/livestock/getAllLivestock (Owner).
func (h *Handler) GetAllLivestockHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	owner, ok := ownerID(r)
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}

	herd, err := h.Service.ListByOwner(r.Context(), owner)
	h.handleServiceResponse(w, r, herd, err, http.StatusOK)
}

// GetLivestockByIDHandler lida com GET /api/livestock/getLivestockById/{id} (Owner).
func (h *Handler) GetLivestockByIDHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	owner, ok := ownerID(r)
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}

	id := pathID(r, "/api/livestock/getLivestockById/")
	livestock, err := h.Service.GetLivestock(r.Context(), id, owner)
	h.handleServiceResponse(w, r, livestock, err, http.StatusOK)
}

// AddLivestockHandler lida com POST /api/livestock/addLivestock (Owner).
// O campo attachment chega como caminho simples no JSON; o upload do arquivo
// em si fica fora do backend.
func (h *Handler) AddLivestockHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	owner, ok := ownerID(r)
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusCreated)
		return
	}

	var livestock domain.Livestock
	if err := json.NewDecoder(r.Body).Decode(&livestock); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	createdLivestock, err := h.Service.CreateLivestock(r.Context(), owner, livestock)
	h.handleServiceResponse(w, r, createdLivestock, err, http.StatusCreated)
}

// UpdateLivestockHandler lida com PUT /api/livestock/updateLivestock/{id} (Owner).
func (h *Handler) UpdateLivestockHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	owner, ok := ownerID(r)
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}

	var livestock domain.Livestock
	if err := json.NewDecoder(r.Body).Decode(&livestock); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}
	livestock.ID = pathID(r, "/api/livestock/updateLivestock/")
	livestock.OwnerID = owner

	updatedLivestock, err := h.Service.UpdateLivestock(r.Context(), livestock)
	h.handleServiceResponse(w, r, updatedLivestock, err, http.StatusOK)
}

// DeleteLivestockHandler lida com DELETE /api/livestock/deleteLivestock/{id} (Owner).
func (h *Handler) DeleteLivestockHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	owner, ok := ownerID(r)
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}

	id := pathID(r, "/api/livestock/deleteLivestock/")
	err := h.Service.DeleteLivestock(r.Context(), id, owner)
	h.handleServiceResponse(w, r, map[string]string{"message": "Registro de rebanho excluído com sucesso."}, err, http.StatusOK)
}

// GetOwnerLivestockHandler lida com GET /api/livestock/owner/all (Owner).
func (h *Handler) GetOwnerLivestockHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	owner, ok := ownerID(r)
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}

	herd, err := h.Service.ListByOwner(r.Context(), owner)
	h.handleServiceResponse(w, r, herd, err, http.StatusOK)
}
