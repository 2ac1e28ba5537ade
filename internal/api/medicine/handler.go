package medicine

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

// MedicineService define o contrato que o Handler espera da camada de Serviço.
type MedicineService interface {
	CreateMedicine(ctx domain.Context, supplierID string, medicine domain.Medicine) (domain.Medicine, error)
	GetMedicine(ctx domain.Context, id string) (domain.Medicine, error)
	ListMedicines(ctx domain.Context) ([]domain.Medicine, error)
	ListBySupplier(ctx domain.Context, supplierID string) ([]domain.Medicine, error)
	UpdateMedicine(ctx domain.Context, medicine domain.Medicine) (domain.Medicine, error)
	DeleteMedicine(ctx domain.Context, id string) error
}

// Handler agrupa os métodos de Handler do catálogo de medicamentos.
type Handler struct {
	Service MedicineService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc MedicineService, log logger.Logger) *Handler {
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

// GetAllMedicinesHandler lida com GET /api/medicine/getAllMedicines (rota pública).
func (h *Handler) GetAllMedicinesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	medicines, err := h.Service.ListMedicines(r.Context())
	h.handleServiceResponse(w, r, medicines, err, http.StatusOK)
}

// GetMedicineByIDHandler lida com GET /api/medicine/getMedicineById/{id} (rota pública).
func (h *Handler) GetMedicineByIDHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	id := pathID(r, "/api/medicine/getMedicineById/")
	medicine, err := h.Service.GetMedicine(r.Context(), id)
	h.handleServiceResponse(w, r, medicine, err, http.StatusOK)
}

// GetSupplierMedicinesHandler lida com GET /api/medicine/supplier/my-medicines (Supplier).
func (h *Handler) GetSupplierMedicinesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}

	medicines, err := h.Service.ListBySupplier(r.Context(), claims.UserID)
	h.handleServiceResponse(w, r, medicines, err, http.StatusOK)
}

// AddMedicineHandler lida com POST /api/medicine/addMedicine (Supplier).
func (h *Handler) AddMedicineHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusCreated)
		return
	}

	var medicine domain.Medicine
	if err := json.NewDecoder(r.Body).Decode(&medicine); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	createdMedicine, err := h.Service.CreateMedicine(r.Context(), claims.UserID, medicine)
	h.handleServiceResponse(w, r, createdMedicine, err, http.StatusCreated)
}

// UpdateMedicineHandler lida com PUT /api/medicine/updateMedicine/{id} (Supplier).
func (h *Handler) UpdateMedicineHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var medicine domain.Medicine
	if err := json.NewDecoder(r.Body).Decode(&medicine); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}
	medicine.ID = pathID(r, "/api/medicine/updateMedicine/")

	updatedMedicine, err := h.Service.UpdateMedicine(r.Context(), medicine)
	h.handleServiceResponse(w, r, updatedMedicine, err, http.StatusOK)
}

// DeleteMedicineHandler lida com DELETE /api/medicine/deleteMedicine/{id} (Supplier).
func (h *Handler) DeleteMedicineHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	id := pathID(r, "/api/medicine/deleteMedicine/")
	err := h.Service.DeleteMedicine(r.Context(), id)
	h.handleServiceResponse(w, r, map[string]string{"message": "Medicamento excluído com sucesso."}, err, http.StatusOK)
}
