package user

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"farmconnect/internal/domain"
	apperror "farmconnect/internal/errors"
	"farmconnect/internal/pkg/logger"
)

// UserService define o contrato que o Handler espera da camada de Serviço.
type UserService interface {
	Register(ctx domain.Context, registration domain.UserRegistration) (domain.User, error)
	Login(ctx domain.Context, email, password string) (domain.LoginResult, error)
}

// Handler agrupa os métodos de Handler de usuários.
type Handler struct {
	Service     UserService
	Logger      logger.Logger
	TokenExpiry time.Duration
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger, tokenExpiry time.Duration) *Handler {
	return &Handler{
		Service:     svc,
		Logger:      log,
		TokenExpiry: tokenExpiry,
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

// SignupHandler lida com a requisição POST /api/users/signup.
func (h *Handler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var registration domain.UserRegistration
	if err := json.NewDecoder(r.Body).Decode(&registration); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	createdUser, err := h.Service.Register(r.Context(), registration)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusCreated)
		return
	}

	h.handleServiceResponse(w, r, createdUser, nil, http.StatusCreated)
}

// loginPayload é o corpo esperado no login.
type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler lida com a requisição POST /api/users/login.
// Além de devolver o token no corpo, grava o cookie httpOnly "token" usado
// pelo cliente web (o middleware aceita cookie ou header Bearer).
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	result, err := h.Service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    result.Token,
		Path:     "/",
		Expires:  time.Now().Add(h.TokenExpiry),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	h.handleServiceResponse(w, r, result, nil, http.StatusOK)
}

// LogoutHandler lida com a requisição POST /api/users/logout.
// Expira o cookie de sessão; o token Bearer, se houver, simplesmente expira
// sozinho (não há blacklist no servidor).
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	h.handleServiceResponse(w, r, map[string]string{"message": "Logout realizado com sucesso."}, nil, http.StatusOK)
}
