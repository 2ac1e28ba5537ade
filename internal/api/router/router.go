package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"farmconnect/internal/api/feed"
	"farmconnect/internal/api/feedback"
	"farmconnect/internal/api/livestock"
	"farmconnect/internal/api/medicine"
	"farmconnect/internal/api/request"
	"farmconnect/internal/api/user"
	"farmconnect/internal/domain"
	"farmconnect/internal/pkg/cache"
	"farmconnect/internal/pkg/middleware"
)

// Handlers agrupa os Handlers já inicializados, injetados pelo main.
type Handlers struct {
	User      *user.Handler
	Feed      *feed.Handler
	Medicine  *medicine.Handler
	Livestock *livestock.Handler
	Request   *request.Handler
	Feedback  *feedback.Handler
}

// RateLimitConfig agrupa os parâmetros do rate limiter global.
type RateLimitConfig struct {
	MaxRequests int
	Period      time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
// As rotas espelham a API pública sob /api, com a proteção de role original:
// catálogos são públicos para leitura, mutações de inventário são do Supplier,
// rebanho/requisições/feedback de escrita são do Owner e a decisão de
// requisição é do Supplier.
func NewRouter(h Handlers, tokenSvc middleware.TokenService, cacheClient cache.Client, rl RateLimitConfig) http.Handler {

	mux := http.NewServeMux()

	auth := middleware.NewAuthMiddleware(tokenSvc)
	ownerOnly := middleware.PermissionMiddleware(domain.RoleOwner)
	supplierOnly := middleware.PermissionMiddleware(domain.RoleSupplier)

	// --- 1. Health Check ---
	mux.HandleFunc("/ping", PingHandler)

	// --- 2. Usuários (rotas públicas) ---
	mux.HandleFunc("/api/users/signup", h.User.SignupHandler)
	mux.HandleFunc("/api/users/login", h.User.LoginHandler)
	mux.HandleFunc("/api/users/logout", h.User.LogoutHandler)

	// --- 3. Catálogo de Feeds ---
	mux.HandleFunc("/api/feed/getAllFeeds", h.Feed.GetAllFeedsHandler)
	mux.HandleFunc("/api/feed/getFeedById/", h.Feed.GetFeedByIDHandler)
	mux.HandleFunc("/api/feed/supplier/my-feeds", auth(supplierOnly(h.Feed.GetSupplierFeedsHandler)))
	mux.HandleFunc("/api/feed/addFeed", auth(supplierOnly(h.Feed.AddFeedHandler)))
	mux.HandleFunc("/api/feed/updateFeed/", auth(supplierOnly(h.Feed.UpdateFeedHandler)))
	mux.HandleFunc("/api/feed/deleteFeed/", auth(supplierOnly(h.Feed.DeleteFeedHandler)))

	// --- 4. Catálogo de Medicamentos ---
	mux.HandleFunc("/api/medicine/getAllMedicines", h.Medicine.GetAllMedicinesHandler)
	mux.HandleFunc("/api/medicine/getMedicineById/", h.Medicine.GetMedicineByIDHandler)
	mux.HandleFunc("/api/medicine/supplier/my-medicines", auth(supplierOnly(h.Medicine.GetSupplierMedicinesHandler)))
	mux.HandleFunc("/api/medicine/addMedicine", auth(supplierOnly(h.Medicine.AddMedicineHandler)))
	mux.HandleFunc("/api/medicine/updateMedicine/", auth(supplierOnly(h.Medicine.UpdateMedicineHandler)))
	mux.HandleFunc("/api/medicine/deleteMedicine/", auth(supplierOnly(h.Medicine.DeleteMedicineHandler)))

	// --- 5. Registro de Rebanho (Owner) ---
	mux.HandleFunc("/api/livestock/getAllLivestock", auth(ownerOnly(h.Livestock.GetAllLivestockHandler)))
	mux.HandleFunc("/api/livestock/getLivestockById/", auth(ownerOnly(h.Livestock.GetLivestockByIDHandler)))
	mux.HandleFunc("/api/livestock/addLivestock", auth(ownerOnly(h.Livestock.AddLivestockHandler)))
	mux.HandleFunc("/api/livestock/updateLivestock/", auth(ownerOnly(h.Livestock.UpdateLivestockHandler)))
	mux.HandleFunc("/api/livestock/deleteLivestock/", auth(ownerOnly(h.Livestock.DeleteLivestockHandler)))
	mux.HandleFunc("/api/livestock/owner/all", auth(ownerOnly(h.Livestock.GetOwnerLivestockHandler)))

	// --- 6. Fluxo de Requisições ---
	mux.HandleFunc("/api/request/addRequest", auth(ownerOnly(h.Request.AddRequestHandler)))
	mux.HandleFunc("/api/request/owner/all", auth(ownerOnly(h.Request.GetOwnerRequestsHandler)))
	mux.HandleFunc("/api/request/deleteRequest/", auth(ownerOnly(h.Request.DeleteRequestHandler)))
	mux.HandleFunc("/api/request/supplier/all", auth(supplierOnly(h.Request.GetSupplierRequestsHandler)))
	mux.HandleFunc("/api/request/updateRequestStatus/", auth(supplierOnly(h.Request.UpdateRequestStatusHandler)))

	// --- 7. Feedbacks ---
	mux.HandleFunc("/api/feedback/addFeedback", auth(ownerOnly(h.Feedback.AddFeedbackHandler)))
	mux.HandleFunc("/api/feedback/owner/all", auth(ownerOnly(h.Feedback.GetOwnerFeedbacksHandler)))
	mux.HandleFunc("/api/feedback/deleteFeedback/", auth(ownerOnly(h.Feedback.DeleteFeedbackHandler)))
	mux.HandleFunc("/api/feedback/supplier/all", auth(supplierOnly(h.Feedback.GetSupplierFeedbacksHandler)))

	// --- 8. Documentação da API ---
	mux.HandleFunc("/swagger/doc.json", OpenAPIDocHandler)
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// --- 9. Middlewares globais ---
	return middleware.RateLimiter(cacheClient, rl.MaxRequests, rl.Period)(mux)
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
