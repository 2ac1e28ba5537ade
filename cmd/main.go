package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Pacotes de infraestrutura e utilitários
	"farmconnect/config"
	"farmconnect/internal/pkg/cache"
	"farmconnect/internal/pkg/database"
	"farmconnect/internal/pkg/logger"
	"farmconnect/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"farmconnect/internal/api/feed"
	"farmconnect/internal/api/feedback"
	"farmconnect/internal/api/livestock"
	"farmconnect/internal/api/medicine"
	"farmconnect/internal/api/request"
	"farmconnect/internal/api/router"
	"farmconnect/internal/api/user"
	"farmconnect/internal/repository/feedbackrepo"
	"farmconnect/internal/repository/feedrepo"
	"farmconnect/internal/repository/inventoryrepo"
	"farmconnect/internal/repository/livestockrepo"
	"farmconnect/internal/repository/medicinerepo"
	"farmconnect/internal/repository/requestrepo"
	"farmconnect/internal/repository/userrepo"
	"farmconnect/internal/service/feedbackservice"
	"farmconnect/internal/service/feedservice"
	"farmconnect/internal/service/livestockservice"
	"farmconnect/internal/service/medicineservice"
	"farmconnect/internal/service/requestservice"
	"farmconnect/internal/service/userservice"
)

func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço FarmConnect...")
	// O godotenv.Load() procura por um arquivo chamado .env na raiz.
	if err := godotenv.Load(); err != nil {
		// As variáveis essenciais podem estar no ambiente do sistema (ex: Docker).
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	log.Info("Conexão Redis estabelecida.", nil)

	// C. Serviço de Tokens (JWT)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	log.Debug("Serviço de Tokens JWT inicializado.", nil)

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler

	// A. Repositórios (Camada de Acesso a Dados)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, log)
	feedRepo := feedrepo.NewFeedRepository(db, cacheClient, cfg.DBTimeout, cfg.ItemCacheTTL, log)
	medicineRepo := medicinerepo.NewMedicineRepository(db, cacheClient, cfg.DBTimeout, cfg.ItemCacheTTL, log)
	livestockRepo := livestockrepo.NewLivestockRepository(db, cfg.DBTimeout, log)
	inventoryRepo := inventoryrepo.NewInventoryRepository(db, cfg.DBTimeout, log)
	requestRepo := requestrepo.NewRequestRepository(db, cacheClient, cfg.DBTimeout, log)
	feedbackRepo := feedbackrepo.NewFeedbackRepository(db, cfg.DBTimeout, log)
	log.Debug("Repositórios inicializados.", nil)

	// B. Serviços (Camada de Lógica de Negócio)
	userSvc := userservice.NewService(userRepo, tokenSvc)
	feedSvc := feedservice.NewService(feedRepo, requestRepo)
	medicineSvc := medicineservice.NewService(medicineRepo, requestRepo)
	livestockSvc := livestockservice.NewService(livestockRepo)
	requestSvc := requestservice.NewService(requestRepo, inventoryRepo)
	feedbackSvc := feedbackservice.NewService(feedbackRepo, inventoryRepo)
	log.Debug("Serviços inicializados.", nil)

	// C. Handlers (Camada de Apresentação)
	handlers := router.Handlers{
		User:      user.NewHandler(userSvc, log, cfg.TokenExpiry),
		Feed:      feed.NewHandler(feedSvc, log),
		Medicine:  medicine.NewHandler(medicineSvc, log),
		Livestock: livestock.NewHandler(livestockSvc, log),
		Request:   request.NewHandler(requestSvc, log),
		Feedback:  feedback.NewHandler(feedbackSvc, log),
	}
	log.Debug("Handlers inicializados.", nil)

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(handlers, tokenSvc, cacheClient, router.RateLimitConfig{
		MaxRequests: cfg.RateLimitMaxRequests,
		Period:      cfg.RateLimitPeriod,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor FarmConnect ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	// Captura de sinal para desligamento gracioso
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de desligamento recebido. Encerrando servidor...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Falha no desligamento gracioso do servidor.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
