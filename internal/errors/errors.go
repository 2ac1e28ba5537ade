package errors

import (
	goerrors "errors"
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados do FarmConnect.
// Ela permite que o código externo (Handler) acesse a Categoria e a Mensagem do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION", "NOT_FOUND", "INTERNAL")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// --- Tipos de Erro Específicos (Erros de Domínio) ---

// ValidationError representa falhas de validação de dados de entrada.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }                   // Não encapsula erro subjacente

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// InsufficientStockError representa uma quantidade solicitada/aprovada maior
// que as unidades disponíveis no momento da verificação. A contagem atual fica
// acessível para que o chamador possa ajustar e reenviar.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Unidades insuficientes. Apenas %d unidades disponíveis.", e.Available)
}
func (e *InsufficientStockError) Category() string { return "INSUFFICIENT_STOCK" }
func (e *InsufficientStockError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *InsufficientStockError) Unwrap() error    { return nil }

// NewInsufficientStockError cria um erro de estoque insuficiente com a contagem atual.
func NewInsufficientStockError(available int) AppError {
	return &InsufficientStockError{Available: available}
}

// InvalidTransitionError representa uma mudança de status sobre uma requisição
// que não está mais Pendente (re-aprovação/re-rejeição é explicitamente negada).
type InvalidTransitionError struct {
	Msg string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("Transição de status inválida: %s", e.Msg)
}
func (e *InvalidTransitionError) Category() string { return "INVALID_TRANSITION" }
func (e *InvalidTransitionError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *InvalidTransitionError) Unwrap() error    { return nil }

// NewInvalidTransitionError cria um erro de transição de estado inválida.
func NewInvalidTransitionError(msg string) AppError {
	return &InvalidTransitionError{Msg: msg}
}

// InvalidOperationError representa uma operação negada pelo estado atual do
// recurso (e.g., excluir uma requisição já aprovada ou rejeitada).
type InvalidOperationError struct {
	Msg string
}

func (e *InvalidOperationError) Error() string    { return fmt.Sprintf("Operação inválida: %s", e.Msg) }
func (e *InvalidOperationError) Category() string { return "INVALID_OPERATION" }
func (e *InvalidOperationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *InvalidOperationError) Unwrap() error    { return nil }

// NewInvalidOperationError cria um novo erro de operação inválida.
func NewInvalidOperationError(msg string) AppError {
	return &InvalidOperationError{Msg: msg}
}

// ConflictError representa um conflito na regra de negócio (e.g., exclusão de
// item que ainda possui requisições pendentes).
// O contrato da API expõe este caso como 400, não 409.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string    { return fmt.Sprintf("Conflito de estado: %s", e.Msg) }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ConflictError) Unwrap() error    { return nil }

// NewConflictError cria um novo erro de conflito.
func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// DuplicateError representa uma segunda submissão de um recurso que deve ser
// único (e.g., feedback repetido para o mesmo (owner, item, categoria)).
type DuplicateError struct {
	Msg string
}

func (e *DuplicateError) Error() string    { return fmt.Sprintf("Recurso duplicado: %s", e.Msg) }
func (e *DuplicateError) Category() string { return "DUPLICATE" }
func (e *DuplicateError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *DuplicateError) Unwrap() error    { return nil }

// NewDuplicateError cria um novo erro de duplicidade.
func NewDuplicateError(msg string) AppError {
	return &DuplicateError{Msg: msg}
}

// UnauthorizedError representa falha de autenticação (token ausente/inválido
// ou credenciais incorretas).
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return fmt.Sprintf("Não autorizado: %s", e.Msg) }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized } // 401
func (e *UnauthorizedError) Unwrap() error    { return nil }

// NewUnauthorizedError cria um novo erro de autenticação.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// ForbiddenError representa falha de autorização (role sem a permissão necessária).
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string    { return fmt.Sprintf("Acesso negado: %s", e.Msg) }
func (e *ForbiddenError) Category() string { return "FORBIDDEN" }
func (e *ForbiddenError) HTTPStatus() int  { return http.StatusForbidden } // 403
func (e *ForbiddenError) Unwrap() error    { return nil }

// NewForbiddenError cria um novo erro de autorização.
func NewForbiddenError(msg string) AppError {
	return &ForbiddenError{Msg: msg}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *InternalError) Error() string    { return fmt.Sprintf("Erro Interno: %s", e.Msg) }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas no DB.
func NewDBError(msg string, err error) AppError {
	// Poderia adicionar lógica aqui para verificar se o erro é de timeout ou conexão.
	return NewInternalError(fmt.Sprintf("%s (DB): %s", msg, err.Error()), err)
}

// --- Helper para o Handler (Tradução Final) ---

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP e corpo de resposta.
func MapToHTTPStatus(err error) (int, string, string) {
	// errors.As atravessa encadeamentos de fmt.Errorf("%w") feitos nas camadas
	// superiores e recupera o AppError original.
	var appErr AppError
	if goerrors.As(err, &appErr) {
		// O erro é tipado (ValidationError, NotFoundError, etc.)
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	// Erro não tipado (e.g., erro simples de pacote Go que não implementa AppError)
	// Tratar como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocorreu um erro inesperado."
}
