package domain

import "time"

// User representa a entidade do usuário no sistema.
type User struct {
	ID           string    `json:"id"`
	UserName     string    `json:"userName"`
	Email        string    `json:"email"`
	Mobile       string    `json:"mobile"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

// Papéis suportados: proprietário de rebanho e fornecedor de insumos.
const (
	RoleOwner    UserRole = "Owner"
	RoleSupplier UserRole = "Supplier"
)

// IsValid informa se a role é uma das duas suportadas.
func (r UserRole) IsValid() bool {
	return r == RoleOwner || r == RoleSupplier
}

// UserRegistration representa o payload de entrada para o cadastro.
type UserRegistration struct {
	UserName string   `json:"userName"`
	Email    string   `json:"email"`
	Mobile   string   `json:"mobile"`
	Password string   `json:"password"`
	Role     UserRole `json:"role"`
}

// LoginResult agrupa os dados devolvidos após autenticação bem-sucedida.
type LoginResult struct {
	UserID   string   `json:"userId"`
	UserName string   `json:"userName"`
	Role     UserRole `json:"role"`
	Token    string   `json:"token"`
}

// Context é uma interface que encapsula o Go context.Context.
// É usado para propagar o timeout e sinais de cancelamento pelas camadas.
// Isso evita a dependência direta do pacote "context" no domínio.
type Context interface{}
