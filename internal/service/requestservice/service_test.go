package requestservice_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"farmconnect/internal/domain"
	apperror "farmconnect/internal/errors"
	"farmconnect/internal/service/requestservice"
)

// MockRequestRepository é uma implementação mock da interface RequestRepository
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Save(ctx context.Context, req domain.Request) (domain.Request, error) {
	args := m.Called(ctx, req)
	// Return(nil, nil) ecoa a requisição recebida, como o repositório real.
	if args.Get(0) == nil {
		return req, args.Error(1)
	}
	return args.Get(0).(domain.Request), args.Error(1)
}

func (m *MockRequestRepository) FindByID(ctx context.Context, id string) (domain.Request, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Request), args.Error(1)
}

func (m *MockRequestRepository) FindByOwner(ctx context.Context, ownerID string) ([]domain.Request, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Request), args.Error(1)
}

func (m *MockRequestRepository) FindBySupplier(ctx context.Context, supplierID string) ([]domain.Request, error) {
	args := m.Called(ctx, supplierID)
	return args.Get(0).([]domain.Request), args.Error(1)
}

func (m *MockRequestRepository) Approve(ctx context.Context, req domain.Request) (domain.Request, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Request), args.Error(1)
}

func (m *MockRequestRepository) Reject(ctx context.Context, req domain.Request) (domain.Request, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Request), args.Error(1)
}

func (m *MockRequestRepository) DeleteIfPending(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockInventoryResolver é uma implementação mock da interface InventoryResolver
type MockInventoryResolver struct {
	mock.Mock
}

func (m *MockInventoryResolver) FindItem(ctx context.Context, itemType domain.ItemType, itemID string) (domain.InventoryItem, error) {
	args := m.Called(ctx, itemType, itemID)
	return args.Get(0).(domain.InventoryItem), args.Error(1)
}

// TestCreateRequest_Success testa a criação de uma requisição Pendente.
func TestCreateRequest_Success(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockInventory := new(MockInventoryResolver)
	svc := requestservice.NewService(mockRepo, mockInventory)

	ownerID := uuid.New().String()
	itemID := uuid.New().String()
	supplierID := uuid.New().String()

	mockInventory.On("FindItem", mock.Anything, domain.ItemTypeFeed, itemID).
		Return(domain.InventoryItem{
			ID:             itemID,
			Type:           domain.ItemTypeFeed,
			Name:           "Ração Premium",
			SupplierID:     supplierID,
			AvailableUnits: 10,
		}, nil)

	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("domain.Request")).
		Return(nil, nil)

	creation := domain.RequestCreation{
		ItemType:      domain.ItemTypeFeed,
		ItemID:        itemID,
		LivestockName: "Mimosa",
		Quantity:      4,
	}

	result, err := svc.CreateRequest(context.Background(), ownerID, creation)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPending, result.Status)
	assert.Equal(t, "Ração Premium", result.ItemName, "o nome do item deve ser o snapshot resolvido no servidor")
	assert.Equal(t, ownerID, result.OwnerID)
	assert.NotEmpty(t, result.ID)
	assert.NotZero(t, result.RequestDate)
	mockRepo.AssertExpectations(t)
	mockInventory.AssertExpectations(t)
}

// TestCreateRequest_DoesNotReserveStock garante que a criação nunca chama a
// transição de aprovação (nenhum decremento acontece na criação).
func TestCreateRequest_DoesNotReserveStock(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockInventory := new(MockInventoryResolver)
	svc := requestservice.NewService(mockRepo, mockInventory)

	itemID := uuid.New().String()
	mockInventory.On("FindItem", mock.Anything, domain.ItemTypeMedicine, itemID).
		Return(domain.InventoryItem{ID: itemID, Type: domain.ItemTypeMedicine, Name: "Ivermectina", AvailableUnits: 3}, nil)
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("domain.Request")).
		Return(nil, nil)

	_, err := svc.CreateRequest(context.Background(), uuid.New().String(), domain.RequestCreation{
		ItemType: domain.ItemTypeMedicine,
		ItemID:   itemID,
		Quantity: 3,
	})

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything)
}

// TestCreateRequest_InsufficientStock testa a verificação provisória na criação.
func TestCreateRequest_InsufficientStock(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockInventory := new(MockInventoryResolver)
	svc := requestservice.NewService(mockRepo, mockInventory)

	itemID := uuid.New().String()
	mockInventory.On("FindItem", mock.Anything, domain.ItemTypeFeed, itemID).
		Return(domain.InventoryItem{ID: itemID, Type: domain.ItemTypeFeed, Name: "Milho", AvailableUnits: 4}, nil)

	_, err := svc.CreateRequest(context.Background(), uuid.New().String(), domain.RequestCreation{
		ItemType: domain.ItemTypeFeed,
		ItemID:   itemID,
		Quantity: 5,
	})

	assert.Error(t, err)
	var stockErr *apperror.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 4, stockErr.Available, "o erro deve carregar a contagem atual")
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestCreateRequest_Validation testa as rejeições de payload inválido.
func TestCreateRequest_Validation(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockInventory := new(MockInventoryResolver)
	svc := requestservice.NewService(mockRepo, mockInventory)

	cases := []struct {
		name     string
		creation domain.RequestCreation
	}{
		{"tipo inválido", domain.RequestCreation{ItemType: "Tractor", ItemID: uuid.New().String(), Quantity: 1}},
		{"quantidade zero", domain.RequestCreation{ItemType: domain.ItemTypeFeed, ItemID: uuid.New().String(), Quantity: 0}},
		{"quantidade negativa", domain.RequestCreation{ItemType: domain.ItemTypeFeed, ItemID: uuid.New().String(), Quantity: -2}},
		{"item vazio", domain.RequestCreation{ItemType: domain.ItemTypeFeed, ItemID: "", Quantity: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateRequest(context.Background(), uuid.New().String(), tc.creation)
			assert.Error(t, err)
			var valErr *apperror.ValidationError
			assert.ErrorAs(t, err, &valErr)
		})
	}

	mockInventory.AssertNotCalled(t, "FindItem", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestCreateRequest_ItemNotFound testa a criação contra um item inexistente.
func TestCreateRequest_ItemNotFound(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockInventory := new(MockInventoryResolver)
	svc := requestservice.NewService(mockRepo, mockInventory)

	itemID := uuid.New().String()
	mockInventory.On("FindItem", mock.Anything, domain.ItemTypeFeed, itemID).
		Return(domain.InventoryItem{}, apperror.NewNotFoundError("Feed com ID "+itemID+" não encontrado."))

	_, err := svc.CreateRequest(context.Background(), uuid.New().String(), domain.RequestCreation{
		ItemType: domain.ItemTypeFeed,
		ItemID:   itemID,
		Quantity: 1,
	})

	assert.Error(t, err)
	var nfErr *apperror.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

// TestUpdateStatus_ApproveDelegates testa a aprovação de uma requisição Pendente.
func TestUpdateStatus_ApproveDelegates(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockInventory := new(MockInventoryResolver)
	svc := requestservice.NewService(mockRepo, mockInventory)

	reqID := uuid.New().String()
	pending := domain.Request{ID: reqID, ItemType: domain.ItemTypeFeed, Quantity: 2, Status: domain.StatusPending}
	approved := pending
	approved.Status = domain.StatusApproved

	mockRepo.On("FindByID", mock.Anything, reqID).Return(pending, nil)
	mockRepo.On("Approve", mock.Anything, pending).Return(approved, nil)

	result, err := svc.UpdateStatus(context.Background(), reqID, domain.StatusApproved)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, result.Status)
	mockRepo.AssertExpectations(t)
}

// TestUpdateStatus_RejectDelegates testa a rejeição de uma requisição Pendente.
func TestUpdateStatus_RejectDelegates(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockInventory := new(MockInventoryResolver)
	svc := requestservice.NewService(mockRepo, mockInventory)

	reqID := uuid.New().String()
	pending := domain.Request{ID: reqID, Status: domain.StatusPending}
	rejected := pending
	rejected.Status = domain.StatusRejected

	mockRepo.On("FindByID", mock.Anything, reqID).Return(pending, nil)
	mockRepo.On("Reject", mock.Anything, pending).Return(rejected, nil)

	result, err := svc.UpdateStatus(context.Background(), reqID, domain.StatusRejected)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, result.Status)
	mockRepo.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything)
}

// TestUpdateStatus_AlreadyDecided garante que requisições decididas não
// transicionam de novo (nem re-aprovação nem rejeição posterior).
func TestUpdateStatus_AlreadyDecided(t *testing.T) {
	for _, terminal := range []domain.RequestStatus{domain.StatusApproved, domain.StatusRejected} {
		t.Run(string(terminal), func(t *testing.T) {
			mockRepo := new(MockRequestRepository)
			mockInventory := new(MockInventoryResolver)
			svc := requestservice.NewService(mockRepo, mockInventory)

			reqID := uuid.New().String()
			mockRepo.On("FindByID", mock.Anything, reqID).
				Return(domain.Request{ID: reqID, Status: terminal}, nil)

			_, err := svc.UpdateStatus(context.Background(), reqID, domain.StatusApproved)

			assert.Error(t, err)
			var transErr *apperror.InvalidTransitionError
			assert.ErrorAs(t, err, &transErr)
			mockRepo.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything)
			mockRepo.AssertNotCalled(t, "Reject", mock.Anything, mock.Anything)
		})
	}
}

// TestUpdateStatus_InvalidTarget testa a rejeição de status desconhecidos
// (incluindo a tentativa de voltar para Pending).
func TestUpdateStatus_InvalidTarget(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockInventory := new(MockInventoryResolver)
	svc := requestservice.NewService(mockRepo, mockInventory)

	for _, status := range []domain.RequestStatus{domain.StatusPending, "Cancelled", ""} {
		_, err := svc.UpdateStatus(context.Background(), uuid.New().String(), status)
		assert.Error(t, err)
		var valErr *apperror.ValidationError
		assert.ErrorAs(t, err, &valErr)
	}

	mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

// TestDeleteRequest_Delegates testa a exclusão condicionada a Pending.
func TestDeleteRequest_Delegates(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockInventory := new(MockInventoryResolver)
	svc := requestservice.NewService(mockRepo, mockInventory)

	reqID := uuid.New().String()
	mockRepo.On("DeleteIfPending", mock.Anything, reqID).Return(nil)

	err := svc.DeleteRequest(context.Background(), reqID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestDeleteRequest_NotPending testa a recusa da exclusão de requisição decidida.
func TestDeleteRequest_NotPending(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockInventory := new(MockInventoryResolver)
	svc := requestservice.NewService(mockRepo, mockInventory)

	reqID := uuid.New().String()
	mockRepo.On("DeleteIfPending", mock.Anything, reqID).
		Return(apperror.NewInvalidOperationError("apenas requisições pendentes podem ser excluídas."))

	err := svc.DeleteRequest(context.Background(), reqID)

	assert.Error(t, err)
	var opErr *apperror.InvalidOperationError
	assert.ErrorAs(t, err, &opErr)
}

// --- Propriedade de não-oversell sob concorrência ---

// stubInventory devolve sempre o mesmo item (usado pelo fake concorrente).
type stubInventory struct {
	item domain.InventoryItem
	mu   *sync.Mutex
	repo *fakeRequestStore
}

func (s *stubInventory) FindItem(ctx context.Context, itemType domain.ItemType, itemID string) (domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.item
	item.AvailableUnits = s.repo.stock
	return item, nil
}

// fakeRequestStore é um repositório em memória que honra o contrato do
// decremento condicional: a aprovação só desconta se o estoque comporta a
// quantidade, e cada requisição transiciona no máximo uma vez. É o mesmo
// contrato que o UPDATE condicional aplica no banco.
type fakeRequestStore struct {
	mu       sync.Mutex
	stock    int
	requests map[string]domain.Request
}

func newFakeRequestStore(stock int) *fakeRequestStore {
	return &fakeRequestStore{stock: stock, requests: make(map[string]domain.Request)}
}

func (f *fakeRequestStore) Save(ctx context.Context, req domain.Request) (domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeRequestStore) FindByID(ctx context.Context, id string) (domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return domain.Request{}, apperror.NewNotFoundError("Não foi encontrada nenhuma requisição com ID " + id + ".")
	}
	return req, nil
}

func (f *fakeRequestStore) FindByOwner(ctx context.Context, ownerID string) ([]domain.Request, error) {
	return nil, nil
}

func (f *fakeRequestStore) FindBySupplier(ctx context.Context, supplierID string) ([]domain.Request, error) {
	return nil, nil
}

func (f *fakeRequestStore) Approve(ctx context.Context, req domain.Request) (domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.requests[req.ID]
	if !ok {
		return domain.Request{}, apperror.NewNotFoundError("requisição inexistente")
	}
	if f.stock < stored.Quantity {
		return domain.Request{}, apperror.NewInsufficientStockError(f.stock)
	}
	if stored.Status != domain.StatusPending {
		return domain.Request{}, apperror.NewInvalidTransitionError("a requisição não está mais pendente.")
	}
	f.stock -= stored.Quantity
	stored.Status = domain.StatusApproved
	f.requests[req.ID] = stored
	return stored, nil
}

func (f *fakeRequestStore) Reject(ctx context.Context, req domain.Request) (domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.requests[req.ID]
	if stored.Status != domain.StatusPending {
		return domain.Request{}, apperror.NewInvalidTransitionError("a requisição não está mais pendente.")
	}
	stored.Status = domain.StatusRejected
	f.requests[req.ID] = stored
	return stored, nil
}

func (f *fakeRequestStore) DeleteIfPending(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.requests[id]
	if !ok {
		return apperror.NewNotFoundError("requisição inexistente")
	}
	if stored.Status != domain.StatusPending {
		return apperror.NewInvalidOperationError("apenas requisições pendentes podem ser excluídas.")
	}
	delete(f.requests, id)
	return nil
}

// TestConcurrentApprovals_TwoRacingForSameStock: estoque 5, duas requisições
// Pendentes de 3 unidades aprovadas concorrentemente — exatamente uma deve
// vencer (restando 2) e a outra falhar por estoque insuficiente, qualquer que
// seja a ordem de chegada.
func TestConcurrentApprovals_TwoRacingForSameStock(t *testing.T) {
	store := newFakeRequestStore(5)
	itemID := uuid.New().String()
	inventory := &stubInventory{
		item: domain.InventoryItem{ID: itemID, Type: domain.ItemTypeFeed, Name: "Farelo de Soja"},
		mu:   &store.mu,
		repo: store,
	}
	svc := requestservice.NewService(store, inventory)

	idA, idB := uuid.New().String(), uuid.New().String()
	for _, id := range []string{idA, idB} {
		store.Save(context.Background(), domain.Request{
			ID:       id,
			ItemType: domain.ItemTypeFeed,
			ItemID:   itemID,
			Quantity: 3,
			Status:   domain.StatusPending,
		})
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{idA, idB} {
		wg.Add(1)
		go func(idx int, reqID string) {
			defer wg.Done()
			_, err := svc.UpdateStatus(context.Background(), reqID, domain.StatusApproved)
			errs[idx] = err
		}(i, id)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			var stockErr *apperror.InsufficientStockError
			assert.ErrorAs(t, err, &stockErr)
			assert.Equal(t, 2, stockErr.Available, "a perdedora deve ver a contagem restante")
		}
	}

	assert.Equal(t, 1, succeeded, "exatamente uma aprovação deve vencer")
	assert.Equal(t, 2, store.stock)
}

// TestConcurrentApprovals_NoOversell aprova concorrentemente mais requisições
// do que o estoque comporta e verifica que o total aprovado nunca excede o
// estoque inicial e que o contador nunca fica negativo.
func TestConcurrentApprovals_NoOversell(t *testing.T) {
	const initialStock = 5
	const totalRequests = 12

	store := newFakeRequestStore(initialStock)
	itemID := uuid.New().String()
	inventory := &stubInventory{
		item: domain.InventoryItem{ID: itemID, Type: domain.ItemTypeFeed, Name: "Farelo de Soja"},
		mu:   &store.mu,
		repo: store,
	}
	svc := requestservice.NewService(store, inventory)

	// Semear as requisições Pendentes direto no store (todas de 1 unidade).
	ids := make([]string, 0, totalRequests)
	for i := 0; i < totalRequests; i++ {
		id := uuid.New().String()
		ids = append(ids, id)
		store.Save(context.Background(), domain.Request{
			ID:       id,
			ItemType: domain.ItemTypeFeed,
			ItemID:   itemID,
			Quantity: 1,
			Status:   domain.StatusPending,
		})
	}

	var wg sync.WaitGroup
	results := make([]error, totalRequests)
	for i, id := range ids {
		wg.Add(1)
		go func(idx int, reqID string) {
			defer wg.Done()
			_, err := svc.UpdateStatus(context.Background(), reqID, domain.StatusApproved)
			results[idx] = err
		}(i, id)
	}
	wg.Wait()

	approved := 0
	insufficient := 0
	for _, err := range results {
		if err == nil {
			approved++
			continue
		}
		var stockErr *apperror.InsufficientStockError
		if assert.ErrorAs(t, err, &stockErr, "falhas devem ser por estoque insuficiente") {
			insufficient++
		}
	}

	assert.Equal(t, initialStock, approved, "o total aprovado deve ser exatamente o estoque inicial")
	assert.Equal(t, totalRequests-initialStock, insufficient)
	assert.GreaterOrEqual(t, store.stock, 0, "o estoque nunca pode ficar negativo")
	assert.Equal(t, 0, store.stock)
}
