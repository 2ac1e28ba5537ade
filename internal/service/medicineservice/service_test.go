package medicineservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"farmconnect/internal/domain"
	apperror "farmconnect/internal/errors"
	"farmconnect/internal/service/medicineservice"
)

// MockMedicineRepository é uma implementação mock da interface MedicineRepository
type MockMedicineRepository struct {
	mock.Mock
}

func (m *MockMedicineRepository) Save(ctx context.Context, medicine domain.Medicine) (domain.Medicine, error) {
	args := m.Called(ctx, medicine)
	if args.Get(0) == nil {
		return medicine, args.Error(1)
	}
	return args.Get(0).(domain.Medicine), args.Error(1)
}

func (m *MockMedicineRepository) FindByID(ctx context.Context, id string) (domain.Medicine, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Medicine), args.Error(1)
}

func (m *MockMedicineRepository) FindAll(ctx context.Context) ([]domain.Medicine, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Medicine), args.Error(1)
}

func (m *MockMedicineRepository) FindBySupplier(ctx context.Context, supplierID string) ([]domain.Medicine, error) {
	args := m.Called(ctx, supplierID)
	return args.Get(0).([]domain.Medicine), args.Error(1)
}

func (m *MockMedicineRepository) Update(ctx context.Context, medicine domain.Medicine) (domain.Medicine, error) {
	args := m.Called(ctx, medicine)
	return args.Get(0).(domain.Medicine), args.Error(1)
}

func (m *MockMedicineRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPendingChecker é uma implementação mock da interface PendingRequestChecker
type MockPendingChecker struct {
	mock.Mock
}

func (m *MockPendingChecker) CountPendingByItem(ctx context.Context, itemType domain.ItemType, itemID string) (int, error) {
	args := m.Called(ctx, itemType, itemID)
	return args.Int(0), args.Error(1)
}

// TestCreateMedicine_Success testa a publicação de um medicamento.
func TestCreateMedicine_Success(t *testing.T) {
	mockRepo := new(MockMedicineRepository)
	mockPending := new(MockPendingChecker)
	svc := medicineservice.NewService(mockRepo, mockPending)

	supplierID := uuid.New().String()
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("domain.Medicine")).Return(nil, nil)

	result, err := svc.CreateMedicine(context.Background(), supplierID, domain.Medicine{
		MedicineName:   "Oxitetraciclina",
		Dosage:         "10mg/kg",
		Unit:           "frasco",
		PricePerUnit:   45.0,
		AvailableUnits: 20,
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, supplierID, result.SupplierID)
	mockRepo.AssertExpectations(t)
}

// TestDeleteMedicine_BlockedByPendingRequests espelha a guarda de exclusão do
// catálogo para a variante Medicine.
func TestDeleteMedicine_BlockedByPendingRequests(t *testing.T) {
	mockRepo := new(MockMedicineRepository)
	mockPending := new(MockPendingChecker)
	svc := medicineservice.NewService(mockRepo, mockPending)

	medicineID := uuid.New().String()
	mockPending.On("CountPendingByItem", mock.Anything, domain.ItemTypeMedicine, medicineID).Return(1, nil)

	err := svc.DeleteMedicine(context.Background(), medicineID)

	assert.Error(t, err)
	var conflictErr *apperror.ConflictError
	assert.ErrorAs(t, err, &conflictErr)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// TestUpdateMedicine_Validation testa a rejeição de unidades negativas.
func TestUpdateMedicine_Validation(t *testing.T) {
	mockRepo := new(MockMedicineRepository)
	mockPending := new(MockPendingChecker)
	svc := medicineservice.NewService(mockRepo, mockPending)

	_, err := svc.UpdateMedicine(context.Background(), domain.Medicine{
		ID:             uuid.New().String(),
		MedicineName:   "Oxitetraciclina",
		PricePerUnit:   45.0,
		AvailableUnits: -3,
	})

	assert.Error(t, err)
	var valErr *apperror.ValidationError
	assert.ErrorAs(t, err, &valErr)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
