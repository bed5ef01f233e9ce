package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
	"whisper-api/internal/api/v1/dto"
)

// MockProviderService is a testify mock of the status service.
type MockProviderService struct {
	mock.Mock
}

func NewMockProviderService() *MockProviderService {
	return &MockProviderService{}
}

func (m *MockProviderService) GetHealth(ctx context.Context) *dto.HealthResponse {
	args := m.Called(ctx)
	return args.Get(0).(*dto.HealthResponse)
}

func (m *MockProviderService) GetInfo(ctx context.Context) *dto.InfoResponse {
	args := m.Called(ctx)
	return args.Get(0).(*dto.InfoResponse)
}

// MockServices bundles the mocks behind the HTTP handlers.
type MockServices struct {
	TranscriptionService *MockPipeline
	ProviderService      *MockProviderService
}

func NewMockServices() *MockServices {
	return &MockServices{
		TranscriptionService: NewMockPipeline(),
		ProviderService:      NewMockProviderService(),
	}
}
