package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
	"whisper-api/internal/app/fetcher"
	"whisper-api/internal/app/model"
)

// MockFetcher is a testify mock of the pipeline's fetch stage.
type MockFetcher struct {
	mock.Mock
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{}
}

func (m *MockFetcher) Fetch(ctx context.Context, ref model.InputReference) (*fetcher.Input, error) {
	args := m.Called(ctx, ref)
	in, _ := args.Get(0).(*fetcher.Input)
	return in, args.Error(1)
}

// MockNormalizer is a testify mock of the pipeline's convert stage.
type MockNormalizer struct {
	mock.Mock
}

func NewMockNormalizer() *MockNormalizer {
	return &MockNormalizer{}
}

func (m *MockNormalizer) ConvertTo16kHzWav(ctx context.Context, inputPath string) (string, error) {
	args := m.Called(ctx, inputPath)
	return args.String(0), args.Error(1)
}

// MockRecognizer is a testify mock of the pipeline's recognize stage.
type MockRecognizer struct {
	mock.Mock
}

func NewMockRecognizer() *MockRecognizer {
	return &MockRecognizer{}
}

func (m *MockRecognizer) Recognize(ctx context.Context, wavPath, language string) (*model.RecognitionOutput, error) {
	args := m.Called(ctx, wavPath, language)
	out, _ := args.Get(0).(*model.RecognitionOutput)
	return out, args.Error(1)
}

// MockPipeline mocks the transcription service seen by the HTTP layer.
type MockPipeline struct {
	mock.Mock
}

func NewMockPipeline() *MockPipeline {
	return &MockPipeline{}
}

func (m *MockPipeline) Run(ctx context.Context, ref model.InputReference, language string) (*model.TranscriptResult, error) {
	args := m.Called(ctx, ref, language)
	result, _ := args.Get(0).(*model.TranscriptResult)
	return result, args.Error(1)
}
