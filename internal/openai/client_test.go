package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEmbeddingsAPI is a mock for the embeddings endpoint
type MockEmbeddingsAPI struct {
	mock.Mock
}

func (m *MockEmbeddingsAPI) CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	args := m.Called(ctx, conv)
	return args.Get(0).(openai.EmbeddingResponse), args.Error(1)
}

func embeddingResponse(vec []float32) openai.EmbeddingResponse {
	return openai.EmbeddingResponse{Data: []openai.Embedding{{Embedding: vec}}}
}

func TestClient_GenerateEmbedding_Success(t *testing.T) {
	mockAPI := new(MockEmbeddingsAPI)
	client := NewClient(mockAPI, "", 0)

	ctx := context.Background()
	expected := make([]float32, DefaultEmbeddingDimensions)
	for i := range expected {
		expected[i] = float32(i) * 0.001
	}

	mockAPI.On("CreateEmbeddings", ctx, openai.EmbeddingRequest{
		Input:      []string{"The printer is on floor 2."},
		Model:      DefaultEmbeddingModel,
		Dimensions: DefaultEmbeddingDimensions,
	}).Return(embeddingResponse(expected), nil)

	embedding, err := client.GenerateEmbedding(ctx, "  The printer is on floor 2. ")

	require.NoError(t, err)
	assert.Equal(t, expected, embedding)
	mockAPI.AssertExpectations(t)
}

func TestClient_GenerateEmbedding_OmitsDimensionsForOtherModels(t *testing.T) {
	mockAPI := new(MockEmbeddingsAPI)
	client := NewClient(mockAPI, "nomic-embed-text", 3)

	ctx := context.Background()
	mockAPI.On("CreateEmbeddings", ctx, openai.EmbeddingRequest{
		Input: []string{"hello"},
		Model: "nomic-embed-text",
	}).Return(embeddingResponse([]float32{1, 2, 3}), nil)

	_, err := client.GenerateEmbedding(ctx, "hello")

	require.NoError(t, err)
	mockAPI.AssertExpectations(t)
}

func TestClient_GenerateEmbedding_EmptyText(t *testing.T) {
	mockAPI := new(MockEmbeddingsAPI)
	client := NewClient(mockAPI, "", 0)

	for _, text := range []string{"", "   "} {
		embedding, err := client.GenerateEmbedding(context.Background(), text)
		assert.Nil(t, embedding)
		assert.ErrorIs(t, err, ErrEmptyText)
	}
	mockAPI.AssertNotCalled(t, "CreateEmbeddings", mock.Anything, mock.Anything)
}

func TestClient_GenerateEmbedding_APIError(t *testing.T) {
	mockAPI := new(MockEmbeddingsAPI)
	client := NewClient(mockAPI, "", 0)

	apiErr := errors.New("API rate limit exceeded")
	mockAPI.On("CreateEmbeddings", mock.Anything, mock.Anything).Return(openai.EmbeddingResponse{}, apiErr)

	embedding, err := client.GenerateEmbedding(context.Background(), "Test text")

	assert.Nil(t, embedding)
	assert.ErrorIs(t, err, apiErr)
	assert.Contains(t, err.Error(), "failed to create embedding")
}

func TestClient_GenerateEmbedding_EmptyResponse(t *testing.T) {
	mockAPI := new(MockEmbeddingsAPI)
	client := NewClient(mockAPI, "", 0)
	mockAPI.On("CreateEmbeddings", mock.Anything, mock.Anything).Return(openai.EmbeddingResponse{}, nil)

	_, err := client.GenerateEmbedding(context.Background(), "Test text")

	assert.ErrorIs(t, err, ErrNoEmbedding)
}

func TestClient_GenerateEmbedding_WrongDimensions(t *testing.T) {
	mockAPI := new(MockEmbeddingsAPI)
	client := NewClient(mockAPI, "nomic-embed-text", 768)
	mockAPI.On("CreateEmbeddings", mock.Anything, mock.Anything).Return(embeddingResponse(make([]float32, 512)), nil)

	embedding, err := client.GenerateEmbedding(context.Background(), "Test text")

	assert.Nil(t, embedding)
	assert.ErrorIs(t, err, ErrWrongDimensions)
	assert.Contains(t, err.Error(), "expected 768, got 512")
}

func TestNewClientWithConfig_Defaults(t *testing.T) {
	client := NewClientWithConfig(Config{APIKey: "test-api-key"})

	assert.NotNil(t, client.api)
	assert.Equal(t, DefaultEmbeddingModel, client.model)
	assert.Equal(t, DefaultEmbeddingDimensions, client.Dimensions())
}

func TestClient_AgainstCompatibleServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "nomic-embed-text", body["model"])
		assert.NotContains(t, body, "dimensions")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.1,0.2,0.3]}],"model":"nomic-embed-text"}`))
	}))
	defer server.Close()

	client := NewClientWithConfig(Config{
		BaseURL:             server.URL + "/v1",
		EmbeddingModel:      "nomic-embed-text",
		EmbeddingDimensions: 3,
	})

	embedding, err := client.GenerateEmbedding(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, embedding)
}
