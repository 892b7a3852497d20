package generator

import (
	"context"
	"testing"
	"time"

	"google.golang.org/genai"
)

// --- Mocks ---

type mockClient struct {
	generateCalls      int
	generateFunc       func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	generateVideosFunc func(ctx context.Context, model string, prompt string, image *genai.Image, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error)
	getOpCalls         int
	getOpFunc          func(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)
}

func (m *mockClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.generateCalls++
	if m.generateFunc != nil {
		return m.generateFunc(ctx, model, contents, cfg)
	}
	return textResponse("ok"), nil
}

func (m *mockClient) GenerateVideos(ctx context.Context, model string, prompt string, image *genai.Image, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
	if m.generateVideosFunc != nil {
		return m.generateVideosFunc(ctx, model, prompt, image, cfg)
	}
	return &genai.GenerateVideosOperation{Done: true}, nil
}

func (m *mockClient) GetVideosOperation(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	m.getOpCalls++
	if m.getOpFunc != nil {
		return m.getOpFunc(ctx, op)
	}
	return op, nil
}

type mockFetcher struct {
	fetchCalls int
	lastURL    string
	data       []byte
	err        error
}

func (m *mockFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.fetchCalls++
	m.lastURL = url
	return m.data, m.err
}

// --- Helpers ---

func newTestGenerator(t *testing.T, client GenerativeClient, fetcher BinaryFetcher) *Generator {
	t.Helper()
	if fetcher == nil {
		fetcher = &mockFetcher{}
	}
	g, err := New(Config{
		Client:       client,
		Fetcher:      fetcher,
		APIKey:       "test-key",
		TextModel:    "text-model",
		ImageModel:   "image-model",
		VideoModel:   "video-model",
		PollInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("failed to build generator: %v", err)
	}
	// テストでは再試行間の待機をなくす
	g.newBackOff = newInstantBackOff
	return g
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func imageResponse(mimeType string, data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{
				InlineData: &genai.Blob{MIMEType: mimeType, Data: data},
			}}},
		}},
	}
}

func videoOperation(done bool, uri string) *genai.GenerateVideosOperation {
	op := &genai.GenerateVideosOperation{Done: done}
	if uri != "" {
		op.Response = &genai.GenerateVideosResponse{
			GeneratedVideos: []*genai.GeneratedVideo{{Video: &genai.Video{URI: uri}}},
		}
	}
	return op
}
