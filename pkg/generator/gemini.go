package generator

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// geminiClient は GenerativeClient の genai SDK 実装です。
type geminiClient struct {
	client *genai.Client
}

// NewGenerativeClient は API キーから Gemini API バックエンドのクライアントを初期化します。
func NewGenerativeClient(ctx context.Context, apiKey string) (GenerativeClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの初期化に失敗しました: %w", err)
	}

	return &geminiClient{client: client}, nil
}

func (g *geminiClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return g.client.Models.GenerateContent(ctx, model, contents, cfg)
}

func (g *geminiClient) GenerateVideos(ctx context.Context, model string, prompt string, image *genai.Image, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
	return g.client.Models.GenerateVideos(ctx, model, prompt, image, cfg)
}

func (g *geminiClient) GetVideosOperation(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	return g.client.Operations.GetVideosOperation(ctx, op, nil)
}
