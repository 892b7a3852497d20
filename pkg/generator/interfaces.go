package generator

import (
	"context"

	"google.golang.org/genai"
)

// GenerativeClient は Gemini API との通信を抽象化する窓口です。
// テキスト/JSON生成、マルチモーダル編集、動画の長時間オペレーションをカバーします。
type GenerativeClient interface {
	// GenerateContent は通常の生成呼び出しを1回実行します。
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	// GenerateVideos は動画生成を開始し、ポーリング用のオペレーションハンドルを返します。
	GenerateVideos(ctx context.Context, model string, prompt string, image *genai.Image, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error)
	// GetVideosOperation は動画オペレーションの最新状態を取得します。
	GetVideosOperation(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)
}

// BinaryFetcher は完成した動画バイナリの取得に使う HTTP クライアントの能力面です。
// go-http-kit の ClientInterface がこれを満たします。
type BinaryFetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}
