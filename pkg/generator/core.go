package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/shouni/gemini-portrait-studio/pkg/domain"
	"github.com/shouni/gemini-portrait-studio/pkg/imgutil"
	"google.golang.org/genai"
)

const (
	// 生成するシナリオ数の上限（目標値も同じ）。
	scenarioTarget = 5
	// 動画オペレーションのポーリング間隔。
	defaultPollInterval = 10 * time.Second
	// 送信前再圧縮のJPEG品質。
	uploadJPEGQuality = 75
)

// Config は Generator の依存関係と使用モデルをまとめます。
type Config struct {
	Client     GenerativeClient
	Fetcher    BinaryFetcher // 動画バイナリの取得用
	APIKey     string        // 結果ロケーターへのクエリ付与に使用
	TextModel  string
	ImageModel string
	VideoModel string

	// PollInterval が0 の場合は defaultPollInterval を使います。
	PollInterval time.Duration
}

// Generator は各生成機能（シナリオ・画像・ミーム・分析・動画）を提供する統合窓口です。
// 入力検証、リクエスト構築、サービス呼び出し、失敗の分類までを1機能1メソッドで担います。
type Generator struct {
	client       GenerativeClient
	fetcher      BinaryFetcher
	apiKey       string
	textModel    string
	imageModel   string
	videoModel   string
	pollInterval time.Duration
	newBackOff   func() backoff.BackOff // テストでは待機なしに差し替える
}

// New は依存関係を注入して Generator を初期化します。
func New(cfg Config) (*Generator, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("client (GenerativeClient) is required")
	}
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("fetcher (BinaryFetcher) is required")
	}
	if cfg.TextModel == "" || cfg.ImageModel == "" || cfg.VideoModel == "" {
		return nil, fmt.Errorf("モデル名 (TextModel/ImageModel/VideoModel) は必須です")
	}

	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	return &Generator{
		client:       cfg.Client,
		fetcher:      cfg.Fetcher,
		apiKey:       cfg.APIKey,
		textModel:    cfg.TextModel,
		imageModel:   cfg.ImageModel,
		videoModel:   cfg.VideoModel,
		pollInterval: interval,
		newBackOff:   newEditBackOff,
	}, nil
}

// buildImageParts はエンコード済み画像列を genai.Part に変換します。
// 不正なエンコーディングは "label[i]" を文脈に持つ FormatError で即座に失敗します。
func buildImageParts(images []domain.EncodedImage, label string) ([]*genai.Part, error) {
	parts := make([]*genai.Part, 0, len(images))
	for i, img := range images {
		mimeType, data, err := imgutil.Decode(img, fmt.Sprintf("%s[%d]", label, i))
		if err != nil {
			return nil, err
		}
		mimeType, data = imgutil.ShrinkForUpload(mimeType, data, uploadJPEGQuality)
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: mimeType, Data: data},
		})
	}
	return parts, nil
}

// extractImage はレスポンスの候補パーツから最初のインライン画像を取り出し、
// data URL 形式で返します。画像が無い場合は、サービスが代わりに返した
// テキストを診断用に埋め込んだ ErrNoImageReturned で失敗します。
func extractImage(resp *genai.GenerateContentResponse) (domain.EncodedImage, error) {
	var texts []string

	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.InlineData != nil && len(part.InlineData.Data) > 0 {
					return imgutil.Encode(part.InlineData.MIMEType, part.InlineData.Data), nil
				}
				if part.Text != "" {
					texts = append(texts, part.Text)
				}
			}
		}
	}

	detail := strings.TrimSpace(strings.Join(texts, " "))
	if detail == "" {
		detail = "(応答テキストなし)"
	}
	return "", fmt.Errorf("%w: %s", domain.ErrNoImageReturned, detail)
}
