package generator

import (
	"context"
	"strings"

	"github.com/shouni/gemini-portrait-studio/pkg/domain"
	"google.golang.org/genai"
)

const quotaMessageAnalyze = "画像分析がAPIの利用上限に達しました。時間をおいて再試行してください。"

// AnalyzeImageContent は画像列と指示文を1リクエストで送信し、整形済みの説明文を返します。
// images が空の場合はネットワークを呼ばずに空文字列を返します（エラーではない短絡）。
// 編集系ではないためリトライラッパーは通しません（単発試行）。
func (g *Generator) AnalyzeImageContent(ctx context.Context, images []domain.EncodedImage, instruction string) (string, error) {
	if len(images) == 0 {
		return "", nil
	}

	parts, err := buildImageParts(images, "analyze")
	if err != nil {
		return "", err
	}
	parts = append(parts, &genai.Part{Text: instruction})

	resp, err := g.client.GenerateContent(ctx, g.textModel, []*genai.Content{{Parts: parts}}, nil)
	if err != nil {
		return "", classify(err, quotaMessageAnalyze)
	}

	return strings.TrimSpace(resp.Text()), nil
}
