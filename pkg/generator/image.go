package generator

import (
	"context"
	"log/slog"

	"github.com/shouni/gemini-portrait-studio/pkg/domain"
	"google.golang.org/genai"
)

const quotaMessageImage = "画像生成がAPIの利用上限に達しました。利用枠の回復を待つか、プランの上限を確認してください。"

// GenerateStyledImage は3スロットすべての画像と合成指示を1つのマルチパート
// リクエストにまとめ、リトライラッパー経由でサービスを呼び、生成画像を抽出します。
// 入力画像のデコード失敗はスロット名付きの FormatError として即座に返ります。
func (g *Generator) GenerateStyledImage(ctx context.Context, sources domain.SourceImageSet, compositionPrompt string) (domain.EncodedImage, error) {
	var parts []*genai.Part
	for _, slot := range []domain.SourceSlot{domain.SlotSubject, domain.SlotObject, domain.SlotStyle} {
		slotParts, err := buildImageParts(sources.Slot(slot), string(slot))
		if err != nil {
			return "", err
		}
		parts = append(parts, slotParts...)
	}
	parts = append(parts, &genai.Part{Text: compositionPrompt})

	slog.InfoContext(ctx, "スタイル画像の生成をリクエストします", "model", g.imageModel, "parts", len(parts))

	contents := []*genai.Content{{Parts: parts}}
	resp, err := g.withRetry(ctx, func() (*genai.GenerateContentResponse, error) {
		return g.client.GenerateContent(ctx, g.imageModel, contents, nil)
	})
	if err != nil {
		return "", classify(err, quotaMessageImage)
	}

	return extractImage(resp)
}
