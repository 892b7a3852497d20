package generator

import (
	"context"
	"fmt"

	"github.com/shouni/gemini-portrait-studio/pkg/domain"
	"google.golang.org/genai"
)

const quotaMessageMeme = "ミーム生成がAPIの利用上限に達しました。利用枠の回復を待ってください。"

// GenerateMemeImage は完成済み画像の下部にキャプションを焼き込んだミーム画像を生成します。
// 画像はキャプション以外を変更しない指示で送られ、リトライラッパーを通ります。
func (g *Generator) GenerateMemeImage(ctx context.Context, source domain.EncodedImage, captionText string) (domain.EncodedImage, error) {
	parts, err := buildImageParts([]domain.EncodedImage{source}, "meme")
	if err != nil {
		return "", err
	}
	parts = append(parts, &genai.Part{Text: fmt.Sprintf(memeTemplate, captionText)})

	contents := []*genai.Content{{Parts: parts}}
	resp, err := g.withRetry(ctx, func() (*genai.GenerateContentResponse, error) {
		return g.client.GenerateContent(ctx, g.imageModel, contents, nil)
	})
	if err != nil {
		return "", classify(err, quotaMessageMeme)
	}

	return extractImage(resp)
}
