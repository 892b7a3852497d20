package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/gemini-portrait-studio/pkg/domain"
	"github.com/shouni/gemini-portrait-studio/pkg/imgutil"
	"google.golang.org/genai"
)

const quotaMessageVideo = "動画生成がAPIの利用上限に達しました。課金設定とクォータを確認してください。"

const (
	videoAspectRatio = "16:9"
	videoResolution  = "720p"
)

// GenerateStyledVideo は完成済み画像とモーション指示から短い動画を生成します。
// 長時間オペレーションを開始し、完了までポーリング間隔ごとに状態を再取得します。
// ポーリングに回数上限はなく、完了・呼び出し失敗・コンテキスト取消でのみ抜けます。
// 完了後は結果ロケーターから認証付きでバイナリを取得し、インメモリハンドルを返します。
func (g *Generator) GenerateStyledVideo(ctx context.Context, source domain.EncodedImage, motionPrompt string) (*domain.MediaHandle, error) {
	mimeType, data, err := imgutil.DecodeStrict(source, "video source")
	if err != nil {
		return nil, err
	}

	image := &genai.Image{ImageBytes: data, MIMEType: mimeType}
	op, err := g.client.GenerateVideos(ctx, g.videoModel, motionPrompt, image, &genai.GenerateVideosConfig{
		AspectRatio:    videoAspectRatio,
		Resolution:     videoResolution,
		NumberOfVideos: 1,
	})
	if err != nil {
		return nil, classify(err, quotaMessageVideo)
	}

	for !op.Done {
		slog.InfoContext(ctx, "動画生成の完了を待機中", "interval", g.pollInterval)
		if err := sleepContext(ctx, g.pollInterval); err != nil {
			return nil, err
		}
		op, err = g.client.GetVideosOperation(ctx, op)
		if err != nil {
			return nil, classify(err, quotaMessageVideo)
		}
	}

	uri := resultLocator(op)
	if uri == "" {
		return nil, domain.ErrOperationIncomplete
	}

	payload, err := g.fetcher.FetchBytes(ctx, g.withAPIKey(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}

	return &domain.MediaHandle{MimeType: "video/mp4", Data: payload}, nil
}

// resultLocator は完了済みオペレーションからダウンロード用 URI を取り出します。
// 見つからない場合は空文字列を返します（完了したのに結果が無い異常系）。
func resultLocator(op *genai.GenerateVideosOperation) string {
	if op == nil || op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		return ""
	}
	video := op.Response.GeneratedVideos[0].Video
	if video == nil {
		return ""
	}
	return video.URI
}

// withAPIKey は結果ロケーターへ API キーをクエリとして付与します。
func (g *Generator) withAPIKey(uri string) string {
	if g.apiKey == "" {
		return uri
	}
	sep := "?"
	if strings.Contains(uri, "?") {
		sep = "&"
	}
	return uri + sep + "key=" + g.apiKey
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
