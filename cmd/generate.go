package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/spf13/cobra"

	"github.com/shouni/gemini-portrait-studio/internal/config"
	"github.com/shouni/gemini-portrait-studio/pkg/domain"
	"github.com/shouni/gemini-portrait-studio/pkg/export"
	"github.com/shouni/gemini-portrait-studio/pkg/generator"
	"github.com/shouni/gemini-portrait-studio/pkg/imgutil"
	"github.com/shouni/gemini-portrait-studio/pkg/studio"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "フルセッション（分析 → シナリオ → 画像生成）を実行して結果を保存します",
	RunE:  runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load()
	cfg.Options = opts

	sess, err := buildSession(ctx, cfg)
	if err != nil {
		return err
	}

	if err := loadSources(sess); err != nil {
		return err
	}
	if sess.State() != domain.StateReady {
		return fmt.Errorf("入力画像が1枚もありません。--subject / --object / --style で指定してください")
	}

	if err := sess.RunFullGeneration(ctx, opts.Idea); err != nil {
		return err
	}
	retryFailedItems(ctx, sess)

	return saveResults(ctx, cfg, sess)
}

// retryFailedItems は失敗したアイテムを1回だけ再生成します。
// クォータ起因の失敗は再試行しても無駄なためスキップします。
func retryFailedItems(ctx context.Context, sess *studio.Session) {
	for i, item := range sess.Snapshot().Items {
		if item.Status != domain.ItemError || item.QuotaError {
			continue
		}
		slog.Info("失敗したアイテムを再生成します", "index", i)
		if err := sess.RegenerateItem(ctx, i); err != nil {
			slog.Warn("再生成にも失敗しました", "index", i, "error", err)
		}
	}
}

// buildSession は設定から生成機能とセッションを組み立てます。
func buildSession(ctx context.Context, cfg *config.Config) (*studio.Session, error) {
	client, err := generator.NewGenerativeClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}

	gen, err := generator.New(generator.Config{
		Client:     client,
		Fetcher:    httpkit.New(cfg.Options.HTTPTimeout),
		APIKey:     cfg.GeminiAPIKey,
		TextModel:  cfg.TextModel,
		ImageModel: cfg.ImageModel,
		VideoModel: cfg.VideoModel,
	})
	if err != nil {
		return nil, err
	}

	return studio.NewSession(studio.SessionConfig{
		Generator:        gen,
		DispatchInterval: cfg.Options.DispatchInterval,
		OnAuthError: func() {
			slog.Warn("APIキーが失効している可能性があります。再認証してください")
		},
	})
}

// loadSources はフラグで指定されたファイル群を各スロットへ読み込みます。
func loadSources(sess *studio.Session) error {
	slots := []struct {
		slot  domain.SourceSlot
		paths []string
	}{
		{domain.SlotSubject, opts.SubjectFiles},
		{domain.SlotObject, opts.ObjectFiles},
		{domain.SlotStyle, opts.StyleFiles},
	}

	for _, s := range slots {
		if len(s.paths) == 0 {
			continue
		}
		images, err := readImages(s.paths)
		if err != nil {
			return err
		}
		if err := sess.SetSourceImages(s.slot, images); err != nil {
			return err
		}
	}
	return nil
}

// readImages はローカルファイルを data URL 形式の EncodedImage に変換します。
func readImages(paths []string) ([]domain.EncodedImage, error) {
	images := make([]domain.EncodedImage, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("画像ファイルの読み込みに失敗しました (%s): %w", p, err)
		}
		mimeType := http.DetectContentType(data)
		if !strings.HasPrefix(mimeType, "image/") {
			return nil, fmt.Errorf("画像ではないファイルが指定されました (%s): %s", p, mimeType)
		}
		images = append(images, imgutil.Encode(mimeType, data))
	}
	return images, nil
}

// saveResults は完成アイテムと、設定があれば派生メディアを書き出します。
func saveResults(ctx context.Context, cfg *config.Config, sess *studio.Session) error {
	factory, err := gcsfactory.New(ctx)
	if err != nil {
		return fmt.Errorf("出力クライアントの初期化に失敗しました: %w", err)
	}
	writer, err := factory.OutputWriter()
	if err != nil {
		return err
	}
	exporter, err := export.New(writer)
	if err != nil {
		return err
	}

	snap := sess.Snapshot()
	for i, item := range snap.Items {
		switch item.Status {
		case domain.ItemDone:
			name := fmt.Sprintf("portrait_%02d", i)
			if _, err := exporter.SaveImage(ctx, opts.OutputDir, name, item.Image); err != nil {
				return err
			}
		case domain.ItemError:
			slog.Warn("アイテムの生成に失敗しています", "index", i, "quota", item.QuotaError, "error", item.ErrorMessage)
		}
	}

	if opts.MemeCaption != "" {
		if err := deriveAndSave(ctx, sess, exporter, domain.KindMeme, opts.MemeCaption); err != nil {
			return err
		}
	}
	if opts.VideoStyle != "" {
		if err := deriveAndSave(ctx, sess, exporter, domain.KindVideo, opts.VideoStyle); err != nil {
			return err
		}
	}
	return nil
}

// deriveAndSave は派生メディアを1種生成して保存します。
func deriveAndSave(ctx context.Context, sess *studio.Session, exporter *export.Exporter, kind domain.DerivedKind, prompt string) error {
	if err := sess.ConfigureDerivedMedia(kind, domain.DerivedMediaConfig{
		SourceIndex: opts.SourceIndex,
		Prompt:      prompt,
	}); err != nil {
		return err
	}
	if err := sess.GenerateDerivedMedia(ctx, kind); err != nil {
		return err
	}

	snap := sess.Snapshot()
	switch kind {
	case domain.KindMeme:
		if snap.Meme.Status == domain.DerivedDone {
			_, err := exporter.SaveImage(ctx, opts.OutputDir, "meme", snap.Meme.Image)
			return err
		}
	case domain.KindVideo:
		if snap.Video.Status == domain.DerivedDone {
			_, err := exporter.SaveMedia(ctx, opts.OutputDir, "portrait_video", snap.Video.Video)
			return err
		}
	}
	return nil
}
