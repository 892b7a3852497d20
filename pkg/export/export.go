package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/gemini-portrait-studio/pkg/domain"
	"github.com/shouni/gemini-portrait-studio/pkg/imgutil"
)

// Exporter は生成済みメディアをローカルまたは gs:// の出力先へ書き出します。
type Exporter struct {
	writer remoteio.OutputWriter
}

// New は OutputWriter を注入して Exporter を初期化します。
func New(writer remoteio.OutputWriter) (*Exporter, error) {
	if writer == nil {
		return nil, fmt.Errorf("writer (remoteio.OutputWriter) is required")
	}
	return &Exporter{writer: writer}, nil
}

// SaveImage は data URL 形式の画像をデコードして書き出し、保存先パスを返します。
func (e *Exporter) SaveImage(ctx context.Context, dir, name string, img domain.EncodedImage) (string, error) {
	mimeType, data, err := imgutil.Decode(img, name)
	if err != nil {
		return "", err
	}

	fullPath := path.Join(dir, name+extensionFor(mimeType))
	if err := e.writer.Write(ctx, fullPath, bytes.NewReader(data), mimeType); err != nil {
		return "", fmt.Errorf("画像の書き出しに失敗しました (%s): %w", fullPath, err)
	}

	slog.InfoContext(ctx, "画像を保存しました", "path", fullPath, "bytes", len(data))
	return fullPath, nil
}

// SaveMedia はバイナリメディアハンドル（動画など）を書き出し、保存先パスを返します。
func (e *Exporter) SaveMedia(ctx context.Context, dir, name string, handle *domain.MediaHandle) (string, error) {
	if handle == nil || len(handle.Data) == 0 {
		return "", fmt.Errorf("書き出すメディアがありません (%s)", name)
	}

	fullPath := path.Join(dir, name+extensionFor(handle.MimeType))
	if err := e.writer.Write(ctx, fullPath, bytes.NewReader(handle.Data), handle.MimeType); err != nil {
		return "", fmt.Errorf("メディアの書き出しに失敗しました (%s): %w", fullPath, err)
	}

	slog.InfoContext(ctx, "メディアを保存しました", "path", fullPath, "bytes", len(handle.Data))
	return fullPath, nil
}

// extensionFor は主要な MIME タイプを拡張子に写像します。未知の場合は .bin です。
func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	case "video/mp4":
		return ".mp4"
	}
	return ".bin"
}
