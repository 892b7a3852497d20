package imgutil

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
)

// shrinkThreshold を超えるバイト数の画像だけを分析リクエスト前に再圧縮します。
const shrinkThreshold = 1 << 20 // 1MiB

// CompressToJPEG は画像データ（PNG, GIF, JPEG等）をJPEG形式に圧縮します。
// image.Decodeがサポートするフォーマットに対応しています。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ShrinkForUpload は閾値を超える画像を JPEG に再圧縮して送信コストを抑えます。
// 閾値以下、または圧縮に失敗した場合は入力をそのまま返します（入力値は不変）。
func ShrinkForUpload(mimeType string, data []byte, quality int) (string, []byte) {
	if len(data) <= shrinkThreshold {
		return mimeType, data
	}
	compressed, err := CompressToJPEG(data, quality)
	if err != nil || len(compressed) >= len(data) {
		return mimeType, data
	}
	return "image/jpeg", compressed
}
