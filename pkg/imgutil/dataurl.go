package imgutil

import (
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/shouni/gemini-portrait-studio/pkg/domain"
)

const (
	dataURLScheme   = "data:"
	base64Marker    = ";base64,"
	imageMimePrefix = "image/"
)

// strictDataURLPattern は動画生成入力などで使う厳格な検証パターンです。
// MIME タイプが image/<subtype> であることとペイロードの存在を同時に要求します。
var strictDataURLPattern = regexp.MustCompile(`^data:(image/[A-Za-z0-9.+-]+);base64,(.+)$`)

// Decode は data URL をパースし、MIME タイプとデコード済みバイナリを返します。
// エンコーディングマーカーの欠落、image/ 以外の MIME タイプ、不正な base64 は
// すべて domain.FormatError になります。label はエラーメッセージに埋め込まれる
// 呼び出し文脈です。副作用はありません。
func Decode(img domain.EncodedImage, label string) (string, []byte, error) {
	raw := string(img)

	rest, ok := strings.CutPrefix(raw, dataURLScheme)
	if !ok {
		return "", nil, &domain.FormatError{Label: label, Reason: "data: スキームがありません"}
	}

	mimeType, payload, ok := strings.Cut(rest, base64Marker)
	if !ok {
		return "", nil, &domain.FormatError{Label: label, Reason: ";base64, マーカーがありません"}
	}

	if !strings.HasPrefix(mimeType, imageMimePrefix) {
		return "", nil, &domain.FormatError{Label: label, Reason: "MIME タイプが image/ で始まっていません: " + mimeType}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, &domain.FormatError{Label: label, Reason: "base64 ペイロードが不正です: " + err.Error()}
	}

	return mimeType, data, nil
}

// Encode はバイナリと MIME タイプから data URL 形式の EncodedImage を組み立てます。
func Encode(mimeType string, data []byte) domain.EncodedImage {
	return domain.EncodedImage(dataURLScheme + mimeType + base64Marker + base64.StdEncoding.EncodeToString(data))
}

// DecodeStrict は strictDataURLPattern による検証付きで Decode 相当の分解を行います。
// ペイロードが空の data URL は Decode を通過しますが、こちらでは弾かれます。
func DecodeStrict(img domain.EncodedImage, label string) (string, []byte, error) {
	m := strictDataURLPattern.FindStringSubmatch(string(img))
	if m == nil {
		return "", nil, &domain.FormatError{Label: label, Reason: "data:image/...;base64,... の形式に一致しません"}
	}

	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return "", nil, &domain.FormatError{Label: label, Reason: "base64 ペイロードが不正です: " + err.Error()}
	}

	return m[1], data, nil
}
