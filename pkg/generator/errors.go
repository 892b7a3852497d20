package generator

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shouni/gemini-portrait-studio/pkg/domain"
	"google.golang.org/genai"
)

// isTransientError はサーバー側の一時障害（リトライ対象）かどうかを判定します。
// genai.APIError の構造化コードを優先し、コードが得られないエラーに対してのみ
// メッセージ文字列のマッチングへフォールバックします（上流のメッセージ文言に
// 依存する互換シムであり、文言が変われば壊れる点は既知の制約です）。
func isTransientError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code >= http.StatusInternalServerError
	}

	msg := err.Error()
	return strings.Contains(msg, "INTERNAL") || strings.Contains(msg, "500")
}

// isQuotaError はレート制限・リソース枯渇（クォータ超過）のシグネチャかどうかを判定します。
func isQuotaError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests
	}

	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// classify は外部サービス呼び出しの失敗を GenerationError に写像します。
// クォータ系は機能ごとの案内メッセージと Quota フラグ付きで、それ以外は
// 元のメッセージを保持した汎用エラーとして返します。
func classify(err error, quotaMessage string) error {
	if isQuotaError(err) {
		return &domain.GenerationError{Message: quotaMessage, Quota: true, Err: err}
	}
	return &domain.GenerationError{Message: err.Error(), Quota: false, Err: err}
}
