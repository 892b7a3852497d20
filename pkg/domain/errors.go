package domain

import (
	"errors"
	"fmt"
)

// 生成機能が返す非リトライ系の失敗シグナルです。呼び出し側は errors.Is で判別します。
var (
	// ErrNoImageReturned はサービスが画像を返さずテキストのみ応答した場合の失敗です。
	ErrNoImageReturned = errors.New("応答に画像データが含まれていません")

	// ErrOperationIncomplete は動画生成オペレーションが完了したのに
	// 取得可能な結果ロケーターを持たない場合の失敗です。通信失敗とは区別されます。
	ErrOperationIncomplete = errors.New("動画生成は完了しましたが結果が含まれていません")

	// ErrDownloadFailed は完成した動画バイナリの取得に失敗した場合の失敗です。
	ErrDownloadFailed = errors.New("生成された動画のダウンロードに失敗しました")

	// ErrInvalidScenarioResponse はシナリオ応答が「文字列のJSON配列」として
	// 解釈できなかった場合の失敗です。
	ErrInvalidScenarioResponse = errors.New("シナリオ応答が文字列のJSON配列ではありません")
)

// FormatError は画像エンコーディング（data URL）の不正を表します。
// ローカルで検出され、リトライ対象にはなりません。Label には複数画像リクエストの
// デバッグを助けるための呼び出し文脈（例: "subject[1]"）が入ります。
type FormatError struct {
	Label  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("画像エンコーディングが不正です (%s): %s", e.Label, e.Reason)
}

// GenerationError は外部サービス呼び出しの失敗を、利用者向けメッセージと
// クォータ判定フラグ付きで保持します。Quota が真の失敗は自動リトライされず、
// 表示層はリトライではなく利用上限の案内を出します。
type GenerationError struct {
	Message string
	Quota   bool
	Err     error
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsQuotaError は err がクォータ起因の GenerationError かどうかを返します。
func IsQuotaError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge) && ge.Quota
}
