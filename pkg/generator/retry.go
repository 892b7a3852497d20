package generator

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"
)

const (
	// 画像編集系呼び出しの試行回数上限（初回を含む）。
	retryMaxAttempts = 3
	// 2回目の試行前の待機時間。以降は倍々（1000ms, 2000ms）。
	retryBaseDelay = 1000 * time.Millisecond
)

// editCall は画像編集・合成系 API 呼び出しの1回分です。
type editCall func() (*genai.GenerateContentResponse, error)

// withRetry は editCall を一時障害シグネチャに限って最大3回まで再試行します。
// 一時障害以外の失敗、または試行回数の枯渇時は、最後の失敗をラップせずに
// そのまま返します。テキスト生成と動画オペレーションはこのラッパーを通しません。
func (g *Generator) withRetry(ctx context.Context, call editCall) (*genai.GenerateContentResponse, error) {
	return retryWith(ctx, call, g.newBackOff())
}

func newEditBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryBaseDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 0 // 回数のみで打ち切る
	return backoff.WithMaxRetries(b, retryMaxAttempts-1)
}

func retryWith(ctx context.Context, call editCall, b backoff.BackOff) (*genai.GenerateContentResponse, error) {
	var resp *genai.GenerateContentResponse
	attempt := 0

	op := func() error {
		attempt++
		r, err := call()
		if err != nil {
			if isTransientError(err) {
				slog.WarnContext(ctx, "一時障害のため再試行します", "attempt", attempt, "error", err)
				return err
			}
			return backoff.Permanent(err)
		}
		resp = r
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}
	return resp, nil
}
