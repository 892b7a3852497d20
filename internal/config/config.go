package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義です。
const (
	DefaultTextModel        = "gemini-3-flash-preview"
	DefaultImageModel       = "gemini-3-pro-image-preview"
	DefaultVideoModel       = "veo-3.1-fast-generate-preview"
	DefaultHTTPTimeout      = 60 * time.Second
	DefaultDispatchInterval = 10 * time.Second // シナリオごとの画像生成の流量制限間隔
	DefaultOutputDir        = "output"
)

// Config はアプリケーション全体の環境設定（APIキーや使用モデル）を保持します。
type Config struct {
	GeminiAPIKey string
	TextModel    string
	ImageModel   string
	VideoModel   string

	Options GenerateOptions
}

// Load は環境変数から設定を読み込みます。
func Load() *Config {
	return &Config{
		GeminiAPIKey: envutil.GetEnv("GEMINI_API_KEY", ""),
		TextModel:    envutil.GetEnv("GEMINI_MODEL", DefaultTextModel),
		ImageModel:   envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
		VideoModel:   envutil.GetEnv("VIDEO_GEMINI_MODEL", DefaultVideoModel),
	}
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータです。
type GenerateOptions struct {
	// ソース入力関連
	SubjectFiles []string // --subject
	ObjectFiles  []string // --object
	StyleFiles   []string // --style
	Idea         string   // --idea: シナリオ生成に渡す中核アイデア

	// 出力関連
	OutputDir string // --output-dir（ローカル or gs://...）

	// 派生メディア関連
	VideoStyle  string // --video-style: 動画化するモーション指示
	MemeCaption string // --meme-caption: ミームのキャプション
	SourceIndex int    // --source-index: 派生メディアの元になるアイテム

	// 実行制御
	HTTPTimeout      time.Duration // --http-timeout
	DispatchInterval time.Duration // --dispatch-interval
}
