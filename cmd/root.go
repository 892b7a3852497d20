package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-portrait-studio/internal/config"
)

var opts config.GenerateOptions

var rootCmd = &cobra.Command{
	Use:   "portrait-studio",
	Short: "入力写真からテーマ付きポートレート・動画・ミームを生成するツールです",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Gemini API を利用するため、APIキーの存在チェックは欠かせません。
		if os.Getenv("GEMINI_API_KEY") == "" {
			return fmt.Errorf("環境変数 GEMINI_API_KEY が設定されていません")
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	// --- ソース入力関連 ---
	rootCmd.PersistentFlags().StringSliceVarP(&opts.SubjectFiles, "subject", "s", nil, "被写体（人物）画像のパスです。複数指定可。")
	rootCmd.PersistentFlags().StringSliceVarP(&opts.ObjectFiles, "object", "b", nil, "オブジェクト画像のパスです。複数指定可。")
	rootCmd.PersistentFlags().StringSliceVarP(&opts.StyleFiles, "style", "y", nil, "スタイル参照画像のパスです。複数指定可。")
	rootCmd.PersistentFlags().StringVar(&opts.Idea, "idea", "", "シナリオ生成に渡す中核アイデアです。省略時は画像の説明のみから生成します。")

	// --- 出力・派生メディア ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "保存先ディレクトリ（ローカル or gs://...）です。")
	rootCmd.PersistentFlags().StringVar(&opts.VideoStyle, "video-style", "", "指定すると完成アイテムから動画を生成します（モーション指示）。")
	rootCmd.PersistentFlags().StringVar(&opts.MemeCaption, "meme-caption", "", "指定すると完成アイテムからミーム画像を生成します（キャプション）。")
	rootCmd.PersistentFlags().IntVar(&opts.SourceIndex, "source-index", 0, "派生メディアの元になるアイテムのインデックスです。")

	// --- 実行制御 ---
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "Webリクエストのタイムアウトです。")
	rootCmd.PersistentFlags().DurationVar(&opts.DispatchInterval, "dispatch-interval", config.DefaultDispatchInterval, "画像生成ディスパッチの流量制限間隔です。")

	rootCmd.AddCommand(generateCmd)
}

// Execute はアプリケーションのメインエントリポイントです。
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
