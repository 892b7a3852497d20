package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/gemini-portrait-studio/pkg/domain"
	"google.golang.org/genai"
)

const quotaMessageScenario = "シナリオ生成がAPIの利用上限に達しました。プランと請求設定を確認してください。"

// GenerateScenarios は素材の説明文と任意の中核アイデアから、テーマ付きポートレートの
// シナリオを最大 scenarioTarget 件生成します。4入力すべてが空白の場合はネットワークを
// 呼ばず、組み込みのフォールバックリストをそのまま返します。
func (g *Generator) GenerateScenarios(ctx context.Context, subjectDesc, objectDesc, styleDesc, userIdea string) ([]string, error) {
	if isAllBlank(subjectDesc, objectDesc, styleDesc, userIdea) {
		slog.InfoContext(ctx, "入力が空のため組み込みシナリオを返します", "count", len(fallbackScenarios))
		out := make([]string, len(fallbackScenarios))
		copy(out, fallbackScenarios)
		return out, nil
	}

	prompt := buildScenarioPrompt(subjectDesc, objectDesc, styleDesc, userIdea)
	resp, err := g.client.GenerateContent(ctx, g.textModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, classify(err, quotaMessageScenario)
	}

	scenarios, err := parseScenarioResponse(resp.Text())
	if err != nil {
		return nil, err
	}

	if len(scenarios) > scenarioTarget {
		scenarios = scenarios[:scenarioTarget]
	}
	return scenarios, nil
}

// parseScenarioResponse は生テキストからコードフェンスを剥がし、
// 空でない文字列のJSON配列としてパースします。
func parseScenarioResponse(raw string) ([]string, error) {
	cleaned := stripCodeFence(raw)

	var scenarios []string
	if err := json.Unmarshal([]byte(cleaned), &scenarios); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidScenarioResponse, err)
	}
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("%w: 配列が空です", domain.ErrInvalidScenarioResponse)
	}
	return scenarios, nil
}

// stripCodeFence は AI が付けがちな Markdown のコードブロック (```json ... ```) を除去します。
func stripCodeFence(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

func isAllBlank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
