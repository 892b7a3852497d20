package generator

import (
	"fmt"
	"strings"
)

// fallbackScenarios は入力が一切無いときに使う既定のシナリオ集です。
// ネットワーク呼び出しを伴わない意図的なゼロ入力フォールバックです。
var fallbackScenarios = []string{
	"A 1980s retro studio portrait with neon rim lighting and a airbrushed backdrop",
	"A renaissance oil painting portrait with dramatic chiaroscuro lighting",
	"A cyberpunk street portrait under rain-soaked holographic signage",
	"A vintage travel poster illustration with bold flat colors",
	"A whimsical watercolor storybook portrait with soft pastel washes",
}

const (
	// scenarioFromIdeaTemplate は利用者が中核アイデアを出した場合の指示文です。
	scenarioFromIdeaTemplate = `You are a creative director for a photo studio.
Based on the following inputs, write exactly %d short, distinct scenario descriptions
for themed portrait compositions. Build every scenario around the user's core idea.

Core idea: %s
Subject: %s
Object: %s
Style: %s

Respond with a JSON array of exactly %d strings and nothing else.`

	// scenarioFromDescTemplate は説明文のみからシナリオを導く場合の指示文です。
	scenarioFromDescTemplate = `You are a creative director for a photo studio.
Based only on the following descriptions, write exactly %d short, distinct scenario
descriptions for themed portrait compositions.

Subject: %s
Object: %s
Style: %s

Respond with a JSON array of exactly %d strings and nothing else.`

	// compositionTemplate はシナリオ1件を画像合成の指示文に展開します。
	compositionTemplate = `Create a single high-quality themed portrait image for this scenario: %s
Use the attached subject images as the people to portray and preserve their facial identity.
If object images are attached, incorporate the object naturally into the scene.
If style images are attached, match their artistic style closely.`

	// memeTemplate はキャプション焼き込みの指示文です。画像自体は変更しません。
	memeTemplate = `Add the caption %q at the bottom of this image in large bold white
impact-style lettering with a thick black outline. Do not alter the image in any other way.`
)

// 各スロットの内容分析に使う指示文です。
const (
	subjectAnalysisInstruction = "Describe the person or people in these images in one concise sentence: appearance, approximate age, and distinguishing features."
	objectAnalysisInstruction  = "Describe the main object shown in these images in one concise sentence."
	styleAnalysisInstruction   = "Describe the artistic or photographic style of these images in one concise sentence."
)

// SubjectInstruction などは呼び出し層（オーケストレーター）へ分析指示文を公開します。
func SubjectInstruction() string { return subjectAnalysisInstruction }
func ObjectInstruction() string  { return objectAnalysisInstruction }
func StyleInstruction() string   { return styleAnalysisInstruction }

// CompositionPrompt はシナリオ本文から styled-image 生成用の指示文を組み立てます。
func CompositionPrompt(scenario string) string {
	return fmt.Sprintf(compositionTemplate, scenario)
}

func buildScenarioPrompt(subjectDesc, objectDesc, styleDesc, userIdea string) string {
	if strings.TrimSpace(userIdea) != "" {
		return fmt.Sprintf(scenarioFromIdeaTemplate,
			scenarioTarget, userIdea, orNone(subjectDesc), orNone(objectDesc), orNone(styleDesc), scenarioTarget)
	}
	return fmt.Sprintf(scenarioFromDescTemplate,
		scenarioTarget, orNone(subjectDesc), orNone(objectDesc), orNone(styleDesc), scenarioTarget)
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}
