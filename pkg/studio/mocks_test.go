package studio

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shouni/gemini-portrait-studio/pkg/domain"
	"github.com/shouni/gemini-portrait-studio/pkg/imgutil"
)

// mockGenerator は MediaGenerator のテストダブルです。
// フル生成のファンアウトは並行に走るため、呼び出し記録はロックで保護します。
type mockGenerator struct {
	mu sync.Mutex

	analyzeCalls   int
	analyzeFunc    func(ctx context.Context, images []domain.EncodedImage, instruction string) (string, error)
	scenariosCalls int
	scenariosFunc  func(ctx context.Context, subjectDesc, objectDesc, styleDesc, userIdea string) ([]string, error)
	styledCalls    int
	styledPrompts  []string
	styledFunc     func(ctx context.Context, sources domain.SourceImageSet, compositionPrompt string) (domain.EncodedImage, error)
	memeFunc       func(ctx context.Context, source domain.EncodedImage, captionText string) (domain.EncodedImage, error)
	videoFunc      func(ctx context.Context, source domain.EncodedImage, motionPrompt string) (*domain.MediaHandle, error)
}

func (m *mockGenerator) AnalyzeImageContent(ctx context.Context, images []domain.EncodedImage, instruction string) (string, error) {
	m.mu.Lock()
	m.analyzeCalls++
	fn := m.analyzeFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, images, instruction)
	}
	return "描写", nil
}

func (m *mockGenerator) GenerateScenarios(ctx context.Context, subjectDesc, objectDesc, styleDesc, userIdea string) ([]string, error) {
	m.mu.Lock()
	m.scenariosCalls++
	fn := m.scenariosFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, subjectDesc, objectDesc, styleDesc, userIdea)
	}
	return []string{"scenario-0", "scenario-1", "scenario-2"}, nil
}

func (m *mockGenerator) GenerateStyledImage(ctx context.Context, sources domain.SourceImageSet, compositionPrompt string) (domain.EncodedImage, error) {
	m.mu.Lock()
	m.styledCalls++
	m.styledPrompts = append(m.styledPrompts, compositionPrompt)
	fn := m.styledFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, sources, compositionPrompt)
	}
	return imgutil.Encode("image/png", []byte(compositionPrompt)), nil
}

func (m *mockGenerator) GenerateMemeImage(ctx context.Context, source domain.EncodedImage, captionText string) (domain.EncodedImage, error) {
	if m.memeFunc != nil {
		return m.memeFunc(ctx, source, captionText)
	}
	return imgutil.Encode("image/png", []byte("meme")), nil
}

func (m *mockGenerator) GenerateStyledVideo(ctx context.Context, source domain.EncodedImage, motionPrompt string) (*domain.MediaHandle, error) {
	if m.videoFunc != nil {
		return m.videoFunc(ctx, source, motionPrompt)
	}
	return &domain.MediaHandle{MimeType: "video/mp4", Data: []byte("mp4")}, nil
}

// --- Helpers ---

func newTestSession(t *testing.T, gen MediaGenerator) *Session {
	t.Helper()
	s, err := NewSession(SessionConfig{Generator: gen})
	if err != nil {
		t.Fatalf("failed to build session: %v", err)
	}
	return s
}

// readySession は被写体画像を1枚セットして ready 状態のセッションを返します。
func readySession(t *testing.T, gen MediaGenerator) *Session {
	t.Helper()
	s := newTestSession(t, gen)
	if err := s.SetSourceImages(domain.SlotSubject, testImages(1)); err != nil {
		t.Fatalf("failed to set source images: %v", err)
	}
	return s
}

func testImages(n int) []domain.EncodedImage {
	images := make([]domain.EncodedImage, n)
	for i := range images {
		images[i] = imgutil.Encode("image/png", []byte(fmt.Sprintf("src-%d", i)))
	}
	return images
}
