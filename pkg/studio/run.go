package studio

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/shouni/gemini-portrait-studio/pkg/domain"
	"github.com/shouni/gemini-portrait-studio/pkg/generator"
)

// sourceDescriptions は3スロットの分析結果です。
type sourceDescriptions struct {
	subject string
	object  string
	style   string
}

// RunFullGeneration はフルセッション実行（分析 → シナリオ生成 → シナリオごとの
// 並列画像生成）を行います。ready 状態からのみ開始できます。
//
// シナリオごとのディスパッチは失敗分離されます: 1アイテムの失敗は兄弟アイテムを
// 取り消さず、全タスクの決着を待ってから results-shown へ遷移します。
// ディスパッチ前（分析・シナリオ生成）の失敗は全スロットを同一のエラーで
// 埋めるグローバル失敗です。
func (s *Session) RunFullGeneration(ctx context.Context, userIdea string) error {
	s.mu.Lock()
	if s.state != domain.StateReady {
		s.mu.Unlock()
		return fmt.Errorf("フル生成は ready 状態からのみ開始できます (state=%s)", s.state)
	}
	s.state = domain.StateGenerating
	s.scenarios = nil
	s.items = make([]domain.GenerationItem, displaySlotSeed)
	s.video = domain.DerivedMediaState{}
	s.meme = domain.DerivedMediaState{}
	sources := s.sources
	s.mu.Unlock()

	descs, err := s.analyzeSources(ctx, sources)
	if err != nil {
		s.failAll(err)
		return err
	}

	scenarios, err := s.gen.GenerateScenarios(ctx, descs.subject, descs.object, descs.style, userIdea)
	if err != nil {
		s.failAll(err)
		return err
	}

	s.mu.Lock()
	s.scenarios = scenarios
	s.items = make([]domain.GenerationItem, len(scenarios))
	for i, sc := range scenarios {
		s.items[i] = domain.GenerationItem{Scenario: sc, Status: domain.ItemPending}
	}
	s.mu.Unlock()

	slog.InfoContext(ctx, "シナリオごとの画像生成を開始します", "count", len(scenarios))

	// settle-all: errgroup は最初の失敗で文脈を打ち切るため使わず、
	// 各ゴルーチンが自分のスロットへ成否を確定するだけにします。
	var wg sync.WaitGroup
	for i, sc := range scenarios {
		wg.Add(1)
		go func(index int, scenario string) {
			defer wg.Done()
			if err := s.limiter.Wait(ctx); err != nil {
				s.completeItem(index, "", err)
				return
			}
			img, err := s.gen.GenerateStyledImage(ctx, sources, generator.CompositionPrompt(scenario))
			s.completeItem(index, img, err)
		}(i, sc)
	}
	wg.Wait()

	s.mu.Lock()
	s.state = domain.StateResultsShown
	s.mu.Unlock()
	return nil
}

// analyzeSources は3つの内容分析を並行実行し、3つすべての完了を待ちます。
// いずれか1つの失敗で全体が失敗します（グローバル失敗経路）。
func (s *Session) analyzeSources(ctx context.Context, sources domain.SourceImageSet) (sourceDescriptions, error) {
	var descs sourceDescriptions

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		d, err := s.analyzeSlot(egCtx, domain.SlotSubject, sources.Subject, generator.SubjectInstruction())
		descs.subject = d
		return err
	})
	eg.Go(func() error {
		d, err := s.analyzeSlot(egCtx, domain.SlotObject, sources.Object, generator.ObjectInstruction())
		descs.object = d
		return err
	})
	eg.Go(func() error {
		d, err := s.analyzeSlot(egCtx, domain.SlotStyle, sources.Style, generator.StyleInstruction())
		descs.style = d
		return err
	})

	if err := eg.Wait(); err != nil {
		return sourceDescriptions{}, err
	}
	return descs, nil
}

// analyzeSlot は1スロット分の内容分析を行います。結果は画像内容そのものを
// キーにキャッシュされるため、画像が変わらない再実行では分析呼び出しを省けます。
func (s *Session) analyzeSlot(ctx context.Context, slot domain.SourceSlot, images []domain.EncodedImage, instruction string) (string, error) {
	if len(images) == 0 {
		return "", nil
	}

	key := string(slot) + ":" + fingerprint(images)
	if v, ok := s.descCache.Get(key); ok {
		if desc, ok := v.(string); ok {
			return desc, nil
		}
	}

	desc, err := s.gen.AnalyzeImageContent(ctx, images, instruction)
	if err != nil {
		return "", err
	}

	s.descCache.Set(key, desc, gocache.DefaultExpiration)
	return desc, nil
}

// failAll はディスパッチ前の失敗を全スロットへ同一メッセージで反映し、
// セッションを results-shown へ進めます。
func (s *Session) failAll(err error) {
	msg := err.Error()
	quota := domain.IsQuotaError(err)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		s.items[i] = domain.GenerationItem{
			Scenario:     s.items[i].Scenario,
			Status:       domain.ItemError,
			ErrorMessage: msg,
			QuotaError:   quota,
		}
	}
	s.state = domain.StateResultsShown
}

// fingerprint は画像コレクションの内容ハッシュを返します。
func fingerprint(images []domain.EncodedImage) string {
	h := sha256.New()
	for _, img := range images {
		h.Write([]byte(img))
	}
	return hex.EncodeToString(h.Sum(nil))
}
