package studio

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/shouni/gemini-portrait-studio/pkg/domain"
	"github.com/shouni/gemini-portrait-studio/pkg/generator"
)

// displaySlotSeed はシナリオが確定する前に pending 表示しておくスロット数です。
// シナリオ生成の目標件数と同じ値を使います。
const displaySlotSeed = 5

// defaultCacheTTL は分析結果キャッシュの既定の有効期限です。
const defaultCacheTTL = 15 * time.Minute

// MediaGenerator はセッションが利用する生成能力の集合です。
// pkg/generator の Generator がこれを満たします。
type MediaGenerator interface {
	AnalyzeImageContent(ctx context.Context, images []domain.EncodedImage, instruction string) (string, error)
	GenerateScenarios(ctx context.Context, subjectDesc, objectDesc, styleDesc, userIdea string) ([]string, error)
	GenerateStyledImage(ctx context.Context, sources domain.SourceImageSet, compositionPrompt string) (domain.EncodedImage, error)
	GenerateMemeImage(ctx context.Context, source domain.EncodedImage, captionText string) (domain.EncodedImage, error)
	GenerateStyledVideo(ctx context.Context, source domain.EncodedImage, motionPrompt string) (*domain.MediaHandle, error)
}

// SessionConfig は Session の依存関係と挙動パラメータです。
type SessionConfig struct {
	Generator MediaGenerator

	// DispatchInterval はシナリオごとの画像生成ディスパッチの間隔です。
	// 0 の場合は流量制限なしで並列ディスパッチします。
	DispatchInterval time.Duration

	// CacheTTL は分析結果キャッシュの有効期限です。0 の場合は既定値を使います。
	CacheTTL time.Duration

	// OnAuthError は動画生成が認証情報の失効を示す失敗を返したときに呼ばれます。
	OnAuthError func()
}

// Session はアプリケーションレベルのオーケストレーション状態機械です。
// 入力画像・シナリオ・生成アイテム・派生メディアの状態を所有し、
// 非同期完了ごとのインデックス指定更新だけで状態を書き換えます。
// プロセス再起動をまたぐ永続化は行いません。
type Session struct {
	mu sync.Mutex

	gen     MediaGenerator
	limiter *rate.Limiter

	state     domain.SessionState
	sources   domain.SourceImageSet
	scenarios []string
	items     []domain.GenerationItem

	video    domain.DerivedMediaState
	meme     domain.DerivedMediaState
	videoCfg domain.DerivedMediaConfig
	memeCfg  domain.DerivedMediaConfig

	descCache   *gocache.Cache
	onAuthError func()
}

// NewSession は依存関係を注入して Session を初期化します。
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Generator == nil {
		return nil, fmt.Errorf("generator (MediaGenerator) is required")
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.DispatchInterval > 0 {
		// Burst 2 により開始直後は2件まで同時にディスパッチできます。
		limiter = rate.NewLimiter(rate.Every(cfg.DispatchInterval), 2)
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &Session{
		gen:         cfg.Generator,
		limiter:     limiter,
		state:       domain.StateIdle,
		descCache:   gocache.New(ttl, 2*ttl),
		onAuthError: cfg.OnAuthError,
	}, nil
}

// Snapshot は描画用のセッション状態の防御的コピーです。
type Snapshot struct {
	State     domain.SessionState
	Scenarios []string
	Items     []domain.GenerationItem
	Video     domain.DerivedMediaState
	Meme      domain.DerivedMediaState
}

// Snapshot は現在のセッション状態のコピーを返します（描画専用）。
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State: s.state,
		Video: s.video,
		Meme:  s.meme,
	}
	snap.Scenarios = append(snap.Scenarios, s.scenarios...)
	snap.Items = append(snap.Items, s.items...)
	return snap
}

// State は現在のセッション状態を返します。
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetSourceImages は指定スロットの画像コレクションを丸ごと差し替えます。
// ready / results-shown 中の編集は生成済みアイテムと派生メディアをすべて消去し、
// セッションを idle / ready に戻します。生成中の編集は拒否されます。
func (s *Session) SetSourceImages(slot domain.SourceSlot, images []domain.EncodedImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.StateGenerating {
		return fmt.Errorf("生成の実行中は入力画像を編集できません")
	}

	s.sources = s.sources.WithSlot(slot, images)
	s.clearGeneratedLocked()

	if s.sources.IsEmpty() {
		s.state = domain.StateIdle
	} else {
		s.state = domain.StateReady
	}
	return nil
}

// Reset はセッションを初期状態（入力なし・生成物なし・idle）へ戻します。
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sources = domain.SourceImageSet{}
	s.clearGeneratedLocked()
	s.state = domain.StateIdle
}

// clearGeneratedLocked は生成済み状態をすべて破棄します。呼び出し側がロックを保持します。
func (s *Session) clearGeneratedLocked() {
	s.scenarios = nil
	s.items = nil
	s.video = domain.DerivedMediaState{}
	s.meme = domain.DerivedMediaState{}
	s.videoCfg = domain.DerivedMediaConfig{}
	s.memeCfg = domain.DerivedMediaConfig{}
}

// RegenerateItem は既知のシナリオ本文を使って1アイテムだけを再生成します。
// 対象インデックスのみ pending から終端状態へ遷移し、他のアイテムには触れません。
// 異なるインデックスの同時再生成は互いに干渉しません。
func (s *Session) RegenerateItem(ctx context.Context, index int) error {
	s.mu.Lock()
	if len(s.scenarios) == 0 {
		s.mu.Unlock()
		return fmt.Errorf("シナリオが未生成のため再生成できません")
	}
	if index < 0 || index >= len(s.items) {
		s.mu.Unlock()
		return fmt.Errorf("アイテムのインデックスが範囲外です: %d", index)
	}
	scenario := s.items[index].Scenario
	s.items[index] = domain.GenerationItem{Scenario: scenario, Status: domain.ItemPending}
	sources := s.sources
	s.mu.Unlock()

	img, err := s.gen.GenerateStyledImage(ctx, sources, generator.CompositionPrompt(scenario))
	s.completeItem(index, img, err)
	return err
}

// AppendCustomItem は自由入力テキストを次のインデックスのシナリオとして追加し、
// そのアイテムの生成を即座にディスパッチします。追加されたインデックスを返します。
func (s *Session) AppendCustomItem(ctx context.Context, text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return -1, fmt.Errorf("カスタムシナリオが空です")
	}

	s.mu.Lock()
	if s.state != domain.StateResultsShown {
		s.mu.Unlock()
		return -1, fmt.Errorf("結果表示前はカスタムアイテムを追加できません (state=%s)", s.state)
	}
	index := len(s.items)
	s.scenarios = append(s.scenarios, text)
	s.items = append(s.items, domain.GenerationItem{Scenario: text, Status: domain.ItemPending})
	sources := s.sources
	s.mu.Unlock()

	img, err := s.gen.GenerateStyledImage(ctx, sources, generator.CompositionPrompt(text))
	s.completeItem(index, img, err)
	return index, err
}

// completeItem は1アイテムの非同期完了をインデックス指定で確定します。
// コレクション全体の読み直し・書き戻しは行わないため、複数の完了が競合しても
// 他のインデックスの更新を失わせません。
func (s *Session) completeItem(index int, img domain.EncodedImage, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.items) {
		return // 完了前にセッションが編集・リセットされたケース
	}

	item := domain.GenerationItem{Scenario: s.items[index].Scenario}
	if err != nil {
		item.Status = domain.ItemError
		item.ErrorMessage = err.Error()
		item.QuotaError = domain.IsQuotaError(err)
	} else {
		item.Status = domain.ItemDone
		item.Image = img
	}
	s.items[index] = item
}
