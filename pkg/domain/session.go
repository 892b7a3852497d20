package domain

// SessionState はセッション全体の進行状態です。
type SessionState int

const (
	StateIdle SessionState = iota // 入力画像なし
	StateReady
	StateGenerating
	StateResultsShown
)

// String は表示用の状態名を返します。
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReady:
		return "ready"
	case StateGenerating:
		return "generating"
	case StateResultsShown:
		return "results-shown"
	}
	return "unknown"
}

// ItemStatus は生成アイテム単体の状態です。pending から done か error へ
// ディスパッチごとに一度だけ遷移します（再生成時は再び pending に戻る）。
type ItemStatus int

const (
	ItemPending ItemStatus = iota
	ItemDone
	ItemError
)

// String は表示用の状態名を返します。
func (s ItemStatus) String() string {
	switch s {
	case ItemPending:
		return "pending"
	case ItemDone:
		return "done"
	case ItemError:
		return "error"
	}
	return "unknown"
}

// GenerationItem は生成メディアの単位です。インデックスはシナリオリストの位置と
// 1対1で対応し、再生成はこの対応を崩しません。
type GenerationItem struct {
	Scenario     string
	Status       ItemStatus
	Image        EncodedImage // Status == ItemDone のときのみ有効
	ErrorMessage string       // Status == ItemError のときのみ有効
	QuotaError   bool
}

// DerivedKind は派生メディアの種別です。
type DerivedKind string

const (
	KindVideo DerivedKind = "video"
	KindMeme  DerivedKind = "meme"
)

// DerivedStatus は派生メディア生成の状態です。
type DerivedStatus int

const (
	DerivedIdle DerivedStatus = iota
	DerivedPending
	DerivedDone
	DerivedError
)

// String は表示用の状態名を返します。
func (s DerivedStatus) String() string {
	switch s {
	case DerivedIdle:
		return "idle"
	case DerivedPending:
		return "pending"
	case DerivedDone:
		return "done"
	case DerivedError:
		return "error"
	}
	return "unknown"
}

// DerivedMediaConfig は派生メディア生成の設定です。SourceIndex は完成済み
// GenerationItem を指していなければ生成要求は何もしません。
// Prompt は動画ならアニメーション指示、ミームなら重ねるキャプションです。
type DerivedMediaConfig struct {
	SourceIndex int
	Prompt      string
}

// DerivedMediaState は派生メディア（動画・ミーム）1種の生成状態です。
type DerivedMediaState struct {
	Status       DerivedStatus
	Image        EncodedImage // ミーム完了時
	Video        *MediaHandle // 動画完了時
	ErrorMessage string
	QuotaError   bool
}
