package studio

import (
	"context"
	"fmt"
	"strings"

	"github.com/shouni/gemini-portrait-studio/pkg/domain"
)

// authErrorMessage は動画生成の "entity not found" 失敗を認証情報の失効として
// 読み替えたときの案内文です。
const authErrorMessage = "保存されたAPIキーが無効になっている可能性があります。再認証してください。"

// ConfigureDerivedMedia は派生メディア（動画・ミーム）の設定を保存します。
// 設定の変更だけでは生成は始まりません。
func (s *Session) ConfigureDerivedMedia(kind domain.DerivedKind, cfg domain.DerivedMediaConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case domain.KindVideo:
		s.videoCfg = cfg
	case domain.KindMeme:
		s.memeCfg = cfg
	default:
		return fmt.Errorf("未知の派生メディア種別です: %s", kind)
	}
	return nil
}

// GenerateDerivedMedia は設定済みのソースアイテムから派生メディアを生成します。
// 設定が完成済み（done）のアイテムを指していない場合は何もしません（no-op）。
// 動画生成で対象が見つからない旨の失敗が返った場合は、認証情報の失効として
// 読み替え、OnAuthError コールバックで再認証の必要を通知します。
func (s *Session) GenerateDerivedMedia(ctx context.Context, kind domain.DerivedKind) error {
	s.mu.Lock()

	var cfg domain.DerivedMediaConfig
	switch kind {
	case domain.KindVideo:
		cfg = s.videoCfg
	case domain.KindMeme:
		cfg = s.memeCfg
	default:
		s.mu.Unlock()
		return fmt.Errorf("未知の派生メディア種別です: %s", kind)
	}

	if cfg.SourceIndex < 0 || cfg.SourceIndex >= len(s.items) || s.items[cfg.SourceIndex].Status != domain.ItemDone {
		s.mu.Unlock()
		return nil
	}
	source := s.items[cfg.SourceIndex].Image
	s.setDerivedLocked(kind, domain.DerivedMediaState{Status: domain.DerivedPending})
	s.mu.Unlock()

	switch kind {
	case domain.KindMeme:
		img, err := s.gen.GenerateMemeImage(ctx, source, cfg.Prompt)
		s.commitDerived(kind, domain.DerivedMediaState{Status: domain.DerivedDone, Image: img}, err, "")
		return err

	default: // domain.KindVideo
		handle, err := s.gen.GenerateStyledVideo(ctx, source, cfg.Prompt)
		override := ""
		if err != nil && isEntityNotFound(err) {
			override = authErrorMessage
			if s.onAuthError != nil {
				s.onAuthError()
			}
		}
		s.commitDerived(kind, domain.DerivedMediaState{Status: domain.DerivedDone, Video: handle}, err, override)
		return err
	}
}

// commitDerived は派生メディア生成の決着を対応する状態へ反映します。
func (s *Session) commitDerived(kind domain.DerivedKind, done domain.DerivedMediaState, err error, messageOverride string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		s.setDerivedLocked(kind, done)
		return
	}

	msg := err.Error()
	if messageOverride != "" {
		msg = messageOverride
	}
	s.setDerivedLocked(kind, domain.DerivedMediaState{
		Status:       domain.DerivedError,
		ErrorMessage: msg,
		QuotaError:   domain.IsQuotaError(err),
	})
}

func (s *Session) setDerivedLocked(kind domain.DerivedKind, state domain.DerivedMediaState) {
	if kind == domain.KindVideo {
		s.video = state
	} else {
		s.meme = state
	}
}

// isEntityNotFound は上流の "Requested entity was not found" 系の失敗を検出します。
func isEntityNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "not_found")
}
