package studio

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-portrait-studio/pkg/domain"
)

func TestNewSession(t *testing.T) {
	t.Run("Generator が nil なら失敗すること", func(t *testing.T) {
		_, err := NewSession(SessionConfig{})
		require.Error(t, err)
	})

	t.Run("初期状態は idle であること", func(t *testing.T) {
		s := newTestSession(t, &mockGenerator{})
		require.Equal(t, domain.StateIdle, s.State())
	})
}

func TestSession_SetSourceImages(t *testing.T) {
	t.Run("画像の投入で ready へ、全削除で idle へ戻ること", func(t *testing.T) {
		s := newTestSession(t, &mockGenerator{})

		require.NoError(t, s.SetSourceImages(domain.SlotStyle, testImages(2)))
		require.Equal(t, domain.StateReady, s.State())

		require.NoError(t, s.SetSourceImages(domain.SlotStyle, nil))
		require.Equal(t, domain.StateIdle, s.State())
	})

	t.Run("結果表示中の編集は生成物を消去すること", func(t *testing.T) {
		s := readySession(t, &mockGenerator{})
		require.NoError(t, s.RunFullGeneration(context.Background(), ""))
		require.NotEmpty(t, s.Snapshot().Items)

		require.NoError(t, s.SetSourceImages(domain.SlotObject, testImages(1)))

		snap := s.Snapshot()
		require.Equal(t, domain.StateReady, snap.State)
		require.Empty(t, snap.Items)
		require.Empty(t, snap.Scenarios)
	})

	t.Run("生成中の編集は拒否されること", func(t *testing.T) {
		s := readySession(t, &mockGenerator{})
		s.mu.Lock()
		s.state = domain.StateGenerating
		s.mu.Unlock()

		err := s.SetSourceImages(domain.SlotSubject, testImages(1))
		require.Error(t, err)
	})
}

func TestSession_Reset(t *testing.T) {
	s := readySession(t, &mockGenerator{})
	require.NoError(t, s.RunFullGeneration(context.Background(), ""))

	s.Reset()

	snap := s.Snapshot()
	require.Equal(t, domain.StateIdle, snap.State)
	require.Empty(t, snap.Items)
	require.Empty(t, snap.Scenarios)
	require.Equal(t, domain.DerivedIdle, snap.Video.Status)
	require.Equal(t, domain.DerivedIdle, snap.Meme.Status)
}

func TestSession_RegenerateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("対象インデックスのみ差し替わること", func(t *testing.T) {
		gen := &mockGenerator{}
		s := readySession(t, gen)
		require.NoError(t, s.RunFullGeneration(ctx, ""))
		before := s.Snapshot()

		gen.styledFunc = func(ctx context.Context, sources domain.SourceImageSet, prompt string) (domain.EncodedImage, error) {
			return "data:image/png;base64,bmV3", nil
		}
		require.NoError(t, s.RegenerateItem(ctx, 1))

		after := s.Snapshot()
		require.Equal(t, before.Items[0], after.Items[0])
		require.Equal(t, before.Items[2], after.Items[2])
		require.Equal(t, before.Items[1].Scenario, after.Items[1].Scenario, "シナリオ本文は据え置き")
		require.NotEqual(t, before.Items[1].Image, after.Items[1].Image)
		require.Equal(t, domain.ItemDone, after.Items[1].Status)
	})

	t.Run("再生成の失敗は対象アイテムだけをエラーにすること", func(t *testing.T) {
		gen := &mockGenerator{}
		s := readySession(t, gen)
		require.NoError(t, s.RunFullGeneration(ctx, ""))

		boom := errors.New("再生成失敗")
		gen.styledFunc = func(ctx context.Context, sources domain.SourceImageSet, prompt string) (domain.EncodedImage, error) {
			return "", boom
		}
		require.ErrorIs(t, s.RegenerateItem(ctx, 0), boom)

		snap := s.Snapshot()
		require.Equal(t, domain.ItemError, snap.Items[0].Status)
		require.Equal(t, domain.ItemDone, snap.Items[1].Status)
	})

	t.Run("シナリオ未生成・範囲外インデックスは拒否されること", func(t *testing.T) {
		s := readySession(t, &mockGenerator{})
		require.Error(t, s.RegenerateItem(ctx, 0), "シナリオ未生成")

		require.NoError(t, s.RunFullGeneration(ctx, ""))
		require.Error(t, s.RegenerateItem(ctx, -1))
		require.Error(t, s.RegenerateItem(ctx, 3))
	})
}

func TestSession_AppendCustomItem(t *testing.T) {
	ctx := context.Background()

	t.Run("次のインデックスに追加され即座に生成されること", func(t *testing.T) {
		gen := &mockGenerator{}
		s := readySession(t, gen)
		require.NoError(t, s.RunFullGeneration(ctx, ""))

		index, err := s.AppendCustomItem(ctx, "  宇宙飛行士として  ")
		require.NoError(t, err)
		require.Equal(t, 3, index)

		snap := s.Snapshot()
		require.Len(t, snap.Items, 4)
		require.Equal(t, "宇宙飛行士として", snap.Items[3].Scenario)
		require.Equal(t, domain.ItemDone, snap.Items[3].Status)
		require.Equal(t, snap.Scenarios[3], snap.Items[3].Scenario)
	})

	t.Run("空文字・結果表示前の追加は拒否されること", func(t *testing.T) {
		s := readySession(t, &mockGenerator{})

		_, err := s.AppendCustomItem(ctx, "   ")
		require.Error(t, err)

		_, err = s.AppendCustomItem(ctx, "テーマ")
		require.Error(t, err, "results-shown 前は追加できない")
	})
}

func TestSession_CompleteItemAfterReset(t *testing.T) {
	// 完了前にリセットされた非同期タスクの確定は黙って捨てられる
	s := readySession(t, &mockGenerator{})
	require.NoError(t, s.RunFullGeneration(context.Background(), ""))

	s.Reset()
	s.completeItem(1, "data:image/png;base64,bGF0ZQ==", nil)

	require.Empty(t, s.Snapshot().Items)
}
