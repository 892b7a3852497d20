package domain

// EncodedImage は data URL 形式 (`data:image/...;base64,...`) で保持される自己記述型の画像値です。
// アップロード時に生成されて以降は不変で、所有する SourceImageSet の差し替えと同時に破棄されます。
type EncodedImage string

// SourceSlot は SourceImageSet 内の画像コレクションを識別するキーです。
type SourceSlot string

const (
	SlotSubject SourceSlot = "subject"
	SlotObject  SourceSlot = "object"
	SlotStyle   SourceSlot = "style"
)

// SourceImageSet は生成の入力となる3つの画像コレクションを保持します。
// 各スロットは独立して空を許容し、編集時はスロット単位で丸ごと差し替えます（要素の書き換えはしない）。
type SourceImageSet struct {
	Subject []EncodedImage
	Object  []EncodedImage
	Style   []EncodedImage
}

// IsEmpty は3スロットすべてが空かどうかを返します。
func (s SourceImageSet) IsEmpty() bool {
	return len(s.Subject) == 0 && len(s.Object) == 0 && len(s.Style) == 0
}

// Slot は指定スロットのコレクションを返します。未知のスロットは nil を返します。
func (s SourceImageSet) Slot(slot SourceSlot) []EncodedImage {
	switch slot {
	case SlotSubject:
		return s.Subject
	case SlotObject:
		return s.Object
	case SlotStyle:
		return s.Style
	}
	return nil
}

// WithSlot は指定スロットだけを差し替えた新しいセットを返します。
func (s SourceImageSet) WithSlot(slot SourceSlot, images []EncodedImage) SourceImageSet {
	switch slot {
	case SlotSubject:
		s.Subject = images
	case SlotObject:
		s.Object = images
	case SlotStyle:
		s.Style = images
	}
	return s
}

// MediaHandle は生成済みバイナリメディア（動画など）へのインメモリハンドルです。
type MediaHandle struct {
	MimeType string
	Data     []byte
}
