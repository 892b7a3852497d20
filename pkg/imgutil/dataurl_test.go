package imgutil

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-portrait-studio/pkg/domain"
)

func TestDecode(t *testing.T) {
	t.Run("正常な data URL をデコードできること", func(t *testing.T) {
		img := Encode("image/png", []byte("fake-png"))

		mime, data, err := Decode(img, "subject[0]")
		require.NoError(t, err)
		require.Equal(t, "image/png", mime)
		require.True(t, bytes.Equal(data, []byte("fake-png")))
	})

	t.Run("不正な入力はすべて FormatError になること", func(t *testing.T) {
		malformed := []domain.EncodedImage{
			"",
			"not-a-data-url",
			"data:image/png,AAAA",                 // base64 マーカーなし
			"data:text/plain;base64,aGVsbG8=",     // 画像ではない MIME タイプ
			"data:image/png;base64,@@@not-base64", // 不正な base64
			"http://example.com/a.png",
		}

		for _, img := range malformed {
			_, _, err := Decode(img, "subject[2]")

			var fe *domain.FormatError
			require.Error(t, err, "input: %q", img)
			require.True(t, errors.As(err, &fe), "FormatError であるべき: %q", img)
			require.True(t, strings.Contains(err.Error(), "subject[2]"), "文脈ラベルが含まれるべき: %v", err)
		}
	})
}

func TestDecodeStrict(t *testing.T) {
	t.Run("正常な data URL を通すこと", func(t *testing.T) {
		img := Encode("image/jpeg", []byte("fake-jpeg"))

		mime, data, err := DecodeStrict(img, "video source")
		require.NoError(t, err)
		require.Equal(t, "image/jpeg", mime)
		require.Equal(t, []byte("fake-jpeg"), data)
	})

	t.Run("ペイロードが空の data URL を弾くこと", func(t *testing.T) {
		_, _, err := DecodeStrict("data:image/png;base64,", "video source")

		var fe *domain.FormatError
		require.True(t, errors.As(err, &fe))
	})
}

func TestEncode_RoundTrip(t *testing.T) {
	original := []byte{0x89, 0x50, 0x4e, 0x47}
	img := Encode("image/png", original)

	require.True(t, strings.HasPrefix(string(img), "data:image/png;base64,"))

	mime, data, err := Decode(img, "roundtrip")
	require.NoError(t, err)
	require.Equal(t, "image/png", mime)
	require.Equal(t, original, data)
}
