package imaging

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ============================================================
// Image probe
// ============================================================

// Probe читает заголовок изображения и возвращает пиксельные размеры.
// Само изображение не декодируется — геометрии нужны только размеры.
func Probe(data []byte) (int, int, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("image %q has invalid dimensions %dx%d", format, cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, nil
}
