// Package qr генерирует QR-коды для отметки посещений.
package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// Size размер генерируемого изображения в пикселях.
const Size = 256

// EncodePNG кодирует содержимое в QR-код и возвращает PNG-изображение.
func EncodePNG(content string) ([]byte, error) {
	const op = "qr.EncodePNG"
	png, err := qrcode.Encode(content, qrcode.Medium, Size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return png, nil
}
