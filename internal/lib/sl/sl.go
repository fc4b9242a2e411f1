// Package sl содержит вспомогательные функции для структурированного
// логирования через slog.
package sl

import "log/slog"

// Err возвращает атрибут лога с ключом "error" и текстом ошибки.
// Единая форма для всех записей об ошибках в сервисе.
func Err(err error) slog.Attr {
	return slog.String("error", err.Error())
}
