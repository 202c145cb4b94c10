package models

import "time"

const (
	timestampLayout       = "2006-01-02 15:04:05"
	timestampLayoutMicros = "2006-01-02 15:04:05.000000"
)

// FormatTimestamp возвращает строковое представление временной метки
// в виде "YYYY-MM-DD HH:MM:SS[.ffffff]".
//
// Микросекунды выводятся только когда они ненулевые,
// точность ниже микросекунды отбрасывается (как у колонки TIMESTAMP).
func FormatTimestamp(t time.Time) string {
	t = t.Truncate(time.Microsecond)
	if t.Nanosecond() == 0 {
		return t.Format(timestampLayout)
	}

	return t.Format(timestampLayoutMicros)
}
