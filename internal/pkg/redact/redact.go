// redact предоставляет утилиты безопасного редактирования чувствительных
// данных для логов. Секрет в лог не попадает, но видно, передан ли он вообще.
package redact

// Secret возвращает заглушку для секрета (ключ администратора, пароль БД).
// Пустая строка остаётся пустой: по логу видно, что значение не передано.
func Secret(s string) string {
	if s == "" {
		return ""
	}

	return "[REDACTED_SECRET]"
}
