// redact — маскирование чувствительных значений перед записью в логи.
// Email оставляет первые два символа локальной части, пароли и токены
// не логируются вовсе.
package redact

import "strings"

// Email маскирует локальную часть адреса: "someone@example.com" -> "so***@example.com".
func Email(s string) string {
	local, domain, ok := strings.Cut(s, "@")
	if !ok || domain == "" {
		return "***"
	}

	if len(local) > 2 {
		local = local[:2] + "***"
	} else {
		local = "***"
	}

	return local + "@" + domain
}

func Token() string    { return "[REDACTED_TOKEN]" }
func Password() string { return "[REDACTED_PASSWORD]" }
