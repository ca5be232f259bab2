package security

import "strings"

var sensitiveSubstrings = []string{
	"token",
	"password",
	"authorization",
	"apikey",
	"api_key",
	"access_key",
	"private_key",
	"credentials",
	"auth",
	"passwd",
	"email",
	"key",
	"sig",
	"signature",
	"cookie",
	"session",
	"jwt",
	"bearer",
	"credential",
	"pwd",
	"passphrase",
	"secret",
}

var allowList = map[string]struct{}{
	"secret_name":          {},
	"compose_project_name": {},
}

// RedactEnv returns a copy of KEY=VALUE entries with sensitive values replaced.
func RedactEnv(entries []string) []string {
	if entries == nil {
		return nil
	}
	redacted := make([]string, 0, len(entries))
	for _, entry := range entries {
		key, _, found := strings.Cut(entry, "=")
		if found && isSensitiveKey(key) {
			redacted = append(redacted, key+"=***")
			continue
		}
		redacted = append(redacted, entry)
	}
	return redacted
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(strings.TrimSpace(key))
	if _, ok := allowList[lower]; ok {
		return false
	}
	if strings.Contains(lower, "secret") && strings.Contains(lower, "name") {
		return false
	}
	for _, part := range sensitiveSubstrings {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}
