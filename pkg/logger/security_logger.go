package logger

import (
	"net/url"
	"regexp"
	"strings"

	"semrush-explorer/pkg/utils"
)

const redacted = "***"

var secretPattern = regexp.MustCompile(`(?i)\b(key|token|secret)=([^&\s]+)`)

// SecurityLogger logs through the wrapped Logger after stripping API keys
// from fields and messages
type SecurityLogger struct {
	*Logger
}

// NewSecurityLogger creates a security-aware logger on top of l
func NewSecurityLogger(l *Logger) *SecurityLogger {
	if l == nil {
		l = GetLogger()
	}
	return &SecurityLogger{Logger: l}
}

// MaskAPIKey replaces a key with a short fingerprint, e.g. "***#1a2b3c4d"
func (sl *SecurityLogger) MaskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	return redacted + "#" + utils.FingerprintShort(key)
}

// MaskRequestURL redacts the key query parameter of a request URL
func (sl *SecurityLogger) MaskRequestURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return sl.MaskLogMessage(rawURL)
	}

	query := parsed.Query()
	if query.Has("key") {
		query.Set("key", redacted)
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

// MaskParams returns a copy of request parameters with the key redacted
func (sl *SecurityLogger) MaskParams(params map[string]string) map[string]string {
	masked := make(map[string]string, len(params))
	for k, v := range params {
		if k == "key" {
			masked[k] = sl.MaskAPIKey(v)
			continue
		}
		masked[k] = v
	}
	return masked
}

// MaskSensitiveData masks secrets and URLs in a field map
func (sl *SecurityLogger) MaskSensitiveData(data map[string]interface{}) map[string]interface{} {
	masked := make(map[string]interface{}, len(data))

	for key, value := range data {
		lowerKey := strings.ToLower(key)

		switch v := value.(type) {
		case string:
			switch {
			case strings.Contains(lowerKey, "key") || strings.Contains(lowerKey, "token") || strings.Contains(lowerKey, "secret"):
				masked[key] = sl.MaskAPIKey(v)
			case strings.Contains(lowerKey, "url"):
				masked[key] = sl.MaskRequestURL(v)
			default:
				masked[key] = sl.MaskLogMessage(v)
			}
		case map[string]string:
			masked[key] = sl.MaskParams(v)
		default:
			masked[key] = value
		}
	}

	return masked
}

// MaskLogMessage redacts key=value style secrets inside free text
func (sl *SecurityLogger) MaskLogMessage(message string) string {
	return secretPattern.ReplaceAllString(message, "${1}="+redacted)
}

// SafeInfo logs info with automatic sensitive data masking
func (sl *SecurityLogger) SafeInfo(msg string, fields map[string]interface{}) {
	sl.Logger.WithFields(sl.MaskSensitiveData(fields)).Info(sl.MaskLogMessage(msg))
}

// SafeWarn logs a warning with automatic sensitive data masking
func (sl *SecurityLogger) SafeWarn(msg string, fields map[string]interface{}) {
	sl.Logger.WithFields(sl.MaskSensitiveData(fields)).Warn(sl.MaskLogMessage(msg))
}

// SafeDebug logs debug with automatic sensitive data masking
func (sl *SecurityLogger) SafeDebug(msg string, fields map[string]interface{}) {
	sl.Logger.WithFields(sl.MaskSensitiveData(fields)).Debug(sl.MaskLogMessage(msg))
}

// SafeError logs an error with automatic sensitive data masking
func (sl *SecurityLogger) SafeError(msg string, err error, fields map[string]interface{}) {
	masked := sl.MaskSensitiveData(fields)
	if err != nil {
		masked["error"] = sl.MaskLogMessage(err.Error())
	}
	sl.Logger.WithFields(masked).Error(sl.MaskLogMessage(msg))
}
