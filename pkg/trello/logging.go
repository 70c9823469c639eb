package trello

import (
	"errors"
	"net/url"
	"strings"

	"github.com/krrrr38/trello-2-gitlab/pkg/logger"
)

const redacted = "REDACTED"

// redactingLogger forwards retryablehttp logs to pkg/logger with the key and
// token masked. retryablehttp logs the request URL, which carries both.
type redactingLogger struct {
	secrets []string
}

func newRedactingLogger(secrets ...string) redactingLogger {
	var s []string
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		s = append(s, secret)
		if escaped := url.QueryEscape(secret); escaped != secret {
			s = append(s, escaped)
		}
	}
	return redactingLogger{secrets: s}
}

func (l redactingLogger) Error(msg string, keysAndValues ...interface{}) {
	logger.Leveled{}.Error(msg, l.redact(keysAndValues)...)
}

func (l redactingLogger) Warn(msg string, keysAndValues ...interface{}) {
	logger.Leveled{}.Warn(msg, l.redact(keysAndValues)...)
}

func (l redactingLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Leveled{}.Info(msg, l.redact(keysAndValues)...)
}

func (l redactingLogger) Debug(msg string, keysAndValues ...interface{}) {
	logger.Leveled{}.Debug(msg, l.redact(keysAndValues)...)
}

func (l redactingLogger) redact(keysAndValues []interface{}) []interface{} {
	ret := make([]interface{}, len(keysAndValues))
	for i, v := range keysAndValues {
		switch v := v.(type) {
		case *url.URL:
			ret[i] = l.redactURL(v)
		case url.URL:
			ret[i] = l.redactURL(&v)
		case error:
			ret[i] = errors.New(l.redactString(v.Error()))
		case string:
			ret[i] = l.redactString(v)
		default:
			ret[i] = v
		}
	}
	return ret
}

// redactURL renders u with the key and token query values masked.
func (l redactingLogger) redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	masked := *u
	query := masked.Query()
	for _, name := range []string{"key", "token"} {
		if query.Has(name) {
			query.Set(name, redacted)
		}
	}
	masked.RawQuery = query.Encode()
	return l.redactString(masked.String())
}

func (l redactingLogger) redactString(s string) string {
	for _, secret := range l.secrets {
		s = strings.ReplaceAll(s, secret, redacted)
	}
	return s
}
