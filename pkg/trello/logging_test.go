package trello

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/krrrr38/trello-2-gitlab/pkg/config"
	"github.com/krrrr38/trello-2-gitlab/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetLevel(level)
	t.Cleanup(func() {
		logger.SetOutput(&bytes.Buffer{})
		logger.SetLevel(logger.DefaultLevel)
	})
	return &buf
}

func TestTransportFailureLogsNoCredentials(t *testing.T) {
	for _, level := range []string{"info", "debug"} {
		t.Run(level, func(t *testing.T) {
			buf := captureLogs(t, level)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hj, ok := w.(http.Hijacker)
				if !assert.True(t, ok) {
					return
				}
				conn, _, err := hj.Hijack()
				if assert.NoError(t, err) {
					conn.Close()
				}
			}))
			defer server.Close()

			client := NewClient(config.TrelloOptions{Key: "SECRETKEY", Token: "SECRETTOKEN", BoardID: "b1"}).
				WithBaseURL(server.URL).
				WithRetryMax(0)
			_, err := client.GetBoard(context.Background())
			require.Error(t, err)

			logs := buf.String()
			assert.Contains(t, logs, "request failed")
			assert.Contains(t, logs, redacted)
			assert.NotContains(t, logs, "SECRETTOKEN")
			assert.NotContains(t, logs, "SECRETKEY")
		})
	}
}

func TestRedactingLoggerMasksValues(t *testing.T) {
	l := newRedactingLogger("k3y", "t/ken")
	u, err := url.Parse("https://api.trello.com/1/boards/b1?key=k3y&token=t%2Fken&cards=all")
	require.NoError(t, err)

	got := l.redact([]interface{}{
		"url", u,
		"request", "GET " + u.String(),
		"error", errors.New(`Get "` + u.String() + `": EOF`),
		"attempt", 2,
	})

	assert.Equal(t, "https://api.trello.com/1/boards/b1?cards=all&key=REDACTED&token=REDACTED", got[1])
	assert.Equal(t, "GET https://api.trello.com/1/boards/b1?key=REDACTED&token=REDACTED&cards=all", got[3])
	assert.EqualError(t, got[5].(error), `Get "https://api.trello.com/1/boards/b1?key=REDACTED&token=REDACTED&cards=all": EOF`)
	assert.Equal(t, 2, got[7])
	assert.Equal(t, "url", got[0])
}
