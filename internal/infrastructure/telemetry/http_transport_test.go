package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestNewHTTPTransport_RecordsClientSpan(t *testing.T) {
	rec := installRecorder(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	client := &http.Client{Transport: NewHTTPTransport(nil)}
	resp, err := client.Get(server.URL + "/api/orders")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())
	assert.Equal(t, "GET "+strings.TrimPrefix(server.URL, "http://"), spans[0].Name())
}
