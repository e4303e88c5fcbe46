package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Usage(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 1, run(context.Background(), nil, &out, &errOut))
	assert.Contains(t, errOut.String(), "usage")
	assert.Equal(t, 1, run(context.Background(), []string{"a", "b"}, &out, &errOut))
}

func TestRun_PrintsFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"title":"CLI Alert"}]`))
	}))
	defer srv.Close()

	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{srv.URL}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())
	assert.JSONEq(t, `[{"title":"CLI Alert"}]`, out.String())
}

func TestRun_FeedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var out, errOut bytes.Buffer
	assert.Equal(t, 1, run(context.Background(), []string{srv.URL}, &out, &errOut))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "job failed")
}
