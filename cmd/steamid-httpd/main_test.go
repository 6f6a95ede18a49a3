package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"steamid-convert/cmd/steamid-httpd/httpserveutil"
	"steamid-convert/logutil"
	"steamid-convert/steamidhttp"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	pt, err := parseTemplates()
	require.NoError(t, err)

	h := &Handler{
		templates: pt,
		workers:   2,
	}

	mux := http.NewServeMux()
	httpserveutil.Register(mux, zerolog.Nop(), h)

	return mux
}

func serve(mux http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	return rec
}

func TestServeConvert(t *testing.T) {
	mux := newTestMux(t)

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/convert?id=STEAM_1:0:1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var response steamidhttp.ConvertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.Equal(t, "STEAM_1:0:1", response.Input)
	assert.Equal(t, "SteamID2", response.Format)
	assert.Equal(t, uint64(76561197960265730), response.SteamID64)
	assert.Equal(t, "STEAM_1:0:1", response.SteamID2)
	assert.Equal(t, "[U:1:2]", response.SteamID3)
	assert.Equal(t, "Individual", response.AccountType)
	assert.Equal(t, "Public", response.Universe)
	assert.Contains(t, rec.Body.String(), `"steamid64": "76561197960265730"`)
}

func TestServeConvertID3(t *testing.T) {
	mux := newTestMux(t)

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/convert?id=%5BL%3A1%3A5%5D", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var response steamidhttp.ConvertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.Equal(t, "Chat", response.AccountType)
	assert.Equal(t, uint32(0), response.Instance)
	assert.Equal(t, "[c:1:5]", response.SteamID3)
}

func TestServeConvertErrors(t *testing.T) {
	mux := newTestMux(t)

	tests := []struct {
		method string
		target string
		code   int
	}{
		{http.MethodGet, "/convert", http.StatusBadRequest},
		{http.MethodGet, "/convert?id=not-a-steamid", http.StatusBadRequest},
		{http.MethodGet, "/convert?id=STEAM_1:0:99999999999999999999", http.StatusUnprocessableEntity},
		{http.MethodPost, "/convert?id=1", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		rec := serve(mux, httptest.NewRequest(tt.method, tt.target, nil))
		assert.Equal(t, tt.code, rec.Code, tt.target)

		var response steamidhttp.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response), tt.target)
		assert.NotEmpty(t, response.Error, tt.target)
	}
}

func TestServeConvertUnrecognizedMessage(t *testing.T) {
	mux := newTestMux(t)

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/convert?id=nope", nil))

	var response steamidhttp.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "unable to parse to any SteamID format", response.Error)
}

func TestServeConvertBatch(t *testing.T) {
	mux := newTestMux(t)

	body, err := json.Marshal(steamidhttp.ConvertBatchRequest{
		IDs: []string{"[U:1:1]", "not-a-steamid", "76561197960265728"},
	})
	require.NoError(t, err)

	rec := serve(mux, httptest.NewRequest(http.MethodPost, "/convert/batch", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var response steamidhttp.ConvertBatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Results, 3)

	require.NotNil(t, response.Results[0].Result)
	assert.Equal(t, uint64((1<<52)|(1<<56)|1), response.Results[0].Result.SteamID64)

	assert.Nil(t, response.Results[1].Result)
	assert.Equal(t, "unable to parse to any SteamID format", response.Results[1].Error)

	require.NotNil(t, response.Results[2].Result)
	assert.Equal(t, "STEAM_1:0:0", response.Results[2].Result.SteamID2)
}

func TestServeConvertBatchErrors(t *testing.T) {
	mux := newTestMux(t)

	tooMany := make([]string, maxBatchSize+1)
	for i := range tooMany {
		tooMany[i] = "1"
	}

	b, err := json.Marshal(steamidhttp.ConvertBatchRequest{IDs: tooMany})
	require.NoError(t, err)

	tests := []struct {
		method string
		body   string
		code   int
	}{
		{http.MethodGet, "", http.StatusMethodNotAllowed},
		{http.MethodPost, "{", http.StatusBadRequest},
		{http.MethodPost, `{"ids": []}`, http.StatusBadRequest},
		{http.MethodPost, `{"ids": ["1"], "extra": true}`, http.StatusBadRequest},
		{http.MethodPost, string(b), http.StatusBadRequest},
	}

	for _, tt := range tests {
		rec := serve(mux, httptest.NewRequest(tt.method, "/convert/batch", strings.NewReader(tt.body)))
		assert.Equal(t, tt.code, rec.Code, tt.body)
	}
}

func TestServeIndexPage(t *testing.T) {
	mux := newTestMux(t)

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/?id=76561197960265728", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Interpreting as SteamID64")
	assert.Contains(t, body, "STEAM_1:0:0")
	assert.Contains(t, body, "[U:1:0]")
	assert.Contains(t, body, "0x110000100000000")
}

func TestServeIndexPageUnrecognized(t *testing.T) {
	mux := newTestMux(t)

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/?id=nope", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, rec.Body.String(), "Unable to interpret nope")
}

func TestServeUnknownPage(t *testing.T) {
	mux := newTestMux(t)

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleLogsRequest(t *testing.T) {
	var buf bytes.Buffer

	pt, err := parseTemplates()
	require.NoError(t, err)

	h := &Handler{templates: pt, workers: 1}

	mux := http.NewServeMux()
	httpserveutil.Register(mux, logutil.New(&buf, logutil.Config{Level: "info"}), h)

	serve(mux, httptest.NewRequest(http.MethodGet, "/convert?id=nope", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, float64(http.StatusBadRequest), line["status"])
	assert.Equal(t, "/convert?id=nope", line["uri"])
}

func TestExitWritesErrorsToStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := run([]string{"-bogus"}, &stdout, &stderr)
	require.Error(t, err)

	stderr.Reset()

	assert.Equal(t, 1, exit(err, &stderr))
	assert.Contains(t, stderr.String(), "argument parsing failure")
	assert.Empty(t, stdout.String())

	assert.Equal(t, 0, exit(nil, &stderr))
}
