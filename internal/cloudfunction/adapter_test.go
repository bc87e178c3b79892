package cloudfunction

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResponse(t *testing.T, data []byte) CloudFunctionResponse {
	var resp CloudFunctionResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp
}

func TestServe_ForwardsRequest(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/catalog/search", r.URL.Path)
		assert.Equal(t, "брат", r.URL.Query().Get("q"))
		assert.Equal(t, "Bearer t", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"a":1}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	event, _ := json.Marshal(CloudFunctionRequest{
		HTTPMethod:        http.MethodPost,
		Path:              "/api/v1/catalog/search",
		Headers:           map[string]string{"Authorization": "Bearer t"},
		QueryStringParams: map[string]string{"q": "брат"},
		Body:              `{"a":1}`,
	})

	out, err := serve(h, event)
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, `{"ok":true}`, resp.Body)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.False(t, resp.IsBase64Encoded)
}

func TestServe_DecodesBase64Body(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0xff}
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, png, body)
		w.WriteHeader(http.StatusOK)
	})

	event, _ := json.Marshal(CloudFunctionRequest{
		HTTPMethod:      http.MethodPut,
		Path:            "/api/v1/auth/profile/avatar",
		Body:            base64.StdEncoding.EncodeToString(png),
		IsBase64Encoded: true,
	})

	out, err := serve(h, event)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, decodeResponse(t, out).StatusCode)
}

func TestServe_InvalidEvent(t *testing.T) {
	out, err := serve(http.NotFoundHandler(), []byte("not json"))
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.Body, "Invalid request format")
}

func TestBuildCloudFunctionResponse_BinaryBody(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte{0xff, 0xfe, 0x00})
	})

	event, _ := json.Marshal(CloudFunctionRequest{HTTPMethod: http.MethodGet, Path: "/x"})
	out, err := serve(h, event)
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.True(t, resp.IsBase64Encoded)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, 0x00}), resp.Body)
}

func TestHandler_RetriesFailedInitialization(t *testing.T) {
	origInit := initialize
	t.Cleanup(func() {
		initialize = origInit
		initialized = false
		router = nil
	})
	initialized = false
	router = nil

	calls := 0
	initialize = func(context.Context) (http.Handler, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("ydb: transport unavailable")
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}), nil
	}

	event, _ := json.Marshal(CloudFunctionRequest{HTTPMethod: http.MethodGet, Path: "/api/v1/health"})

	out, err := Handler(context.Background(), event)
	require.NoError(t, err)
	resp := decodeResponse(t, out)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, resp.Body, "transport unavailable")

	out, err = Handler(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, decodeResponse(t, out).StatusCode)

	out, err = Handler(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, decodeResponse(t, out).StatusCode)
	assert.Equal(t, 2, calls)
}
