// Package testutil provides common test utilities for the CRM backend.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DoRequest performs a request against a Gin engine and returns the
// recorded response. A nil body sends an empty request; anything else
// is marshalled to JSON.
func DoRequest(t *testing.T, engine *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err, "Failed to marshal request body")
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// GetJSON performs a GET request and asserts the expected status code.
func GetJSON(t *testing.T, engine *gin.Engine, path string, expectedStatus int) map[string]interface{} {
	t.Helper()

	w := DoRequest(t, engine, http.MethodGet, path, nil, nil)
	require.Equal(t, expectedStatus, w.Code, "Unexpected status for GET %s: %s", path, w.Body.String())
	return ParseJSON(t, w)
}

// PostJSON performs a POST request and asserts the expected status code.
func PostJSON(t *testing.T, engine *gin.Engine, path string, body interface{}, expectedStatus int) map[string]interface{} {
	t.Helper()

	w := DoRequest(t, engine, http.MethodPost, path, body, nil)
	require.Equal(t, expectedStatus, w.Code, "Unexpected status for POST %s: %s", path, w.Body.String())
	return ParseJSON(t, w)
}

// ParseJSON parses a recorded response body into a generic map.
func ParseJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result), "Failed to parse JSON response")
	return result
}

// ParseJSONAs parses a recorded response body into the given type.
func ParseJSONAs[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var result T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result), "Failed to parse JSON response")
	return result
}

// AssertSuccessEnvelope asserts the response carries a successful API
// envelope and returns its data payload.
func AssertSuccessEnvelope(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()

	require.Equal(t, true, resp["success"], "Expected success envelope, got: %v", resp)
	assert.Nil(t, resp["error"], "Expected no error in envelope")
	data, _ := resp["data"].(map[string]interface{})
	return data
}

// AssertErrorEnvelope asserts the response carries an error envelope
// with the expected error code.
func AssertErrorEnvelope(t *testing.T, resp map[string]interface{}, expectedCode string) {
	t.Helper()

	require.Equal(t, false, resp["success"], "Expected error envelope, got: %v", resp)
	errMap, ok := resp["error"].(map[string]interface{})
	require.True(t, ok, "Expected error object in envelope")
	assert.Equal(t, expectedCode, errMap["code"], "Unexpected error code")
}
