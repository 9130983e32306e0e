package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/smbreplay/pkg/gci"
	"github.com/ssargent/smbreplay/pkg/replay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReplay(floor uint8) *replay.Record {
	r := replay.NewRecord(replay.Header{LevelID: 4, LevelDifficulty: 1, LevelFloor: floor, ScorePoints: 900})
	for i := range r.Flags {
		r.Flags[i] = uint32(i & 3)
	}
	return r
}

func do(t *testing.T, h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, data interface{}) APIResponse {
	t.Helper()
	var resp APIResponse
	if data != nil {
		resp.Data = data
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestServer_handleHealth(t *testing.T) {
	server, metrics := setupTestServer(t, "")

	w := httptest.NewRecorder()
	server.handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var status map[string]string
	resp := decodeResponse(t, w, &status)
	assert.True(t, resp.Success)
	assert.Equal(t, "healthy", status["status"])
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.healthChecksTotal.WithLabelValues(statusSuccess)))
}

func TestServer_handleConvert(t *testing.T) {
	server, metrics := setupTestServer(t, "")
	h := server.Routes()
	binary := replay.Encode(testReplay(2))

	w := do(t, h, http.MethodPost, "/api/v1/convert?from=binary&to=gci", binary)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="replay.gci"`, w.Header().Get("Content-Disposition"))

	card := w.Body.Bytes()
	require.NoError(t, gci.Verify(card))

	w = do(t, h, http.MethodPost, "/api/v1/convert?from=gci&to=binary", card)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, binary, w.Body.Bytes())

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.conversionsTotal.WithLabelValues("binary", "gci", statusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.conversionsTotal.WithLabelValues("gci", "binary", statusSuccess)))
}

func TestServer_handleConvert_Errors(t *testing.T) {
	server, _ := setupTestServer(t, "")
	h := server.Routes()
	binary := replay.Encode(testReplay(2))

	testCases := []struct {
		name   string
		target string
		body   []byte
		status int
	}{
		{"missing from", "/api/v1/convert?to=json", binary, http.StatusBadRequest},
		{"missing to", "/api/v1/convert?from=binary", binary, http.StatusBadRequest},
		{"unknown format", "/api/v1/convert?from=binary&to=xml", binary, http.StatusBadRequest},
		{"empty body", "/api/v1/convert?from=binary&to=json", nil, http.StatusBadRequest},
		{"truncated input", "/api/v1/convert?from=binary&to=json", binary[:100], http.StatusUnprocessableEntity},
		{"invalid json", "/api/v1/convert?from=json&to=binary", []byte("{"), http.StatusUnprocessableEntity},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, tc.target, tc.body)
			assert.Equal(t, tc.status, w.Code)

			resp := decodeResponse(t, w, nil)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestServer_handleConvert_BodyLimit(t *testing.T) {
	server, _ := setupTestServer(t, "")
	server.config.MaxBodyBytes = 1024

	w := do(t, server.Routes(), http.MethodPost, "/api/v1/convert?from=binary&to=json", replay.Encode(testReplay(1)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_LibraryLifecycle(t *testing.T) {
	server, metrics := setupTestServer(t, "")
	h := server.Routes()

	// import
	doc, err := replay.EncodeJSON(testReplay(7))
	require.NoError(t, err)

	w := do(t, h, http.MethodPost, "/api/v1/replays?format=json", doc)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var imported ImportResponse
	decodeResponse(t, w, &imported)
	assert.Equal(t, "json", imported.Format)

	id, err := ksuid.Parse(imported.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.libraryReplays))

	// list
	w = do(t, h, http.MethodGet, "/api/v1/replays", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list ListResponse
	decodeResponse(t, w, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, id, list.Replays[0].ID)
	assert.Equal(t, uint8(7), list.Replays[0].Header.LevelFloor)

	// export as gci
	w = do(t, h, http.MethodGet, "/api/v1/replays/"+imported.ID+"?format=gci", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="`+imported.ID+`.gci"`, w.Header().Get("Content-Disposition"))
	info, err := gci.ParseInfo(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Adv.FL7 - smb-build-replay", info.FileComment)

	// export defaults to json
	w = do(t, h, http.MethodGet, "/api/v1/replays/"+imported.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	exported, err := replay.DecodeJSON(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, testReplay(7), exported)

	// delete
	w = do(t, h, http.MethodDelete, "/api/v1/replays/"+imported.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.libraryReplays))

	w = do(t, h, http.MethodGet, "/api/v1/replays/"+imported.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodDelete, "/api/v1/replays/"+imported.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, "/api/v1/replays", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list = ListResponse{}
	decodeResponse(t, w, &list)
	assert.Equal(t, 0, list.Count)
	assert.NotNil(t, list.Replays)
}

func TestServer_handleImport_DefaultsToBinary(t *testing.T) {
	server, _ := setupTestServer(t, "")

	w := do(t, server.Routes(), http.MethodPost, "/api/v1/replays", replay.Encode(testReplay(3)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var imported ImportResponse
	decodeResponse(t, w, &imported)
	assert.Equal(t, "binary", imported.Format)
}

func TestServer_handleImport_Errors(t *testing.T) {
	server, _ := setupTestServer(t, "")
	h := server.Routes()

	w := do(t, h, http.MethodPost, "/api/v1/replays?format=gci", []byte("not a card"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, h, http.MethodPost, "/api/v1/replays?format=bmp", []byte("x"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_InvalidReplayID(t *testing.T) {
	server, _ := setupTestServer(t, "")
	h := server.Routes()

	w := do(t, h, http.MethodGet, "/api/v1/replays/not-an-id", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodDelete, "/api/v1/replays/not-an-id", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/api/v1/replays/"+ksuid.New().String()+"?format=xml", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
