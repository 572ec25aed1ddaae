package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, routes map[string]func(w http.ResponseWriter)) *Client {
	t.Helper()

	mux := http.NewServeMux()
	for path, handler := range routes {
		handler := handler
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			handler(w)
		})
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", time.Second)
}

func TestFetchStatus(t *testing.T) {
	c := newTestServer(t, map[string]func(http.ResponseWriter){
		PathStatus: func(w http.ResponseWriter) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"connection_status":"connected","model_name":"cube","progress_percent":10}`))
		},
	})

	snap, err := c.FetchStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Connected())
	assert.Equal(t, "cube", snap.ModelName)
	assert.Equal(t, 10.0, snap.ProgressPercent)
}

func TestFetchStatus_NonJSONIsTransportError(t *testing.T) {
	c := newTestServer(t, map[string]func(http.ResponseWriter){
		PathStatus: func(w http.ResponseWriter) {
			w.Write([]byte(`<html>gateway</html>`))
		},
	})

	_, err := c.FetchStatus(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestFetchStatus_HTTPErrorIsTransportError(t *testing.T) {
	c := newTestServer(t, map[string]func(http.ResponseWriter){
		PathStatus: func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`upstream down`))
		},
	})

	_, err := c.FetchStatus(context.Background())
	require.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "502")
}

func TestFetchStatus_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).FetchStatus(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestActions(t *testing.T) {
	c := newTestServer(t, map[string]func(http.ResponseWriter){
		PathRefresh: func(w http.ResponseWriter) {
			w.Write([]byte(`{"status":"success","message":"updated"}`))
		},
		PathCameraEnable: func(w http.ResponseWriter) {
			w.Write([]byte(`{"status":"fail","message":"busy"}`))
		},
		PathCameraRefresh: func(w http.ResponseWriter) {
			w.Write([]byte(`{"status":"success"}`))
		},
	})
	ctx := context.Background()

	res, err := c.RequestRefresh(ctx)
	require.NoError(t, err)
	assert.True(t, res.OK())

	res, err = c.EnableCamera(ctx)
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, "busy", res.Message)

	res, err = c.RefreshCamera(ctx)
	require.NoError(t, err)
	assert.True(t, res.OK())
}

func TestCameraDebug(t *testing.T) {
	c := newTestServer(t, map[string]func(http.ResponseWriter){
		PathCameraDebug: func(w http.ResponseWriter) {
			w.Write([]byte(`{"stream":{"fps":0,"error":"no frames"}}`))
		},
	})

	raw, err := c.CameraDebug(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"stream":{"fps":0,"error":"no frames"}}`, string(raw))
}

func TestClientTrimsBaseURL(t *testing.T) {
	c := NewClient("http://printer.local:5000///", 0)
	assert.Equal(t, "http://printer.local:5000", c.BaseURL())
}
