package integration

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rpgo/financial-freedom/internal/config"
	"github.com/rpgo/financial-freedom/internal/domain"
	"github.com/rpgo/financial-freedom/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func post(t *testing.T, client *fasthttp.Client, method, path string, body interface{}) (int, []byte) {
	t.Helper()
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("http://ffcalc" + path)
	req.Header.SetMethod(method)
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		req.SetBody(data)
	}
	require.NoError(t, client.Do(req, resp))
	return resp.StatusCode(), append([]byte(nil), resp.Body()...)
}

func TestSessionFlowOverHTTP(t *testing.T) {
	settings, err := config.LoadSettings("")
	require.NoError(t, err)
	settings.Server.WriteTimeout = 30 * time.Second

	log := logrus.New()
	log.SetOutput(io.Discard)
	srv := server.New(settings, log)

	ln := fasthttputil.NewInmemoryListener()
	go func() { _ = srv.Serve(ln) }()
	defer ln.Close()
	client := &fasthttp.Client{Dial: func(string) (net.Conn, error) { return ln.Dial() }}

	input, err := config.NewInputParser().LoadFromFile("../testdata/accident_config.yaml")
	require.NoError(t, err)
	accident := input.Accident
	input.Accident = nil

	status, body := post(t, client, fasthttp.MethodPost, "/v1/sessions", nil)
	require.Equal(t, fasthttp.StatusCreated, status)
	var session server.SessionResponse
	require.NoError(t, json.Unmarshal(body, &session))

	base := "/v1/sessions/" + session.SessionID
	status, body = post(t, client, fasthttp.MethodPost, base+"/baseline", input)
	require.Equal(t, fasthttp.StatusOK, status, string(body))
	var baseline domain.Projection
	require.NoError(t, json.Unmarshal(body, &baseline))
	assert.False(t, baseline.ShockApplied)
	assert.Len(t, baseline.Trajectory, 31)

	status, body = post(t, client, fasthttp.MethodPost, base+"/shock", accident)
	require.Equal(t, fasthttp.StatusOK, status, string(body))
	var shocked domain.Projection
	require.NoError(t, json.Unmarshal(body, &shocked))
	assert.True(t, shocked.ShockApplied)
	shock, err := accident.ToShock()
	require.NoError(t, err)
	assert.True(t, baseline.FinalActualWealth.Sub(shocked.FinalActualWealth).Equal(shock.ShockAmount()))

	status, _ = post(t, client, fasthttp.MethodDelete, base+"/shock", nil)
	assert.Equal(t, fasthttp.StatusOK, status)
}
