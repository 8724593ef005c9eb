package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avaneesh/ddc-go/pkg/capcache"
	"avaneesh/ddc-go/pkg/ddc"
	"avaneesh/ddc-go/pkg/mccs"
	"avaneesh/ddc-go/pkg/simulator"
)

type testEnv struct {
	server *Server
	sim    *simulator.Display
	cache  *capcache.Cache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	m := ddc.NewManagerWithLogger(nil)
	sim := simulator.NewDisplay(simulator.DefaultConfig())
	_, err := m.AddDisplay("main", sim)
	require.NoError(t, err)
	t.Cleanup(func() { m.Shutdown() })

	cache, err := capcache.Open(filepath.Join(t.TempDir(), "caps.toml"))
	require.NoError(t, err)

	return &testEnv{
		server: NewServer(Config{Mode: gin.TestMode}, m, cache, nil),
		sim:    sim,
		cache:  cache,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func decodeData(t *testing.T, resp APIResponse, out interface{}) {
	t.Helper()
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w, resp := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, resp.RequestID, w.Header().Get(requestIDHeader))
}

func TestListDisplays(t *testing.T) {
	env := newTestEnv(t)

	w, resp := env.do(t, http.MethodGet, "/displays", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var displays []DisplayInfo
	decodeData(t, resp, &displays)
	require.Len(t, displays, 1)
	assert.Equal(t, "main", displays[0].ID)
	assert.NotNil(t, displays[0].Stats)
}

func TestUnknownDisplay(t *testing.T) {
	env := newTestEnv(t)

	w, resp := env.do(t, http.MethodGet, "/displays/side/vcp/luminance", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestGetVCP(t *testing.T) {
	env := newTestEnv(t)

	for _, name := range []string{"luminance", "brightness", "0x10", "10"} {
		t.Run(name, func(t *testing.T) {
			w, resp := env.do(t, http.MethodGet, "/displays/main/vcp/"+name, nil)
			require.Equal(t, http.StatusOK, w.Code)

			var v VCPValue
			decodeData(t, resp, &v)
			assert.Equal(t, VCPValue{
				Code:     "10",
				Name:     "Luminance",
				Slug:     "luminance",
				Function: "Continuous",
				Type:     "Set",
				Current:  75,
				Maximum:  100,
			}, v)
		})
	}
}

func TestGetVCPErrors(t *testing.T) {
	env := newTestEnv(t)

	w, resp := env.do(t, http.MethodGet, "/displays/main/vcp/warp-drive", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)

	w, resp = env.do(t, http.MethodGet, "/displays/main/vcp/sharpness", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "UNSUPPORTED_VCP_CODE", resp.Error.Code)

	env.sim.SetFaults(simulator.Faults{CorruptChecksum: true})
	w, resp = env.do(t, http.MethodGet, "/displays/main/vcp/contrast", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "DISPLAY_ERROR", resp.Error.Code)

	env.sim.SetFaults(simulator.Faults{ReceiveError: errors.New("bus stuck")})
	w, _ = env.do(t, http.MethodGet, "/displays/main/vcp/contrast", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSetVCP(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, http.MethodPut, "/displays/main/vcp/contrast", gin.H{"value": 65})
	require.Equal(t, http.StatusOK, w.Code)

	v, ok := env.sim.Value(mccs.Contrast)
	require.True(t, ok)
	assert.Equal(t, uint16(65), v)
}

func TestSetVCPInvalidBody(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body interface{}
	}{
		{"Missing value", gin.H{}},
		{"Negative", gin.H{"value": -1}},
		{"Too large", gin.H{"value": 70000}},
		{"Not a number", gin.H{"value": "high"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := env.do(t, http.MethodPut, "/displays/main/vcp/contrast", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	v, _ := env.sim.Value(mccs.Contrast)
	assert.Equal(t, uint16(50), v)
}

func TestSave(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, http.MethodPost, "/displays/main/save", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.sim.Saves())
}

func TestCapabilities(t *testing.T) {
	env := newTestEnv(t)

	w, resp := env.do(t, http.MethodGet, "/displays/main/capabilities", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var caps CapabilitiesResponse
	decodeData(t, resp, &caps)
	assert.Equal(t, "SIM2400", caps.Model)
	assert.Equal(t, "2.2", caps.MCCSVersion)
	assert.Contains(t, caps.Cmds, "F3")
	assert.Contains(t, caps.VCP, VCPFeature{
		Code:   "60",
		Name:   "Input Select",
		Slug:   "input-select",
		Values: []string{"01", "03", "0F", "11", "12"},
	})

	// Served from the cache the second time
	reads := len(env.sim.Transactions())
	w, resp = env.do(t, http.MethodGet, "/displays/main/capabilities?raw=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, reads, len(env.sim.Transactions()))

	var raw struct {
		Raw string `json:"raw"`
	}
	decodeData(t, resp, &raw)
	assert.Equal(t, env.sim.CapabilityString(), raw.Raw)

	entry, ok := env.cache.Get("main")
	require.True(t, ok)
	assert.Equal(t, raw.Raw, entry.Raw)

	w, _ = env.do(t, http.MethodDelete, "/displays/main/capabilities", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, ok = env.cache.Get("main")
	assert.False(t, ok)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ddc.ErrDisplayNotFound, http.StatusNotFound},
		{ddc.ErrUnsupportedVCPCode, http.StatusUnprocessableEntity},
		{ddc.ErrUnexpectedOffset, http.StatusBadGateway},
		{&ddc.TransportError{Op: "send", Err: errors.New("nack")}, http.StatusBadGateway},
		{ddc.ErrDisplayClosed, http.StatusServiceUnavailable},
		{&mccs.ParseError{Offset: 3, Err: mccs.ErrUnpairedBrackets}, http.StatusBadGateway},
		{errors.New("other"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestGetCapabilitiesMalformed(t *testing.T) {
	m := ddc.NewManagerWithLogger(nil)
	config := simulator.DefaultConfig()
	config.Capabilities = "(prot(monitor)vcp(10 12)"
	_, err := m.AddDisplay("main", simulator.NewDisplay(config))
	require.NoError(t, err)
	t.Cleanup(func() { m.Shutdown() })

	env := &testEnv{server: NewServer(Config{Mode: gin.TestMode}, m, nil, nil)}

	w, resp := env.do(t, http.MethodGet, "/displays/main/capabilities", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DISPLAY_ERROR", resp.Error.Code)
}
