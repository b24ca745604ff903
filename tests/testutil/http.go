package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/restops/backend/internal/domain/identity"
	"github.com/restops/backend/internal/interfaces/http/dto"
	"github.com/restops/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// RequestContext is a gin test context prepared for a single handler call.
type RequestContext struct {
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
}

// NewRequestContext builds a gin context carrying body as a JSON request.
// A nil body sends an empty request.
func NewRequestContext(t *testing.T, method, path string, body any) *RequestContext {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err, "marshal request body")
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req, err := http.NewRequest(method, path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return &RequestContext{Context: c, Recorder: w}
}

// WithLocationParam sets the :locationId path parameter.
func (rc *RequestContext) WithLocationParam(id uuid.UUID) *RequestContext {
	return rc.WithParam("locationId", id.String())
}

// WithParam sets a path parameter.
func (rc *RequestContext) WithParam(key, value string) *RequestContext {
	rc.Context.Params = append(rc.Context.Params, gin.Param{Key: key, Value: value})
	return rc
}

// WithPrincipal stores the caller the way the auth middleware would, so
// handlers resolve it through middleware.GetPrincipal.
func (rc *RequestContext) WithPrincipal(p identity.Principal) *RequestContext {
	rc.Context.Set(middleware.PrincipalKey, p)
	return rc
}

// WithQuery replaces the request's query string.
func (rc *RequestContext) WithQuery(query string) *RequestContext {
	rc.Context.Request.URL.RawQuery = query
	return rc
}

// Response decodes the recorded body into the API envelope.
func (rc *RequestContext) Response(t *testing.T) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rc.Recorder.Body.Bytes(), &resp), "decode response envelope")
	return resp
}

// Code returns the recorded status code.
func (rc *RequestContext) Code() int {
	return rc.Recorder.Code
}
