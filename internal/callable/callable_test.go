package callable

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	"github.com/lumiforge/kinoteka-backend/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name string `json:"name"`
}

type echoResponse struct {
	Message string `json:"message"`
}

func echo(_ context.Context, caller *session.Caller, req *echoRequest) (*echoResponse, error) {
	if !caller.IsAuthenticated() {
		return nil, app_errors.ErrUnauthenticated
	}
	if req.Name == "" {
		return nil, app_errors.InvalidArgument("name is required")
	}
	return &echoResponse{Message: "hello " + req.Name}, nil
}

func newRegistry() *Registry {
	r := NewRegistry()
	r.Register("echo", Typed(echo))
	r.Register("boom", func(context.Context, *session.Caller, json.RawMessage) (any, error) {
		return nil, errors.New("connection reset by peer 10.0.0.7")
	})
	return r
}

func TestInvoke_Success(t *testing.T) {
	status, resp := newRegistry().Invoke(context.Background(), "echo", &session.Caller{UserID: "u1"}, []byte(`{"data":{"name":"Данила"}}`))

	assert.Equal(t, http.StatusOK, status)
	require.Nil(t, resp.Error)
	assert.Equal(t, &echoResponse{Message: "hello Данила"}, resp.Result)
}

func TestInvoke_Errors(t *testing.T) {
	tests := []struct {
		name     string
		function string
		caller   *session.Caller
		body     string
		status   int
		code     string
	}{
		{"unknown function", "nope", nil, `{"data":{}}`, http.StatusNotFound, StatusNotFound},
		{"body not json", "echo", nil, `data=1`, http.StatusBadRequest, StatusInvalidArgument},
		{"data wrong shape", "echo", &session.Caller{UserID: "u1"}, `{"data":{"name":5}}`, http.StatusBadRequest, StatusInvalidArgument},
		{"anonymous", "echo", nil, `{"data":{"name":"x"}}`, http.StatusUnauthorized, StatusUnauthenticated},
		{"missing data", "echo", &session.Caller{UserID: "u1"}, `{}`, http.StatusBadRequest, StatusInvalidArgument},
		{"plain error", "boom", nil, `{"data":null}`, http.StatusInternalServerError, StatusInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := newRegistry().Invoke(context.Background(), tt.function, tt.caller, []byte(tt.body))
			assert.Equal(t, tt.status, status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Status)
			assert.Nil(t, resp.Result)
		})
	}
}

func TestErrorResponse_HidesInternalDetails(t *testing.T) {
	status, resp := ErrorResponse(app_errors.Internal(errors.New("ydb: session expired"), "failed to change role"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "failed to change role", resp.Error.Message)
	assert.NotContains(t, resp.Error.Message, "ydb")
}

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, StatusPermissionDenied, Status(app_errors.KindPermissionDenied))
	assert.Equal(t, StatusInternal, Status("weird"))
	assert.Equal(t, http.StatusConflict, HTTPStatus(app_errors.KindAlreadyExists))
}

func TestRegister_Duplicate(t *testing.T) {
	r := NewRegistry()
	r.Register("echo", Typed(echo))
	assert.Panics(t, func() { r.Register("echo", Typed(echo)) })
	assert.Equal(t, []string{"echo"}, r.Names())
}

func TestTyped_GuardRunsBeforeDecode(t *testing.T) {
	requireCaller := func(_ context.Context, caller *session.Caller) error {
		if !caller.IsAuthenticated() {
			return app_errors.ErrUnauthenticated
		}
		return nil
	}
	fn := Typed(echo, requireCaller)

	_, err := fn(context.Background(), nil, json.RawMessage(`{"name":5}`))
	assert.Equal(t, app_errors.KindUnauthenticated, app_errors.KindOf(err))

	_, err = fn(context.Background(), &session.Caller{UserID: "u1"}, json.RawMessage(`{"name":5}`))
	assert.Equal(t, app_errors.KindInvalidArgument, app_errors.KindOf(err))
}
