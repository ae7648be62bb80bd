package intercept

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/wagiedev/enigma-go/internal/errors"
	"github.com/wagiedev/enigma-go/internal/protocol"
)

// Defaults returns the default interceptors in execution order.
func Defaults(log *slog.Logger, maxRetries int) []Interceptor {
	return []Interceptor{
		APIResponse(),
		RetryAborted(log, maxRetries),
		OutParam(),
	}
}

// APIResponse converts a raw *protocol.Response into its result map, or
// into an *errors.EngineError when the engine answered with an error.
// Values of any other type pass through.
func APIResponse() Interceptor {
	return Interceptor{
		Name: "api_response",
		OnFulfilled: func(_ context.Context, _ Session, _ *protocol.Request, result any) (any, error) {
			resp, ok := result.(*protocol.Response)
			if !ok {
				return result, nil
			}

			if resp.Error != nil {
				return nil, &errors.EngineError{
					Code:      resp.Error.Code,
					Parameter: resp.Error.Parameter,
					Message:   resp.Error.Message,
				}
			}

			return resp.Result, nil
		},
	}
}

// RetryAborted re-sends a request the engine aborted, at most maxRetries
// times. Once retries run out the abort error is returned. A successful
// retry result is Final, so later interceptors do not process it twice.
func RetryAborted(log *slog.Logger, maxRetries int) Interceptor {
	log = log.With("component", "intercept")

	return Interceptor{
		Name: "retry_aborted",
		OnRejected: func(ctx context.Context, _ Session, req *protocol.Request, err error) (any, error) {
			if !stderrors.Is(err, errors.ErrRequestAborted) || req.Retry == nil {
				return nil, err
			}

			if req.Retries >= maxRetries {
				log.Warn("Request aborted, no retries left",
					"request_id", req.ID,
					"method", req.Method,
					"retries", req.Retries,
				)

				return nil, err
			}

			log.Debug("Retrying aborted request",
				"request_id", req.ID,
				"method", req.Method,
				"attempt", req.Retries+1,
			)

			v, err := req.Retry(ctx).Wait(ctx)
			if err != nil {
				return nil, err
			}

			// The retry already ran the full pipeline.
			return Final(v), nil
		},
	}
}

// OutParam unwraps the out parameter named by Request.OutKey from a result
// map. Results without that key pass through.
func OutParam() Interceptor {
	return Interceptor{
		Name: "out_param",
		OnFulfilled: func(_ context.Context, _ Session, req *protocol.Request, result any) (any, error) {
			if req.OutKey == "" {
				return result, nil
			}

			m, ok := result.(map[string]any)
			if !ok {
				return result, nil
			}

			if v, ok := m[req.OutKey]; ok {
				return v, nil
			}

			return result, nil
		},
	}
}
