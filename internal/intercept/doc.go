// Package intercept implements the response interceptor pipeline.
//
// Every call result passes through the pipeline before it reaches the
// caller. Each Interceptor may transform a successful result, turn it into
// an error, recover from an error, or re-send the request through
// Request.Retry. The default pipeline:
//   - APIResponse converts the raw *protocol.Response into its result, or an
//     *errors.EngineError for error responses
//   - RetryAborted re-sends requests the engine aborted (code -128)
//   - OutParam unwraps the single out parameter named by Request.OutKey
package intercept
