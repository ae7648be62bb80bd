// Package pending provides the asynchronous result returned for every
// outbound request.
//
// A Pending carries the request ID it was created for. Every Pending derived
// from it through Then, Catch, Transform, or Chain carries the same ID, so
// the originating request stays discoverable however far the result is
// transformed:
//
//	p := session.Send(ctx, req)
//	layout := p.Then(func(v any) (any, error) {
//	    return v.(map[string]any)["qLayout"], nil
//	})
//	log.Info("Waiting for layout", "request_id", layout.ID())
//	v, err := layout.Wait(ctx)
package pending
