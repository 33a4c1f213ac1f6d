// Package resilience provides the retrying transport loop and the guards
// that sit beneath it.
//
// # Components
//
//   - Loop: runs attempts against a raw transport strictly one after
//     another, turning application-level status failures into errors and
//     asking a ShouldRetry policy whether to go again. The original error is
//     always what surfaces once retrying stops.
//
//   - Retry: the default ShouldRetry policy. It decides eligibility from the
//     attempt number, the method, the error's status and cancellation, then
//     waits a fixed delay.
//
//   - Bulkhead: limits concurrent transport attempts.
//
//   - RateLimiter: token bucket limit on transport attempts.
//
// # Usage
//
//	retry := resilience.NewRetry(resilience.RetryOptions{MaxTimes: exchange.Int(3)})
//	loop, err := resilience.NewLoop(transport)
//	if err != nil {
//	    return err
//	}
//	resp, err := loop.Hit(ctx, req, resilience.Interceptors{}, retry.Validate)
//
// Guards wrap the raw transport so that every attempt passes through them:
//
//	guarded := exchange.Chain(transport, resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: 8}))
//	loop, err := resilience.NewLoop(guarded)
package resilience
