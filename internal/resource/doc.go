// Package resource bounds the work done while opening a model.
//
// A Controller limits three things:
//
//   - Loads: how many trees are fetched and decoded at once (semaphore)
//   - Memory: how many fetched-but-undecoded bytes are held at once (weighted semaphore)
//   - IO: storage throughput in bytes per second (token bucket)
//
//	rc := resource.NewController(resource.Config{
//	    MaxConcurrentLoads: 4,
//	    IOLimitBytesPerSec: 64 << 20,
//	})
//	if err := rc.AcquireLoad(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseLoad()
//
// All methods are safe for concurrent use, and a nil *Controller imposes no
// limits.
package resource
