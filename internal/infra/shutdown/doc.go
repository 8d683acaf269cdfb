// Package shutdown coordinates graceful process termination.
//
// A Handler waits for SIGINT, SIGTERM or cancellation of a parent context,
// then runs the registered hooks in reverse order of registration under a
// shared deadline.
//
// Usage:
//
//	h := shutdown.NewHandler(10*time.Second, log)
//	h.OnShutdown("redis", srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
