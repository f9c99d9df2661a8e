// Package shutdown coordinates graceful process termination.
//
// Hooks registered with OnShutdown run in reverse registration order once
// SIGINT or SIGTERM arrives, or Trigger is called, under one shared
// timeout:
//
//	h := shutdown.NewHandler(15 * time.Second, logger)
//	h.OnShutdown("store", store.Close)
//	err := h.Wait()
package shutdown
