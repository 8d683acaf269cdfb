// Package clock provides the time source used by the expiring store.
//
// Production code uses Real, which reads time.Now and therefore carries
// the monotonic clock reading used for expiry comparisons. Tests use Fake
// to move time forward deterministically across expiry boundaries.
package clock
