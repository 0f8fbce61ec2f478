package health

import "context"

// Pinger is anything whose reachability can be probed: the catalog store
// and the Redis store both satisfy it.
type Pinger interface {
	Ping(ctx context.Context) error
}
