package rate

import "errors"

// ErrRedisUnavailable wraps Redis transport failures observed by the
// limiter. It never escapes the public API (the limiter fails open);
// it exists so fail-open log lines carry a stable root cause.
var ErrRedisUnavailable = errors.New("redis unavailable")
