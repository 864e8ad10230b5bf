package redis

import "memorial/internal/service"

// Ensure concrete types implement interfaces.
var _ service.OrderCache = (*CacheStore)(nil)
