package app

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestKeyCollection(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		cmd  redis.Cmder
		want string
	}{
		{redis.NewStringCmd(ctx, "get", "cache:order:abc"), "cache:order"},
		{redis.NewStatusCmd(ctx, "ping"), "redis"},
		{redis.NewIntCmd(ctx, "del", "plainkey"), "redis"},
	}

	for _, tc := range testCases {
		if got := keyCollection(tc.cmd); got != tc.want {
			t.Errorf("%v: expected %q, got %q", tc.cmd.Args(), tc.want, got)
		}
	}
}
