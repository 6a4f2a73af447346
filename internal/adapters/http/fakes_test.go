package http

import (
	"context"
	"time"

	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/store"
	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
)

// downStore fails every call the way an unreachable Redis does.
type downStore struct {
	*store.Memory
}

var errDown = domain.NewUnavailableError("redis", "connection refused")

func (downStore) Get(context.Context, string) ([]byte, error)              { return nil, errDown }
func (downStore) Set(context.Context, string, []byte, time.Duration) error { return errDown }
func (downStore) Delete(context.Context, string) error                     { return errDown }
func (downStore) Incr(context.Context, string) (int64, error)              { return 0, errDown }
func (downStore) Expire(context.Context, string, time.Duration) error      { return errDown }
func (downStore) SAdd(context.Context, string, string) error               { return errDown }
func (downStore) SRem(context.Context, string, string) error               { return errDown }
func (downStore) SMembers(context.Context, string) ([]string, error)       { return nil, errDown }
func (downStore) Ping(context.Context) error                               { return errDown }
