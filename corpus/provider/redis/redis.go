package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pr "github.com/unkn0wn-root/nrf1/corpus"
)

type Redis struct {
	rdb goredis.UniversalClient
}

var _ pr.Provider = (*Redis)(nil)

type Config struct {
	Client goredis.UniversalClient
}

var ErrNilClient = errors.New("redis provider: nil client")

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client}, nil
}

func (p *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := p.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

func (p *Redis) Set(ctx context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	err := p.rdb.Set(ctx, key, value, ttl).Err()
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *Redis) Del(ctx context.Context, key string) error {
	return p.rdb.Del(ctx, key).Err()
}

func (p *Redis) Close(context.Context) error {
	return p.rdb.Close()
}

// Sharded is a Redis-backed Provider split across multiple endpoints, for a
// corpus too large (or too hot) for a single Redis instance to serve alone.
// Each key is routed to exactly one endpoint by corpus.ShardRouter, so
// repeated lookups of the same key always hit the same endpoint.
type Sharded struct {
	clients map[string]goredis.UniversalClient
	router  *pr.ShardRouter
}

var _ pr.Provider = (*Sharded)(nil)

// NewSharded builds a Sharded provider over the given named endpoints.
func NewSharded(clients map[string]goredis.UniversalClient) (*Sharded, error) {
	if len(clients) == 0 {
		return nil, ErrNilClient
	}
	names := make([]string, 0, len(clients))
	for name := range clients {
		names = append(names, name)
	}
	return &Sharded{clients: clients, router: pr.NewShardRouter(names)}, nil
}

func (p *Sharded) client(key string) goredis.UniversalClient {
	return p.clients[p.router.Endpoint(key)]
}

func (p *Sharded) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := p.client(key).Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (p *Sharded) Set(ctx context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	if err := p.client(key).Set(ctx, key, value, ttl).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Sharded) Del(ctx context.Context, key string) error {
	return p.client(key).Del(ctx, key).Err()
}

func (p *Sharded) Close(context.Context) error {
	var err error
	for _, c := range p.clients {
		if cerr := c.Close(); cerr != nil {
			err = cerr
		}
	}
	return err
}
