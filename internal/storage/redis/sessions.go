// Package redis shares sessions and turn locks between several briefbot processes.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/pkg/log"
	"github.com/sandevgo/briefbot/pkg/retry"
)

// ErrLockBusy is returned when a user's turn lock could not be taken within the wait budget.
var ErrLockBusy = errors.New("session is busy")

const releaseTimeout = 5 * time.Second

// releaseScript deletes the lock only while it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// refreshScript extends the lock TTL only while it still holds our token.
var refreshScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

type Options struct {
	Prefix     string
	LockTTL    time.Duration
	LockWait   time.Duration
	SessionTTL time.Duration
}

type SessionStore struct {
	client goredis.UniversalClient
	opts   Options
}

func NewSessionStore(client goredis.UniversalClient, opts Options) *SessionStore {
	if opts.LockTTL <= 0 {
		opts.LockTTL = 3 * time.Minute
	}
	if opts.LockWait <= 0 {
		opts.LockWait = opts.LockTTL
	}
	return &SessionStore{client: client, opts: opts}
}

// NewClient connects and pings; the caller owns the returned client.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (s *SessionStore) sessionKey(userID string) string { return s.opts.Prefix + "session:" + userID }
func (s *SessionStore) lockKey(userID string) string    { return s.opts.Prefix + "lock:" + userID }

func (s *SessionStore) Lock(ctx context.Context, userID string) (func(), error) {
	key := s.lockKey(userID)
	token := uuid.NewString()

	err := retry.NewRetrier(retry.NewPollingConfig(s.opts.LockWait)).Do(ctx, func() error {
		ok, err := s.client.SetNX(ctx, key, token, s.opts.LockTTL).Result()
		if err != nil {
			return retry.Permanent(fmt.Errorf("redis setnx: %w", err))
		}
		if !ok {
			return ErrLockBusy
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", userID, err)
	}

	// The TTL only covers a crashed holder; a live turn keeps extending it.
	stop := keepAlive(ctx, s.opts.LockTTL/3, func(rctx context.Context) (bool, error) {
		n, err := refreshScript.Run(rctx, s.client, []string{key}, token, s.opts.LockTTL.Milliseconds()).Int()
		return n == 1, err
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			stop()
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
			defer cancel()
			if err := releaseScript.Run(rctx, s.client, []string{key}, token).Err(); err != nil {
				log.FromCtx(ctx).Warn().Err(err).Str("key", key).Msg("failed to release session lock")
			}
		})
	}, nil
}

func (s *SessionStore) GetOrCreate(ctx context.Context, userID string) (*core.Session, error) {
	data, err := s.client.Get(ctx, s.sessionKey(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return core.NewSession(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var sess core.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("user_id", userID).Msg("discarding unreadable session")
		return core.NewSession(userID), nil
	}
	if sess.Slots == nil {
		sess.Slots = make(core.Slots)
	}
	sess.UserID = userID
	return &sess, nil
}

func (s *SessionStore) Save(ctx context.Context, session *core.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.sessionKey(session.UserID), data, s.opts.SessionTTL).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}
