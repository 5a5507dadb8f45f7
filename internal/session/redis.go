package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	historyPrefix = "chat:history:"
	statePrefix   = "chat:state:"

	probeCooldown = 15 * time.Second
	maxProbes     = 10
)

// RedisStore persists sessions in Redis so multiple workers share history.
// When Redis is unreachable it degrades to an in-memory fallback and probes
// for recovery on subsequent calls, up to maxProbes attempts. Sessions
// accumulated while degraded are migrated back on reconnect, skipping keys
// that already exist remotely.
type RedisStore struct {
	client *redis.Client
	mem    *MemoryStore
	log    *slog.Logger

	mu        sync.Mutex
	degraded  bool
	lastProbe time.Time
	probes    int
}

// NewRedisStore parses a redis:// URL and returns a store. The connection is
// established lazily on first use.
func NewRedisStore(url string, log *slog.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisStore{
		client: redis.NewClient(opt),
		mem:    NewMemoryStore(),
		log:    log.With("component", "session"),
	}, nil
}

// available reports whether Redis should be used for this call. While
// degraded it pings at most once per cooldown window until the probe budget
// runs out.
func (s *RedisStore) available(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.degraded {
		return true
	}
	if s.probes >= maxProbes || time.Since(s.lastProbe) < probeCooldown {
		return false
	}
	s.lastProbe = time.Now()
	s.probes++
	if err := s.client.Ping(ctx).Err(); err != nil {
		s.log.Debug("redis ainda indisponível", "attempt", s.probes, "error", err)
		return false
	}
	s.degraded = false
	s.probes = 0
	s.log.Info("conexão com Redis restabelecida, migrando sessões em memória")
	go s.migrate(context.WithoutCancel(ctx))
	return true
}

func (s *RedisStore) markDown(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.degraded {
		s.degraded = true
		s.probes = 0
		s.lastProbe = time.Now()
		s.log.Warn("Redis indisponível, usando fallback em memória", "error", err)
	}
}

// migrate copies sessions captured while degraded into Redis. Existing keys
// win, the remote copy is assumed fresher.
func (s *RedisStore) migrate(ctx context.Context) {
	history, state := s.mem.snapshot()
	moved := 0
	for id, msgs := range history {
		raw, err := json.Marshal(msgs)
		if err != nil {
			continue
		}
		ok, err := s.client.SetNX(ctx, historyPrefix+id, raw, 0).Result()
		if err != nil {
			s.markDown(err)
			return
		}
		if ok {
			moved++
		}
	}
	for id, st := range state {
		raw, err := json.Marshal(st)
		if err != nil {
			continue
		}
		if err := s.client.SetNX(ctx, statePrefix+id, raw, 0).Err(); err != nil {
			s.markDown(err)
			return
		}
	}
	s.log.Info("migração de sessões concluída", "sessions", len(history), "moved", moved)
}

func (s *RedisStore) setJSON(ctx context.Context, key string, v any) (bool, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return true, err
	}
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		s.markDown(err)
		return false, err
	}
	return true, nil
}

func (s *RedisStore) Create(ctx context.Context, id string, initial []Message) error {
	if initial == nil {
		initial = []Message{}
	}
	if s.available(ctx) {
		if done, err := s.setJSON(ctx, historyPrefix+id, initial); done {
			return err
		}
	}
	return s.mem.Create(ctx, id, initial)
}

func (s *RedisStore) Messages(ctx context.Context, id string) ([]Message, bool, error) {
	if s.available(ctx) {
		raw, err := s.client.Get(ctx, historyPrefix+id).Result()
		switch {
		case err == redis.Nil:
			return nil, false, nil
		case err == nil:
			var msgs []Message
			if json.Unmarshal([]byte(raw), &msgs) != nil {
				return nil, false, nil
			}
			return msgs, true, nil
		default:
			s.markDown(err)
		}
	}
	return s.mem.Messages(ctx, id)
}

func (s *RedisStore) SetMessages(ctx context.Context, id string, messages []Message) error {
	if s.available(ctx) {
		if done, err := s.setJSON(ctx, historyPrefix+id, messages); done {
			return err
		}
	}
	return s.mem.SetMessages(ctx, id, messages)
}

func (s *RedisStore) Append(ctx context.Context, id, role, content string) error {
	msgs, _, err := s.Messages(ctx, id)
	if err != nil {
		return err
	}
	msgs = append(msgs, Message{Role: role, Content: content})
	return s.SetMessages(ctx, id, msgs)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if s.available(ctx) {
		err := s.client.Del(ctx, historyPrefix+id, statePrefix+id).Err()
		if err == nil {
			return nil
		}
		s.markDown(err)
	}
	return s.mem.Delete(ctx, id)
}

func (s *RedisStore) SetState(ctx context.Context, id string, state State) error {
	if s.available(ctx) {
		if done, err := s.setJSON(ctx, statePrefix+id, state); done {
			return err
		}
	}
	return s.mem.SetState(ctx, id, state)
}

func (s *RedisStore) State(ctx context.Context, id string) (State, bool, error) {
	if s.available(ctx) {
		raw, err := s.client.Get(ctx, statePrefix+id).Result()
		switch {
		case err == redis.Nil:
			return State{}, false, nil
		case err == nil:
			var st State
			if json.Unmarshal([]byte(raw), &st) != nil {
				return State{}, false, nil
			}
			return st, true, nil
		default:
			s.markDown(err)
		}
	}
	return s.mem.State(ctx, id)
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	if s.available(ctx) {
		var ids []string
		iter := s.client.Scan(ctx, 0, historyPrefix+"*", 0).Iterator()
		for iter.Next(ctx) {
			key := iter.Val()
			parts := strings.SplitN(key, ":", 3)
			if len(parts) == 3 {
				ids = append(ids, parts[2])
			}
		}
		if err := iter.Err(); err != nil {
			s.markDown(err)
		} else {
			return ids, nil
		}
	}
	return s.mem.List(ctx)
}

func (s *RedisStore) ClearAll(ctx context.Context) (int, error) {
	if s.available(ctx) {
		count := 0
		failed := false
		for _, prefix := range []string{historyPrefix, statePrefix} {
			iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
			for iter.Next(ctx) {
				if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
					continue
				}
				count++
			}
			if err := iter.Err(); err != nil {
				s.markDown(err)
				failed = true
				break
			}
		}
		if !failed {
			return count, nil
		}
	}
	return s.mem.ClearAll(ctx)
}
