package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/wallet-resources/internal/domain"
	"github.com/bnema/wallet-resources/internal/ports"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultKeyPrefix = "wr:account:"
	updatesChannel   = "wr.accounts"
)

var ErrEmptyURL = errors.New("redis url is empty")

// Store keeps account records as JSON strings under a key prefix and
// announces every write on a pub/sub channel.
type Store struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ ports.AccountStore = (*Store)(nil)

type Option func(*Store)

func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTTL expires records after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

func NewStore(client redis.UniversalClient, opts ...Option) *Store {
	store := &Store{client: client, prefix: DefaultKeyPrefix}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// ClientFromURL accepts redis:// and rediss:// URLs, plus
// redis+sentinel://host1,host2/master for failover setups.
func ClientFromURL(rawURL string) (redis.UniversalClient, error) {
	if rawURL == "" {
		return nil, ErrEmptyURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if parsed.Scheme == "redis+sentinel" {
		master := strings.Trim(parsed.Path, "/")
		if master == "" {
			return nil, fmt.Errorf("parse redis url: sentinel master name missing")
		}
		password, _ := parsed.User.Password()
		return redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    master,
			SentinelAddrs: strings.Split(parsed.Host, ","),
			Username:      parsed.User.Username(),
			Password:      password,
		}), nil
	}

	options, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	return redis.NewClient(options), nil
}

type recordPayload struct {
	Account domain.Account `json:"account"`
	Updated time.Time      `json:"updated"`
}

func (s *Store) Get(ctx context.Context, key string) (domain.AccountRecord, error) {
	payload, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.AccountRecord{}, domain.ErrAccountNotFound
		}
		return domain.AccountRecord{}, fmt.Errorf("redis get %s: %w", key, err)
	}

	var decoded recordPayload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return domain.AccountRecord{}, fmt.Errorf("decode redis record %s: %w", key, err)
	}

	return domain.AccountRecord{Account: decoded.Account, Updated: decoded.Updated}, nil
}

func (s *Store) Put(ctx context.Context, key string, record domain.AccountRecord) error {
	payload, err := json.Marshal(recordPayload{Account: record.Account, Updated: record.Updated.UTC()})
	if err != nil {
		return fmt.Errorf("encode redis record %s: %w", key, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.prefix+key, payload, s.ttl)
	pipe.Publish(ctx, updatesChannel, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis put %s: %w", key, err)
	}

	return nil
}

// Updates streams the keys of records written by any process sharing this
// Redis instance until ctx is done.
func (s *Store) Updates(ctx context.Context) <-chan string {
	pubsub := s.client.Subscribe(ctx, updatesChannel)
	out := make(chan string)

	go func() {
		defer close(out)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

func (s *Store) Close() error {
	return s.client.Close()
}
