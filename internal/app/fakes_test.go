package app_test

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"concierge/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	mu      sync.Mutex
	rows    map[string]domain.Property
	lookups int
	err     error
}

func newFakeRepo() *fakeRepo { return &fakeRepo{rows: map[string]domain.Property{}} }

func (f *fakeRepo) Register(ctx context.Context, p domain.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[p.Phone]; ok {
		return domain.ErrDuplicateKey
	}
	f.rows[p.Phone] = p
	return nil
}

func (f *fakeRepo) Lookup(ctx context.Context, phone string) (domain.Property, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return domain.Property{}, false, f.err
	}
	p, ok := f.rows[phone]
	return p, ok, nil
}

type fakeCompleter struct {
	mu     sync.Mutex
	out    string
	err    error
	delay  time.Duration
	calls  int
	system string
	user   string
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.system, f.user = system, user
	out, err, delay := f.out, f.err, f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
	return out, err
}

func (f *fakeCompleter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeCache round-trips through JSON like the Redis adapter does.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

func sampleProperty(phone string) domain.Property {
	return domain.Property{
		Phone: phone,
		Values: map[domain.FieldKey]string{
			domain.FieldWifi:            "Network: BeachHouse / Password: sandcastle",
			domain.FieldCheckIn:         "3:00 PM",
			domain.FieldCheckout:        "11:00 AM",
			domain.FieldRecommendations: "Try the taco stand on 5th.",
		},
	}
}
