/*
Package redisstore caches trained trees in a redis DB under a key prefix, so
they can be shared between processes without going through files.
*/
package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/pbanos/arbor/feature"
	"github.com/pbanos/arbor/tree"
	"github.com/pbanos/arbor/tree/json"
	"gopkg.in/redis.v5"
)

// ErrNotFound is returned by Load when no tree is stored under a name.
const ErrNotFound = storeError("tree not found")

type storeError string

func (se storeError) Error() string {
	return string(se)
}

/*
Store saves and loads encoded trees on a redis DB.
*/
type Store struct {
	rc     *redis.Client
	prefix string
	ttl    time.Duration
}

// New returns a Store on the given client that keeps trees under keys with
// the given prefix. Trees expire after ttl, a zero ttl keeps them forever.
func New(rc *redis.Client, prefix string, ttl time.Duration) *Store {
	return &Store{rc, prefix, ttl}
}

/*
NewFromURL takes a redis URL (like redis://localhost:6379/0) and returns a
Store on a new client for it, or an error if the URL cannot be parsed.
*/
func NewFromURL(url, prefix string, ttl time.Duration) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL %q: %v", url, err)
	}
	return New(redis.NewClient(opts), prefix, ttl), nil
}

/*
Save encodes the given tree and label as JSON and stores it under the given
name, replacing any tree previously stored with it.
*/
func (s *Store) Save(ctx context.Context, name string, t *tree.Tree, label string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	data, err := json.Marshal(t, label)
	if err != nil {
		return fmt.Errorf("storing tree %q: encoding tree: %w", name, err)
	}
	key := s.keyFor(name)
	_, err = s.rc.Set(key, data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("storing tree %q in redis: %v", key, err)
	}
	return nil
}

/*
Load retrieves the tree stored under the given name and returns it along
with its label. Features named in the stored tree are looked up among the
given ones. It returns ErrNotFound if there is no such tree.
*/
func (s *Store) Load(ctx context.Context, name string, features []feature.Feature, options ...tree.Option) (*tree.Tree, string, error) {
	if ctx.Err() != nil {
		return nil, "", ctx.Err()
	}
	key := s.keyFor(name)
	data, err := s.rc.Get(key).Bytes()
	if err == redis.Nil {
		return nil, "", fmt.Errorf("retrieving tree %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("retrieving tree %q: %v", key, err)
	}
	t, label, err := json.Unmarshal(data, features, options...)
	if err != nil {
		return nil, "", fmt.Errorf("retrieving tree %q: decoding: %w", key, err)
	}
	return t, label, nil
}

// Delete removes the tree stored under the given name, if any.
func (s *Store) Delete(ctx context.Context, name string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	key := s.keyFor(name)
	_, err := s.rc.Del(key).Result()
	if err != nil {
		return fmt.Errorf("deleting tree %q from redis: %v", key, err)
	}
	return nil
}

// Close closes the underlying redis client.
func (s *Store) Close() error {
	return s.rc.Close()
}

func (s *Store) keyFor(name string) string {
	return fmt.Sprintf("%s:%s", s.prefix, name)
}
