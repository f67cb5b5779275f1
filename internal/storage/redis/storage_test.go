package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestIncrementSetsExpiryOnFirstHit() {
	count, resetIn, err := s.storage.Increment(s.ctx, "1.2.3.4", time.Minute)
	s.Require().NoError(err)
	s.Equal(int64(1), count)
	s.Equal(time.Minute, resetIn)

	s.True(s.mini.Exists("ows:ratelimit:1.2.3.4"))
	s.Equal(time.Minute, s.mini.TTL("ows:ratelimit:1.2.3.4"))
}

func (s *StorageSuite) TestIncrementKeepsWindow() {
	_, _, err := s.storage.Increment(s.ctx, "k", time.Minute)
	s.Require().NoError(err)

	s.mini.FastForward(15 * time.Second)

	count, resetIn, err := s.storage.Increment(s.ctx, "k", time.Minute)
	s.Require().NoError(err)
	s.Equal(int64(2), count)
	s.Equal(45*time.Second, resetIn)
}

func (s *StorageSuite) TestWindowExpires() {
	_, _, err := s.storage.Increment(s.ctx, "k", time.Minute)
	s.Require().NoError(err)

	s.mini.FastForward(time.Minute)
	s.False(s.mini.Exists("ows:ratelimit:k"))

	count, _, err := s.storage.Increment(s.ctx, "k", time.Minute)
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *StorageSuite) TestReset() {
	_, _, err := s.storage.Increment(s.ctx, "k", time.Minute)
	s.Require().NoError(err)

	s.Require().NoError(s.storage.Reset(s.ctx, "k"))
	s.False(s.mini.Exists("ows:ratelimit:k"))
}

func (s *StorageSuite) TestNewPingsServer() {
	cfg := DefaultConfig()
	cfg.URL = "redis://" + s.mini.Addr()

	st, err := New(cfg)
	s.Require().NoError(err)
	s.Require().NoError(st.Close())
}

func (s *StorageSuite) TestNewRejectsBadURL() {
	cfg := DefaultConfig()
	cfg.URL = "not-a-url"

	_, err := New(cfg)
	s.Error(err)
}
