package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/scam-service/internal/domain/model"
	"github.com/bibbank/scam-service/internal/domain/valueobject"
)

type fakeStore struct {
	data   map[string]string
	getErr error
	setErr error
	ttls   map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeStore) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeStore) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

type countingURLProvider struct {
	calls int
	sig   *model.URLSignal
	err   error
}

func (p *countingURLProvider) CheckURL(context.Context, string) (*model.URLSignal, error) {
	p.calls++
	return p.sig, p.err
}

type countingPhoneProvider struct {
	calls int
	sig   *model.PhoneSignal
	err   error
}

func (p *countingPhoneProvider) LookupPhone(context.Context, string) (*model.PhoneSignal, error) {
	p.calls++
	return p.sig, p.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestURLReputationCache_ReadThrough(t *testing.T) {
	store := newFakeStore()
	next := &countingURLProvider{sig: &model.URLSignal{IsSafe: false, ThreatType: "SOCIAL_ENGINEERING"}}
	c := NewURLReputationCache(next, store, time.Hour, discardLogger())

	first, err := c.CheckURL(context.Background(), "https://bad.example")
	require.NoError(t, err)
	second, err := c.CheckURL(context.Background(), "https://bad.example")
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, "SOCIAL_ENGINEERING", second.ThreatType)

	key := cacheKey(urlKeyPrefix, "https://bad.example")
	assert.Equal(t, time.Hour, store.ttls[key])
}

func TestURLReputationCache_DoesNotCacheFailures(t *testing.T) {
	store := newFakeStore()
	next := &countingURLProvider{err: fmt.Errorf("quota exceeded")}
	c := NewURLReputationCache(next, store, time.Hour, discardLogger())

	_, err := c.CheckURL(context.Background(), "https://a.example")
	require.Error(t, err)
	_, err = c.CheckURL(context.Background(), "https://a.example")
	require.Error(t, err)

	assert.Equal(t, 2, next.calls)
	assert.Empty(t, store.data)
}

func TestURLReputationCache_StoreFaultsAreBypassed(t *testing.T) {
	store := newFakeStore()
	store.getErr = fmt.Errorf("connection refused")
	store.setErr = fmt.Errorf("connection refused")
	next := &countingURLProvider{sig: &model.URLSignal{IsSafe: true}}
	c := NewURLReputationCache(next, store, time.Hour, discardLogger())

	sig, err := c.CheckURL(context.Background(), "https://ok.example")

	require.NoError(t, err)
	assert.True(t, sig.IsSafe)
	assert.Equal(t, 1, next.calls)
}

func TestURLReputationCache_CorruptEntryIsMiss(t *testing.T) {
	store := newFakeStore()
	store.data[cacheKey(urlKeyPrefix, "https://x.example")] = "{corrupt"
	next := &countingURLProvider{sig: &model.URLSignal{IsSafe: true}}
	c := NewURLReputationCache(next, store, time.Hour, discardLogger())

	sig, err := c.CheckURL(context.Background(), "https://x.example")

	require.NoError(t, err)
	assert.True(t, sig.IsSafe)
	assert.Equal(t, 1, next.calls)
}

func TestPhoneReputationCache_ReadThrough(t *testing.T) {
	store := newFakeStore()
	next := &countingPhoneProvider{sig: &model.PhoneSignal{Valid: true, LineType: valueobject.LineTypeVoIP, Carrier: "X"}}
	c := NewPhoneReputationCache(next, store, time.Minute, discardLogger())

	_, err := c.LookupPhone(context.Background(), "+886912345678")
	require.NoError(t, err)
	sig, err := c.LookupPhone(context.Background(), "+886912345678")
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, valueobject.LineTypeVoIP, sig.LineType)

	var stored model.PhoneSignal
	require.NoError(t, json.Unmarshal([]byte(store.data[cacheKey(phoneKeyPrefix, "+886912345678")]), &stored))
	assert.True(t, stored.Valid)
}

func TestPhoneReputationCache_DoesNotCacheFailures(t *testing.T) {
	store := newFakeStore()
	next := &countingPhoneProvider{err: fmt.Errorf("401")}
	c := NewPhoneReputationCache(next, store, time.Minute, discardLogger())

	_, err := c.LookupPhone(context.Background(), "+886912345678")

	require.Error(t, err)
	assert.Empty(t, store.data)
}
