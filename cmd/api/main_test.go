package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appconfig "github.com/wolfman30/autocare-booking/internal/config"
	"github.com/wolfman30/autocare-booking/internal/notify"
	"github.com/wolfman30/autocare-booking/internal/session"
	"github.com/wolfman30/autocare-booking/pkg/logging"
)

func TestBuildSessionStoreMemory(t *testing.T) {
	cfg := &appconfig.Config{SessionStore: "memory", SessionIdleTTL: time.Hour}
	store, client, err := buildSessionStore(context.Background(), cfg, logging.New("error"))
	require.NoError(t, err)
	assert.Nil(t, client)
	assert.IsType(t, &session.MemoryStore{}, store)
}

func TestBuildSessionStoreRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &appconfig.Config{SessionStore: "redis", RedisAddr: mr.Addr(), SessionIdleTTL: time.Hour}

	store, client, err := buildSessionStore(context.Background(), cfg, logging.New("error"))
	require.NoError(t, err)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })
	assert.IsType(t, &session.RedisStore{}, store)
}

func TestBuildSessionStoreRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := &appconfig.Config{SessionStore: "redis", RedisAddr: addr, SessionIdleTTL: time.Hour}
	_, _, err := buildSessionStore(context.Background(), cfg, logging.New("error"))
	assert.Error(t, err)
}

func TestBuildSessionStoreUnknown(t *testing.T) {
	cfg := &appconfig.Config{SessionStore: "etcd"}
	_, _, err := buildSessionStore(context.Background(), cfg, logging.New("error"))
	assert.ErrorContains(t, err, "etcd")
}

func TestBuildEmailSender(t *testing.T) {
	logger := logging.New("error")
	ctx := context.Background()

	sender, err := buildEmailSender(ctx, &appconfig.Config{EmailProvider: "stub"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &notify.StubEmailSender{}, sender)

	sender, err = buildEmailSender(ctx, &appconfig.Config{EmailProvider: "sendgrid"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &notify.StubEmailSender{}, sender, "unconfigured sendgrid falls back to stub")

	sender, err = buildEmailSender(ctx, &appconfig.Config{
		EmailProvider:  "sendgrid",
		SendGridAPIKey: "SG.test",
		EmailFrom:      "bookings@example.com",
	}, logger)
	require.NoError(t, err)
	assert.IsType(t, &notify.SendGridSender{}, sender)

	sender, err = buildEmailSender(ctx, &appconfig.Config{
		EmailProvider:      "ses",
		EmailFrom:          "bookings@example.com",
		AWSRegion:          "ap-south-1",
		AWSAccessKeyID:     "test",
		AWSSecretAccessKey: "test",
	}, logger)
	require.NoError(t, err)
	assert.IsType(t, &notify.SESSender{}, sender)

	_, err = buildEmailSender(ctx, &appconfig.Config{EmailProvider: "pigeon"}, logger)
	assert.Error(t, err)
}

func TestLoadCatalogDefaultsWithoutPath(t *testing.T) {
	ref, err := loadCatalog(context.Background(), &appconfig.Config{})
	require.NoError(t, err)
	assert.NotEmpty(t, ref.Brands)
}
