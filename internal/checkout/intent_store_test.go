package checkout_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"ms-storefront/internal/checkout"
	"ms-storefront/internal/models"
)

// TestRedisIntentStoreIntegration exercises the intent store against a real
// Redis container
func TestRedisIntentStoreIntegration(t *testing.T) {
	// Skip if short test mode
	if testing.Short() {
		t.Skip("Skipping Redis integration test in short mode")
	}

	// Start a Redis container
	ctx := context.Background()
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:latest",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})

	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	defer redisContainer.Terminate(ctx)

	host, err := redisContainer.Host(ctx)
	require.NoError(t, err)

	port, err := redisContainer.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port.Port(),
		Password: "",
		DB:       0,
	})

	store := checkout.NewRedisIntentStore(client, 2*time.Second)

	intent := models.CheckoutIntent{
		EventID:   "jazz-night",
		Tier:      models.TierVIP,
		Quantity:  2,
		Total:     5000,
		CreatedAt: time.Now(),
	}

	// Save and read back
	err = store.SaveIntent(ctx, "session-1", intent)
	require.NoError(t, err)

	got, err := store.GetIntent(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, intent.EventID, got.EventID)
	assert.Equal(t, intent.Tier, got.Tier)
	assert.Equal(t, intent.Quantity, got.Quantity)
	assert.Equal(t, intent.Total, got.Total)

	// Saving again overwrites the single slot
	intent.Quantity = 4
	intent.Total = 10000
	err = store.SaveIntent(ctx, "session-1", intent)
	require.NoError(t, err)

	got, err = store.GetIntent(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)

	// Other sessions see nothing
	_, err = store.GetIntent(ctx, "session-2")
	assert.True(t, errors.Is(err, checkout.ErrNoActiveCheckout), "Expected ErrNoActiveCheckout for a fresh session")

	// Delete clears the slot
	err = store.DeleteIntent(ctx, "session-1")
	require.NoError(t, err)

	_, err = store.GetIntent(ctx, "session-1")
	assert.True(t, errors.Is(err, checkout.ErrNoActiveCheckout), "Expected ErrNoActiveCheckout after delete")

	// The slot expires on its own
	err = store.SaveIntent(ctx, "session-3", intent)
	require.NoError(t, err)

	time.Sleep(3 * time.Second)

	_, err = store.GetIntent(ctx, "session-3")
	assert.True(t, errors.Is(err, checkout.ErrNoActiveCheckout), "Expected intent to expire with its TTL")
}
