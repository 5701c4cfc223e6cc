package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/customer-directory/customer-api/internal/core/domain"
	"github.com/customer-directory/customer-api/internal/core/ports"
	"github.com/customer-directory/customer-api/internal/infrastructure/db/storetest"
)

func TestUpdateDoc(t *testing.T) {
	got := updateDoc(domain.CustomerPatch{
		Email:        domain.Set("new@example.com"),
		Age:          domain.Set(0),
		PasswordHash: domain.Clear[string](),
	})

	assert.Equal(t, bson.M{
		"$set":   bson.M{"email": "new@example.com", "age": 0},
		"$unset": bson.M{"password": ""},
	}, got)
}

func TestUpdateDocOmitsEmptyOperators(t *testing.T) {
	got := updateDoc(domain.CustomerPatch{Name: domain.Set("Ada")})

	assert.Equal(t, bson.M{"$set": bson.M{"name": "Ada"}}, got)
}

// Set TEST_MONGO_URI to a disposable server to run these tests.
func TestCustomerRepository_Conformance(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	client, _, err := Connect(ctx, Config{URI: uri, Database: "customers_test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	n := 0
	storetest.Run(t, func(t *testing.T) ports.CustomerRepository {
		n++
		db := client.Database(fmt.Sprintf("customers_test_%d_%d", time.Now().UnixNano(), n))
		t.Cleanup(func() { _ = db.Drop(context.Background()) })
		require.NoError(t, EnsureIndexes(ctx, db))
		return NewCustomerRepository(db, zerolog.Nop())
	})
}
