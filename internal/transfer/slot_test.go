package transfer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutAndGet(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	err := store.Put(ctx, "job-to-house", map[string]string{"job_no": "AIR-1001"})
	require.NoError(t, err)

	snap, ok := store.Get(ctx, "job-to-house")
	require.True(t, ok)
	require.Equal(t, "AIR-1001", snap["job_no"])
}

func TestGetMissingKey(t *testing.T) {
	store := NewStore(nil)

	snap, ok := store.Get(context.Background(), "nothing-here")
	require.False(t, ok)
	require.Nil(t, snap)
}

func TestPutFullyReplaces(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "slot", map[string]string{
		"job_no":       "AIR-1001",
		"shipper_name": "Acme Exports",
	}))
	require.NoError(t, store.Put(ctx, "slot", map[string]string{
		"job_no": "AIR-2002",
	}))

	snap, ok := store.Get(ctx, "slot")
	require.True(t, ok)
	require.Equal(t, "AIR-2002", snap["job_no"])
	// The old snapshot's fields do not survive the replacement.
	_, hasShipper := snap["shipper_name"]
	require.False(t, hasShipper)
}

func TestGetReturnsSnapshotNotLiveReference(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	original := map[string]string{"shipper_name": "Acme Exports"}
	require.NoError(t, store.Put(ctx, "slot", original))

	// Mutating the caller's map after Put must not affect the stored value.
	original["shipper_name"] = "Changed Later"

	snap, ok := store.Get(ctx, "slot")
	require.True(t, ok)
	require.Equal(t, "Acme Exports", snap["shipper_name"])

	// Mutating a read snapshot must not affect subsequent reads.
	snap["shipper_name"] = "Mutated Copy"
	again, ok := store.Get(ctx, "slot")
	require.True(t, ok)
	require.Equal(t, "Acme Exports", again["shipper_name"])
}

func TestClear(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "slot", map[string]string{"job_no": "AIR-1001"}))
	store.Clear(ctx, "slot")

	_, ok := store.Get(ctx, "slot")
	require.False(t, ok)
}
