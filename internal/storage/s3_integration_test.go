//go:build integration

package storage

import (
	"context"
	"testing"

	"github.com/cloo-solutions/chavis/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Client_PutGet(t *testing.T) {
	ctx := context.Background()
	rc := testutil.NewRustFSContainer(ctx, t)
	defer rc.Terminate(ctx)

	client, err := NewS3Client(ctx, S3ClientConfig{
		Endpoint:        rc.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     testutil.RustFSAccessKey,
		SecretAccessKey: testutil.RustFSSecretKey,
		Bucket:          "chavis-test",
		Prefix:          "tenant-a",
		UsePathStyle:    true,
	})
	require.NoError(t, err)
	require.NoError(t, client.EnsureBucket(ctx))

	_, err = client.Get(ctx, "knowledge.json")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	require.NoError(t, client.Put(ctx, "knowledge.json", []byte(`[{"id":"1"}]`)))
	require.NoError(t, client.Put(ctx, "knowledge.json", []byte(`[{"id":"1"},{"id":"2"}]`)))

	data, err := client.Get(ctx, "knowledge.json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"},{"id":"2"}]`, string(data))
}
