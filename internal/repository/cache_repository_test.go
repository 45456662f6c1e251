package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/sat-tum/kaiyo-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "kaiyo", nil)
	var dest map[string]int

	err := repo.Get(context.Background(), "progress:s1:Grade2", &dest)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
	require.NoError(t, repo.Set(context.Background(), "progress:s1:Grade2", map[string]int{"a": 1}, time.Minute))
	require.NoError(t, repo.DeleteByPattern(context.Background(), "progress:s1:*"))
	require.NoError(t, repo.Close())
}

func TestCacheRepositoryKeyNamespace(t *testing.T) {
	assert.Equal(t, "kaiyo:progress:s1:Grade2", NewCacheRepository(nil, "kaiyo", nil).key("progress:s1:Grade2"))
	assert.Equal(t, "progress:s1:Grade2", NewCacheRepository(nil, "", nil).key("progress:s1:Grade2"))
}
