package cache

import (
	"testing"

	"detran-quiz/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	opt, err := Options(config.RedisConfig{Address: "localhost:6379", Password: "secret", DB: 2})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opt.Addr)
	assert.Equal(t, "secret", opt.Password)
	assert.Equal(t, 2, opt.DB)

	opt, err = Options(config.RedisConfig{Address: "redis://:fromurl@cache:6380/3", Password: "ignored", DB: 1})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opt.Addr)
	assert.Equal(t, "fromurl", opt.Password)
	assert.Equal(t, 3, opt.DB)

	opt, err = Options(config.RedisConfig{Address: "redis://cache:6380", Password: "secret", DB: 4})
	require.NoError(t, err)
	assert.Equal(t, "secret", opt.Password)
	assert.Equal(t, 4, opt.DB)

	_, err = Options(config.RedisConfig{})
	assert.Error(t, err)
	_, err = Options(config.RedisConfig{Address: "http://cache:6379"})
	assert.Error(t, err)
}
