package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAdminIDs(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 3}, ParseAdminIDs("1,2,3"))
	assert.Equal(t, []int64{1, 3}, ParseAdminIDs(" 1 , junk , 3 "))
	assert.Empty(t, ParseAdminIDs(""))
	assert.Empty(t, ParseAdminIDs(" , , "))
}

func TestIsSuperAdmin(t *testing.T) {
	cfg := &Config{SuperAdmins: []int64{10, 20}}
	assert.True(t, cfg.IsSuperAdmin(10))
	assert.False(t, cfg.IsSuperAdmin(30))
}

func TestParseAppEnv(t *testing.T) {
	env, err := ParseAppEnv("production")
	assert.NoError(t, err)
	assert.Equal(t, AppEnvProduction, env)

	_, err = ParseAppEnv("nonsense")
	assert.Error(t, err)
}
