package util

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("CARDSTACK_TEST_VALUE", "")
	assert.Equal(t, "fallback", EnvOrDefault("CARDSTACK_TEST_VALUE", "fallback"))

	t.Setenv("CARDSTACK_TEST_VALUE", "set")
	assert.Equal(t, "set", EnvOrDefault("CARDSTACK_TEST_VALUE", "fallback"))
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/deck")

	assert.Equal(t, filepath.Join("/home/deck", ".cardstack", "db"), ExpandHome("~/.cardstack/db"))
	assert.Equal(t, "/home/deck", ExpandHome("~"))
	assert.Equal(t, "data/cardstack.db", ExpandHome("data/cardstack.db"))
	assert.Equal(t, "~user/db", ExpandHome("~user/db"))
}
