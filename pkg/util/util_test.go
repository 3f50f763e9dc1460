package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInPlaceFilter(t *testing.T) {
	values := []int{1, 2, 3, 4, 5}
	InPlaceFilter(&values, func(v int) bool { return v%2 == 1 })

	assert.Equal(t, []int{1, 3, 5}, values)
}

func TestTrimString(t *testing.T) {
	assert.Equal(t, "abc", TrimString("abcdef", 3))
	assert.Equal(t, "ab", TrimString("ab", 3))
}

func TestEnvironment(t *testing.T) {
	t.Setenv("TRIPPLANNER_TEST_FLAG", "yes")
	t.Setenv("TRIPPLANNER_TEST_VALUE", "a=b")

	env := GetEnvironmentVariables()
	assert.Equal(t, "a=b", env["TRIPPLANNER_TEST_VALUE"])
	assert.True(t, EnvironmentFlag(env, "TRIPPLANNER_TEST_FLAG"))
	assert.False(t, EnvironmentFlag(env, "TRIPPLANNER_TEST_MISSING"))
}
