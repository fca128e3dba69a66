package version

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentIsSemverWithoutVPrefix(t *testing.T) {
	t.Parallel()

	semver := regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+$`)
	assert.True(t, semver.MatchString(Current), "Current=%q must match <major>.<minor>.<patch>", Current)
}
