package policies

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStagingPolicyResolve(t *testing.T) {
	root := t.TempDir()
	policy, err := NewStagingPolicy(root)
	require.NoError(t, err)

	path, err := policy.Resolve("etc/rc.d/salt-monitor")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "etc", "rc.d", "salt-monitor"), path)
}

func TestStagingPolicyRejectsAbsolutePath(t *testing.T) {
	policy, err := NewStagingPolicy(t.TempDir())
	require.NoError(t, err)
	_, err = policy.Resolve("/etc/passwd")
	require.Error(t, err)
}

func TestStagingPolicyRejectsEscape(t *testing.T) {
	policy, err := NewStagingPolicy(t.TempDir())
	require.NoError(t, err)
	_, err = policy.Resolve("../outside")
	require.Error(t, err)
	_, err = policy.Resolve("etc/../../outside")
	require.Error(t, err)
}

func TestStagingPolicyRequiresRoot(t *testing.T) {
	_, err := NewStagingPolicy("  ")
	require.Error(t, err)
}

func TestStagingPolicyServiceDir(t *testing.T) {
	root := t.TempDir()
	policy, err := NewStagingPolicy(root)
	require.NoError(t, err)
	dir, err := policy.ServiceDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "etc", "rc.d"), dir)
}
