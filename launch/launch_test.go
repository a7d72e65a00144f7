package launch

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	launcher := New()

	tests := []struct {
		name    string
		command string
		wantErr error
	}{
		{"plain command", "firefox", nil},
		{"command with args", "nautilus --new-window /home", nil},
		{"empty", "", ErrEmptyCommand},
		{"whitespace only", "   ", ErrEmptyCommand},
		{"recursive delete", "rm -rf /", ErrUnsafeCommand},
		{"fork bomb", ":(){:|:&};:", ErrUnsafeCommand},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := launcher.Validate(test.command)
			if test.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, test.wantErr)
			}
		})
	}
}

func TestLaunch(t *testing.T) {
	launcher := New()

	require.NoError(t, launcher.Launch("true"))
}

func TestLaunch_QuotedArguments(t *testing.T) {
	launcher := New()

	// Quoted arguments must survive splitting as single arguments.
	require.NoError(t, launcher.Launch(`sh -c "exit 0"`))
}

func TestLaunch_CommandNotFound(t *testing.T) {
	launcher := New()

	err := launcher.Launch("definitely-not-an-installed-binary-xyz")
	assert.Error(t, err)
}

func TestLaunch_UnbalancedQuotes(t *testing.T) {
	launcher := New()

	err := launcher.Launch(`sh -c "unterminated`)
	assert.Error(t, err)
}

func TestLaunch_RefusesInvalid(t *testing.T) {
	launcher := New()

	assert.ErrorIs(t, launcher.Launch(""), ErrEmptyCommand)
	assert.ErrorIs(t, launcher.Launch("rm -rf /tmp/x"), ErrUnsafeCommand)
}

func TestLaunch_ReapsChildren(t *testing.T) {
	launcher := New()

	for i := 0; i < 5; i++ {
		require.NoError(t, launcher.Launch("true"))
	}

	// Exit statuses are collected in the background; the children must not
	// stay around as zombies.
	assert.Eventually(t, func() bool {
		return len(zombieChildren(t)) == 0
	}, 2*time.Second, 50*time.Millisecond)
}

// zombieChildren returns the PIDs of children of this process in state Z.
func zombieChildren(t *testing.T) []int {
	t.Helper()

	self := os.Getpid()

	entries, err := os.ReadDir("/proc")
	require.NoError(t, err)

	var zombies []int

	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}

		stat, err := os.ReadFile(filepath.Join("/proc", entry.Name(), "stat"))
		if err != nil {
			continue
		}

		// Fields after the parenthesized comm: state, then ppid.
		end := strings.LastIndexByte(string(stat), ')')
		if end < 0 {
			continue
		}

		fields := strings.Fields(string(stat[end+1:]))
		if len(fields) < 2 {
			continue
		}

		ppid, err := strconv.Atoi(fields[1])
		if err != nil || ppid != self {
			continue
		}

		if fields[0] == "Z" {
			zombies = append(zombies, pid)
		}
	}

	return zombies
}
