package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// openCommands maps GOOS values to the command that hands a URL to the desktop.
var openCommands = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"windows": {"cmd", "/c", "start"},
}

// OpenBrowser launches the default browser at url. Used by the sign-in flow to
// send the user to the identity provider's consent page.
func OpenBrowser(url string) error {
	argv, ok := openCommands[runtime.GOOS]
	if !ok {
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	cmd := exec.Command(argv[0], append(argv[1:], url)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
