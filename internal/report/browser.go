// Package report handles presenting finished experiment artifacts to the
// user.
package report

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenInBrowser makes a best-effort attempt to open the given file with the
// system's default viewer. Callers are expected to log and ignore the
// error; a headless machine is not a failed experiment.
func OpenInBrowser(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	return nil
}
