package installer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/nestedlab/vlabctl/internal/plan"
	"github.com/nestedlab/vlabctl/internal/runlog"
)

// Fixed installer flags. TLS verification of the source host is skipped
// because lab endpoints run self-signed certificates; the license is
// accepted non-interactively; the data-collection acknowledgement flag
// only exists in the current schema generation.
const (
	flagSkipTLSVerify = "--no-ssl-certificate-verification"
	flagAcceptLicense = "--accept-eula"
	flagAckCEIP       = "--acknowledge-ceip"
)

// Runner invokes the appliance installer executable as a blocking
// subprocess, capturing all of its output into the run log.
type Runner struct {
	// Binary is the installer executable path inside the install media.
	Binary string
	Log    *runlog.Logger

	// tempDir and command are injection points for tests.
	tempDir string
	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewRunner builds a Runner for the installer binary at path.
func NewRunner(binary string, log *runlog.Logger) *Runner {
	return &Runner{
		Binary:  binary,
		Log:     log,
		tempDir: os.TempDir(),
		command: exec.CommandContext,
	}
}

// Run renders doc to a uniquely named temporary file, invokes the
// installer against it and waits for completion. The rendered file holds
// credentials, so it is removed unconditionally, success or failure.
func (r *Runner) Run(ctx context.Context, doc Document) error {
	data, err := doc.Render()
	if err != nil {
		return fmt.Errorf("failed to render installer config: %w", err)
	}

	path := filepath.Join(r.tempDir, fmt.Sprintf("appliance-install-%s.json", uuid.NewString()))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write installer config: %w", err)
	}
	defer func() {
		_ = os.Remove(path)
	}()

	args := []string{"install", path, flagSkipTLSVerify, flagAcceptLicense}
	if doc.KeySet == plan.KeySetCurrent {
		args = append(args, flagAckCEIP)
	}

	r.Log.Printf("invoking appliance installer: %s %s", r.Binary, argsForLog(args, path))

	cmd := r.command(ctx, r.Binary, args...)
	cmd.Stdout = r.Log.Writer()
	cmd.Stderr = r.Log.Writer()

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("appliance installer failed: %w", err)
	}

	r.Log.Printf("appliance installer completed")
	return nil
}

// argsForLog masks the config file path's directory component; the file
// is transient and its full path is noise in the log.
func argsForLog(args []string, path string) string {
	out := ""
	for i, a := range args {
		if a == path {
			a = filepath.Base(path)
		}
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}
