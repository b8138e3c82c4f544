package extract

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/johanvictor/FinDocAPI/pkg/logger_i"
)

// Runner lets us stub the external binaries (tesseract, pdftoppm, the table
// detector) in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	log := logger_i.NewLogger("exec")

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	if err != nil {
		log.Error("external command failed", "cmd", name, "error", err, "stderr", truncate(errb.String(), 8<<10))
	} else {
		log.Debug("external command ok", "cmd", name, "stdout_bytes", out.Len())
	}
	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
