package gitcli

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandContext can be swapped out in tests.
var CommandContext = exec.CommandContext

func (g *Git) call(ctx context.Context, args []string) ([]byte, error) {
	g.cfg.Debugf("+ git %s", argsString(args))
	cmd := CommandContext(ctx, "git", args...)
	cmd.Dir = g.wd

	ob := &bytes.Buffer{}
	eb := &bytes.Buffer{}
	cmd.Stdout = ob
	cmd.Stderr = eb

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("exec: git %q failed: %s (%w)", args, eb.String(), err)
	}
	return ob.Bytes(), nil
}

// argsString renders args so they can be copy/pasted into a terminal.
func argsString(args []string) string {
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteString(" ")
		}
		if strings.Contains(arg, " ") {
			b.WriteString(`"` + arg + `"`)
		} else {
			b.WriteString(arg)
		}
	}
	return b.String()
}
