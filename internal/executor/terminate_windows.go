//go:build windows

package executor

import (
	"os"
	"os/exec"
)

func configureSysProcAttr(cmd *exec.Cmd) {}

// terminate kills outright; Windows has no graceful termination signal for
// console child processes spawned this way.
func terminate(p *os.Process) error {
	return p.Kill()
}

func kill(p *os.Process) error {
	return p.Kill()
}
