//go:build !windows

package executor

import (
	"os"
	"os/exec"
	"syscall"
)

// configureSysProcAttr puts the child in its own process group so that
// termination reaches any grandchildren too.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminate asks the child's process group to exit gracefully. Escalation
// to kill is the caller's job after the grace period.
func terminate(p *os.Process) error {
	return syscall.Kill(-p.Pid, syscall.SIGTERM)
}

// kill forcibly ends the child's process group.
func kill(p *os.Process) error {
	return syscall.Kill(-p.Pid, syscall.SIGKILL)
}
