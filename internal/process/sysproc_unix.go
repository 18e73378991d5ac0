//go:build !windows

package process

import (
	"os/exec"
	"syscall"

	"github.com/rs/zerolog/log"
)

// setProcessGroup puts the child in its own process group so that anything
// it spawns is killed with it.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func signalGroup(cmd *exec.Cmd, force bool) {
	if cmd.Process == nil {
		return
	}
	sig := syscall.SIGTERM
	if force {
		sig = syscall.SIGKILL
	}
	log.Debug().Int("pgid", cmd.Process.Pid).Str("signal", sig.String()).Msg("exec: signalling process group")
	if err := syscall.Kill(-cmd.Process.Pid, sig); err != nil {
		log.Debug().Err(err).Msg("exec: kill failed")
	}
}
