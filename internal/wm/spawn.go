package wm

import (
	"log"
	"os"
	"os/exec"
)

// Spawner starts external programs for Exec.
type Spawner interface {
	Spawn(program string, args []string) error
}

// ExecSpawner starts programs in their own session and reaps them in the
// background. Spawn returns as soon as the process has started.
type ExecSpawner struct{}

func (ExecSpawner) Spawn(program string, args []string) error {
	cmd := exec.Command(program, args...)
	// stdout may be piped into a status bar; children must not write there.
	cmd.Stderr = os.Stderr
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("%s exited: %v", program, err)
		}
	}()
	return nil
}
