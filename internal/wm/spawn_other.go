//go:build !linux

package wm

import "os/exec"

func detach(cmd *exec.Cmd) {}
