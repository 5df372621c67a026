// Package docker wraps the docker CLI invocations that run the NIMA
// prediction script inside the pinned TensorFlow container.
package docker

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes docker commands.
type Runner interface {
	Run(ctx context.Context, args []string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "docker", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
	}
	return out, nil
}

// NewRunner returns a Runner backed by the docker binary on PATH.
func NewRunner() Runner {
	return execRunner{}
}

// Available reports whether the docker binary can be found on PATH.
func Available() error {
	if _, err := exec.LookPath("docker"); err != nil {
		return fmt.Errorf("docker is not installed or not on PATH: %w", err)
	}
	return nil
}

// Mount is a host-to-container bind mount.
type Mount struct {
	Host      string
	Container string
}

// Invocation describes one disposable container run.
type Invocation struct {
	Image  string
	Mounts []Mount
	Cmd    []string
}

// Args renders the invocation into docker CLI arguments. Containers
// are always removed on exit.
func (inv Invocation) Args() []string {
	args := []string{"run", "--rm"}
	for _, m := range inv.Mounts {
		args = append(args, "-v", m.Host+":"+m.Container)
	}
	args = append(args, inv.Image)
	args = append(args, inv.Cmd...)
	return args
}
