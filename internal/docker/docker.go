package docker

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
)

// Workload is a running container as shown on the dashboard. Health holds
// the raw healthcheck status string, empty when the container has no
// healthcheck configured.
type Workload struct {
	ID     string
	Name   string
	Image  string
	Health string
}

// Inventory lists containers via the Docker API and dispatches restarts.
type Inventory struct {
	client  *client.Client
	include []string
	exclude []string
}

// Options configures the Docker connection and name filters.
type Options struct {
	Socket  string // unix socket path, empty = environment default
	Include []string
	Exclude []string
}

// New creates an inventory backed by the Docker socket. With an empty
// socket path the client follows DOCKER_HOST and falls back to the
// system default.
func New(opts Options) (*Inventory, error) {
	clientOpts := []client.Opt{client.WithAPIVersionNegotiation()}
	if opts.Socket != "" {
		clientOpts = append(clientOpts, client.WithHost("unix://"+opts.Socket))
	} else {
		clientOpts = append(clientOpts, client.FromEnv)
	}
	c, err := client.NewClientWithOpts(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	return &Inventory{
		client:  c,
		include: opts.Include,
		exclude: opts.Exclude,
	}, nil
}

// Close closes the Docker client.
func (v *Inventory) Close() error {
	return v.client.Close()
}

// List returns the running containers that pass the name filters, in the
// order the daemon reports them. Each container is inspected for its
// healthcheck status; inspect failures leave the health empty rather than
// failing the whole listing.
func (v *Inventory) List(ctx context.Context) ([]Workload, error) {
	containers, err := v.client.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("container list: %w", err)
	}

	var workloads []Workload
	for _, c := range containers {
		name := containerName(c.Names)
		if !matchFilter(name, v.include, v.exclude) {
			continue
		}
		workloads = append(workloads, Workload{
			ID:     c.ID,
			Name:   name,
			Image:  c.Image,
			Health: v.inspectHealth(ctx, c.ID),
		})
	}
	return workloads, nil
}

// Restart asks the daemon to restart a container using its default stop
// timeout. The caller treats this as fire-and-forget.
func (v *Inventory) Restart(ctx context.Context, id string) error {
	if err := v.client.ContainerRestart(ctx, id, container.StopOptions{}); err != nil {
		return fmt.Errorf("container restart: %w", err)
	}
	return nil
}

// inspectHealth returns the raw healthcheck status for a container, or ""
// when no healthcheck is configured or the inspect fails.
func (v *Inventory) inspectHealth(ctx context.Context, id string) string {
	info, err := v.client.ContainerInspect(ctx, id)
	if err != nil {
		return ""
	}
	if info.State == nil || info.State.Health == nil {
		return ""
	}
	return string(info.State.Health.Status)
}

// containerName extracts a clean name from Docker's name list.
func containerName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	// Docker prefixes names with "/", strip it.
	name := names[0]
	if len(name) > 0 && name[0] == '/' {
		name = name[1:]
	}
	return name
}

// matchFilter applies include/exclude glob patterns to a container name.
func matchFilter(name string, include, exclude []string) bool {
	if len(include) > 0 {
		matched := false
		for _, pattern := range include {
			if ok, _ := filepath.Match(pattern, name); ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, pattern := range exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return false
		}
	}

	return true
}
