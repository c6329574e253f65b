package docker

// Health is the dashboard's view of a container healthcheck.
type Health int

const (
	// HealthAbsent means the container has no healthcheck configured.
	HealthAbsent Health = iota
	// HealthUp means the last healthcheck passed.
	HealthUp
	// HealthStarting means the healthcheck grace period is still running.
	HealthStarting
	// HealthDown means the healthcheck is failing.
	HealthDown
)

// Raw healthcheck status values reported by the Docker daemon.
const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
	statusNone     = "none"
)

// ClassifyHealth maps a raw healthcheck status string to a Health category.
// An empty string means no healthcheck descriptor exists; the daemon also
// encodes that as "none". "starting" is deliberately kept apart from failing
// states since a container in its grace period is not alarming.
func ClassifyHealth(raw string) Health {
	switch raw {
	case "", statusNone:
		return HealthAbsent
	case statusHealthy:
		return HealthUp
	case statusStarting:
		return HealthStarting
	default:
		return HealthDown
	}
}

func (h Health) String() string {
	switch h {
	case HealthUp:
		return "up"
	case HealthStarting:
		return "starting"
	case HealthDown:
		return "down"
	default:
		return "none"
	}
}
