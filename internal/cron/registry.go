package cron

import "context"

// Job is a unit of scheduled work the cron worker drives.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the jobs a worker runs, in registration order. Registering
// a job under a name already present replaces the earlier entry in place.
type Registry struct {
	order []string
	jobs  map[string]Job
}

// NewRegistry builds a registry preloaded with the provided jobs.
func NewRegistry(jobs ...Job) *Registry {
	r := &Registry{jobs: map[string]Job{}}
	for _, job := range jobs {
		r.Register(job)
	}
	return r
}

// Register adds or replaces a job.
func (r *Registry) Register(job Job) {
	if job == nil {
		return
	}
	if r.jobs == nil {
		r.jobs = map[string]Job{}
	}
	name := job.Name()
	if _, seen := r.jobs[name]; !seen {
		r.order = append(r.order, name)
	}
	r.jobs[name] = job
}

// Jobs returns the registered jobs in registration order.
func (r *Registry) Jobs() []Job {
	out := make([]Job, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.jobs[name])
	}
	return out
}
