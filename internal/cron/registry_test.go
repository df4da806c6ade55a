package cron

import (
	"context"
	"testing"
)

type namedJob struct {
	name string
	ran  *int
}

func (j namedJob) Name() string { return j.name }

func (j namedJob) Run(context.Context) error {
	if j.ran != nil {
		*j.ran++
	}
	return nil
}

func TestRegistryKeepsRegistrationOrder(t *testing.T) {
	reg := NewRegistry(namedJob{name: "cart-expiry"}, nil, namedJob{name: "leaderboard-refresh"})

	jobs := reg.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].Name() != "cart-expiry" || jobs[1].Name() != "leaderboard-refresh" {
		t.Fatalf("unexpected order: %s, %s", jobs[0].Name(), jobs[1].Name())
	}
}

func TestRegistryReplacesByName(t *testing.T) {
	var firstRuns, secondRuns int
	reg := NewRegistry(namedJob{name: "cart-expiry", ran: &firstRuns})
	reg.Register(namedJob{name: "cart-expiry", ran: &secondRuns})

	jobs := reg.Jobs()
	if len(jobs) != 1 {
		t.Fatalf("expected replacement, got %d jobs", len(jobs))
	}
	if err := jobs[0].Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if firstRuns != 0 || secondRuns != 1 {
		t.Fatalf("expected the replacement to run, got first=%d second=%d", firstRuns, secondRuns)
	}
}
