package triage

import "time"

// Policy carries the tunable constants of the triage pipeline. Zero values
// are replaced with defaults by Normalize.
type Policy struct {
	// RetryLimit bounds automatic customer-action prompts for declined cards.
	RetryLimit int
	// RetryWindow is the maximum age of a technical failure still worth an
	// automatic retry.
	RetryWindow time.Duration
	// HighValueCents and ElevatedCents are the compliance scoring thresholds.
	HighValueCents int64
	ElevatedCents  int64
	// WorkerCount bounds per-phase parallelism.
	WorkerCount int
	// CollaboratorBackoff is the fixed pause before the single retry of a
	// failed collaborator call.
	CollaboratorBackoff time.Duration
}

// DefaultPolicy returns the production defaults.
func DefaultPolicy() Policy {
	return Policy{
		RetryLimit:          1,
		RetryWindow:         24 * time.Hour,
		HighValueCents:      500000,
		ElevatedCents:       100000,
		WorkerCount:         4,
		CollaboratorBackoff: 250 * time.Millisecond,
	}
}

// Normalize fills unset fields with defaults.
func (p Policy) Normalize() Policy {
	def := DefaultPolicy()
	if p.RetryLimit <= 0 {
		p.RetryLimit = def.RetryLimit
	}
	if p.RetryWindow <= 0 {
		p.RetryWindow = def.RetryWindow
	}
	if p.HighValueCents <= 0 {
		p.HighValueCents = def.HighValueCents
	}
	if p.ElevatedCents <= 0 {
		p.ElevatedCents = def.ElevatedCents
	}
	if p.WorkerCount <= 0 {
		p.WorkerCount = def.WorkerCount
	}
	if p.CollaboratorBackoff <= 0 {
		p.CollaboratorBackoff = def.CollaboratorBackoff
	}
	return p
}
