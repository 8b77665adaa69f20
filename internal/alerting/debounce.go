package alerting

import "time"

// candidate is a signature being timed toward its dwell threshold.
type candidate struct {
	detection       Detection
	firstDetectedAt time.Time
	reported        bool
}

// Evaluator turns per-tick detections into confirmed alerts once a signature
// has been seen continuously for the dwell time. A signature that disappears
// for a single tick is forgotten and must start its dwell over.
//
// An Evaluator is owned by one goroutine and is not safe for concurrent use.
type Evaluator struct {
	dwell      time.Duration
	candidates map[Signature]*candidate
}

func NewEvaluator(dwell time.Duration) *Evaluator {
	return &Evaluator{dwell: dwell, candidates: make(map[Signature]*candidate)}
}

// SetDwell changes the threshold for candidates that are not yet reported.
func (e *Evaluator) SetDwell(d time.Duration) {
	e.dwell = d
}

// Step feeds the detections of one tick and returns the ones confirmed on
// this tick. Each persistence episode of a signature is confirmed at most once.
func (e *Evaluator) Step(now time.Time, detected []Detection) []Detection {
	var confirmed []Detection
	seen := make(map[Signature]struct{}, len(detected))

	for _, d := range detected {
		sig := d.Signature
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}

		c, ok := e.candidates[sig]
		if !ok {
			e.candidates[sig] = &candidate{detection: d, firstDetectedAt: now}
			continue
		}
		// keep the freshest message (it may carry live values)
		c.detection = d
		if c.reported {
			continue
		}
		if now.Sub(c.firstDetectedAt) >= e.dwell {
			c.reported = true
			confirmed = append(confirmed, d)
		}
	}

	for sig := range e.candidates {
		if _, ok := seen[sig]; !ok {
			delete(e.candidates, sig)
		}
	}
	return confirmed
}

// Reset forgets every candidate. Used when the snapshot is absent.
func (e *Evaluator) Reset() {
	clear(e.candidates)
}

// Len reports how many signatures are currently tracked.
func (e *Evaluator) Len() int {
	return len(e.candidates)
}

// Tracking reports whether sig is currently a candidate and whether it has
// already been reported in its current episode.
func (e *Evaluator) Tracking(sig Signature) (tracked, reported bool) {
	c, ok := e.candidates[sig]
	if !ok {
		return false, false
	}
	return true, c.reported
}
