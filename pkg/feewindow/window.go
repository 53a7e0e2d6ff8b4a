// Package feewindow models the point-in-time fee recommendation snapshot and
// the fee options derived from it.
package feewindow

import (
	"sort"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrNoTargetedFees is returned when a window is created without any
	// target/rate entries.
	ErrNoTargetedFees = errors.New("fee window has no targeted fees")

	// ErrInvalidConfTarget is returned for confirmation targets below 1.
	ErrInvalidConfTarget = errors.New("confirmation target must be >= 1")
)

// Window is an immutable snapshot of recommended fee rates, keyed by
// confirmation target (in blocks), in satoshis per vbyte.
type Window struct {
	windowID     int64
	fetchDate    time.Time
	targetedFees map[int]float64

	fastConfTarget   int
	mediumConfTarget int
	slowConfTarget   int
}

// NewWindow creates a fee window. The targeted fees table is copied and must
// have at least one entry; all targets must be >= 1.
func NewWindow(
	windowID int64,
	fetchDate time.Time,
	targetedFees map[int]float64,
	fastConfTarget int,
	mediumConfTarget int,
	slowConfTarget int,
) (*Window, error) {

	if len(targetedFees) == 0 {
		return nil, ErrNoTargetedFees
	}
	if fastConfTarget < 1 || mediumConfTarget < 1 || slowConfTarget < 1 {
		return nil, ErrInvalidConfTarget
	}

	copied := make(map[int]float64, len(targetedFees))
	for target, rate := range targetedFees {
		if target < 1 {
			return nil, errors.Wrapf(ErrInvalidConfTarget, "got %d", target)
		}
		copied[target] = rate
	}

	return &Window{
		windowID:         windowID,
		fetchDate:        fetchDate,
		targetedFees:     copied,
		fastConfTarget:   fastConfTarget,
		mediumConfTarget: mediumConfTarget,
		slowConfTarget:   slowConfTarget,
	}, nil
}

// WindowID returns the opaque version token of this window.
func (w *Window) WindowID() int64 {
	return w.windowID
}

// FetchDate returns when this window was fetched.
func (w *Window) FetchDate() time.Time {
	return w.fetchDate
}

// FastConfTarget returns the named "fast" confirmation target.
func (w *Window) FastConfTarget() int {
	return w.fastConfTarget
}

// MediumConfTarget returns the named "medium" confirmation target.
func (w *Window) MediumConfTarget() int {
	return w.mediumConfTarget
}

// SlowConfTarget returns the named "slow" confirmation target.
func (w *Window) SlowConfTarget() int {
	return w.slowConfTarget
}

// RateFor returns the recommended rate for an exact confirmation target, if
// the network reported one.
func (w *Window) RateFor(target int) (float64, bool) {
	rate, ok := w.targetedFees[target]
	return rate, ok
}

// Targets returns the known confirmation targets in ascending order.
func (w *Window) Targets() []int {
	targets := make([]int, 0, len(w.targetedFees))
	for target := range w.targetedFees {
		targets = append(targets, target)
	}
	sort.Ints(targets)

	return targets
}

// TargetedFees returns an independent copy of the target/rate table.
func (w *Window) TargetedFees() map[int]float64 {
	copied := make(map[int]float64, len(w.targetedFees))
	for target, rate := range w.targetedFees {
		copied[target] = rate
	}

	return copied
}

// MinimumFeeRate returns the lowest recommended rate in the window.
func (w *Window) MinimumFeeRate() float64 {
	min := 0.0
	first := true
	for _, rate := range w.targetedFees {
		if first || rate < min {
			min = rate
			first = false
		}
	}

	return min
}
