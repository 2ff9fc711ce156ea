package economy

import (
	"fmt"
	"log"
	"math"

	"github.com/robfig/cron"
)

// StartPeriodicEvents starts the periodic interest scheduler. It is a
// no-op when interest is disabled (zero or NaN rate, or a non-positive
// interval). Calling it again restarts the schedule.
func (r *Registry) StartPeriodicEvents() error {
	r.StopPeriodicEvents()
	rate := r.settings.InterestRate
	interval := r.settings.InterestIntervalMinutes
	if rate == 0 || math.IsNaN(rate) || interval <= 0 {
		return nil
	}
	c := cron.New()
	if err := c.AddFunc(fmt.Sprintf("@every %dm", interval), r.ApplyInterest); err != nil {
		return fmt.Errorf("could not schedule periodic interest: %w", err)
	}
	c.Start()
	r.sched = c
	log.Printf("periodic interest started: %g%% every %d minutes", rate, interval)
	return nil
}

// StopPeriodicEvents stops the interest scheduler if it is running.
func (r *Registry) StopPeriodicEvents() {
	if r.sched != nil {
		r.sched.Stop()
		r.sched = nil
	}
}

// ApplyInterest compounds one interest period onto every account with
// a finite, non-zero balance and marks them dirty for the next save.
// Debts grow too: negative balances compound like positive ones.
func (r *Registry) ApplyInterest() {
	rate := r.settings.InterestRate
	if rate == 0 || math.IsNaN(rate) {
		return
	}
	r.coord.beginMutation()
	defer r.coord.endMutation()
	factor := 1 + rate/100
	n := 0
	for a := range r.AllAccounts() {
		a.mu.Lock()
		if a.balance == 0 || math.IsInf(a.balance, 0) {
			a.mu.Unlock()
			continue
		}
		a.balance *= factor
		a.mu.Unlock()
		a.markDirty()
		n++
	}
	log.Printf("applied %g%% interest to %d accounts", rate, n)
}
