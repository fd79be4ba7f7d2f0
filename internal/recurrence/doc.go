// Package recurrence computes the next firing instant for an alarm
// definition. It is the pure core of the scheduler: no clocks, no timers,
// no side effects. Candidates equal to the reference instant are treated
// as already passed, so a freshly computed occurrence can never fire
// immediately due to clock granularity.
package recurrence
