// Package scheduler keeps one live timer per enabled alarm and fires its
// side effects exactly once per occurrence.
//
// The pieces map onto a fixed flow: the persistence API snapshot lands in
// the Store, the Coordinator diffs it against its timer table (full
// cancel-and-rebuild per sync, cheap at household alarm counts), the
// recurrence resolver picks each alarm's next instant, and the Executor
// runs the side effects when a timer fires and re-arms or retires the
// alarm afterwards. The Service owns the refresh loop that drives it all.
package scheduler
