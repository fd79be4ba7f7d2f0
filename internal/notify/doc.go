// Package notify abstracts the host platform's notification and audio
// output capability consumed by the trigger executor.
package notify
