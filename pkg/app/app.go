// Package app defines the runtime contract shared by the cmd/* binaries.
package app

// Runner is a process that runs until it is told to shut down.
type Runner interface {
	Run() error
}
