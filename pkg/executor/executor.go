package executor

// Executor is responsible for creating execution environment for the R
// interpreter. It returns a TaskHandle once the process started.
// The process runs asynchronously and is driven through its standard streams.
type Executor interface {
	// Execute executes command on underlying platform.
	Execute(command string) (TaskHandle, error)
	// Name returns user-friendly name of executor.
	Name() string
}
