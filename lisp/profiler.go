package lisp

// Version is reported by profilers and the command line.
const Version = "0.3"

// Profiler observes function calls made by the evaluator.
type Profiler interface {
	// Is the profiler enabled?
	IsEnabled() bool
	// Enable the profiler
	Enable() error
	// Set the file to output to
	SetFile(filename string) error
	// End the profiling session and output summary lines
	Complete() error
	// Start marks the beginning of a call to function and returns a
	// function that marks its end.
	Start(function *LVal) func()
}
