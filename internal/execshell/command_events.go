package execshell

// CommandEventObserver is notified at each stage of a command's lifecycle.
// The executor calls CommandStarted before handing the command to its runner,
// CommandCompleted once a result exists regardless of exit code, and
// CommandExecutionFailed when the runner could not produce a result at all.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	CommandCompleted(command ShellCommand, result ExecutionResult)
	CommandExecutionFailed(command ShellCommand, failure error)
}

// noopCommandEventObserver keeps the executor's observer non-nil when no
// observer was registered.
type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
