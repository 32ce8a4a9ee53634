package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitCloneSubcommandNameConstant    = "clone"
	gitFetchSubcommandNameConstant    = "fetch"
	gitCheckoutSubcommandNameConstant = "checkout"
	gitPullSubcommandNameConstant     = "pull"
	gitStatusSubcommandNameConstant   = "status"
	gitAddSubcommandNameConstant      = "add"
	gitCommitSubcommandNameConstant   = "commit"
	gitPushSubcommandNameConstant     = "push"
	gitRevParseSubcommandNameConstant = "rev-parse"
	gitBranchFlagConstant             = "--branch"
	gitMessageFlagConstant            = "-m"
)

const (
	gitCloneStartTemplateConstant              = "Cloning %s into %s"
	gitCloneSuccessTemplateConstant            = "Cloned %s into %s"
	gitCloneFailureTemplateConstant            = "Failed to clone %s into %s (exit code %d%s)"
	gitCloneExecutionFailureTemplateConstant   = "Unable to clone %s into %s: %s"
	gitFetchStartTemplateConstant              = "Fetching updates in %s"
	gitFetchSuccessTemplateConstant            = "Fetched updates in %s"
	gitFetchFailureTemplateConstant            = "Failed to fetch updates in %s (exit code %d%s)"
	gitFetchExecutionFailureTemplateConstant   = "Unable to fetch updates in %s: %s"
	gitCheckoutStartTemplateConstant           = "Switching %s to branch %s"
	gitCheckoutSuccessTemplateConstant         = "%s now on branch %s"
	gitCheckoutFailureTemplateConstant         = "Failed to switch %s to branch %s (exit code %d%s)"
	gitCheckoutExecutionFailureTemplateConst   = "Unable to switch %s to branch %s: %s"
	gitPullStartTemplateConstant               = "Pulling latest changes in %s"
	gitPullSuccessTemplateConstant             = "Pulled latest changes in %s"
	gitPullFailureTemplateConstant             = "Failed to pull latest changes in %s (exit code %d%s)"
	gitPullExecutionFailureTemplateConstant    = "Unable to pull latest changes in %s: %s"
	gitStatusStartTemplateConstant             = "Reviewing working tree status in %s"
	gitStatusSuccessTemplateConstant           = "Collected working tree status for %s"
	gitStatusFailureTemplateConstant           = "Failed to review working tree status in %s (exit code %d%s)"
	gitStatusExecutionFailureTemplateConstant  = "Unable to review working tree status in %s: %s"
	gitAddStartTemplateConstant                = "Staging %s in %s"
	gitAddSuccessTemplateConstant              = "Staged %s in %s"
	gitAddFailureTemplateConstant              = "Failed to stage %s in %s (exit code %d%s)"
	gitAddExecutionFailureTemplateConstant     = "Unable to stage %s in %s: %s"
	gitCommitStartTemplateConstant             = "Creating commit in %s with message %q"
	gitCommitSuccessTemplateConstant           = "Created commit in %s with message %q"
	gitCommitFailureTemplateConstant           = "Failed to create commit in %s with message %q (exit code %d%s)"
	gitCommitExecutionFailureTemplateConstant  = "Unable to create commit in %s with message %q: %s"
	gitPushStartTemplateConstant               = "Pushing from %s"
	gitPushSuccessTemplateConstant             = "Pushed from %s"
	gitPushFailureTemplateConstant             = "Failed to push from %s (exit code %d%s)"
	gitPushExecutionFailureTemplateConstant    = "Unable to push from %s: %s"
	gitRevParseStartTemplateConstant           = "Resolving %s in %s"
	gitRevParseSuccessTemplateConstant         = "Resolved %s in %s"
	gitRevParseFailureTemplateConstant         = "Failed to resolve %s in %s (exit code %d%s)"
	gitRevParseExecutionFailureTemplateConst   = "Unable to resolve %s in %s: %s"
	gitCheckoutCreateBranchFlagConstant        = "-b"
	gitCloneMinimumArgumentCountConstant       = 3
	gitCheckoutMinimumArgumentCountConstant    = 2
	gitAddMinimumArgumentCountConstant         = 2
	gitCommitMessageMinimumArgumentCountConst  = 3
	gitRevParseReferenceMinimumArgumentCount   = 2
	firstPositionalArgumentIndexConstant       = 1
	secondPositionalArgumentIndexConstant      = 2
	lastPositionalArgumentOffsetFromEndConst   = 1
	penultimateArgumentOffsetFromEndConstant   = 2
	gitCommitMessageFlagFollowingOffsetConst   = 1
	gitCheckoutBranchArgumentIndexWithCreation = 2
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case gitCloneSubcommandNameConstant:
		return formatter.describeGitCloneMessage(command, result, failure, stage)
	case gitFetchSubcommandNameConstant:
		return formatter.describeWorkingDirectoryMessage(command, result, failure, stage, gitFetchStartTemplateConstant, gitFetchSuccessTemplateConstant, gitFetchFailureTemplateConstant, gitFetchExecutionFailureTemplateConstant)
	case gitCheckoutSubcommandNameConstant:
		return formatter.describeGitCheckoutMessage(command, result, failure, stage)
	case gitPullSubcommandNameConstant:
		return formatter.describeWorkingDirectoryMessage(command, result, failure, stage, gitPullStartTemplateConstant, gitPullSuccessTemplateConstant, gitPullFailureTemplateConstant, gitPullExecutionFailureTemplateConstant)
	case gitStatusSubcommandNameConstant:
		return formatter.describeWorkingDirectoryMessage(command, result, failure, stage, gitStatusStartTemplateConstant, gitStatusSuccessTemplateConstant, gitStatusFailureTemplateConstant, gitStatusExecutionFailureTemplateConstant)
	case gitAddSubcommandNameConstant:
		return formatter.describeGitAddMessage(command, result, failure, stage)
	case gitCommitSubcommandNameConstant:
		return formatter.describeGitCommitMessage(command, result, failure, stage)
	case gitPushSubcommandNameConstant:
		return formatter.describeWorkingDirectoryMessage(command, result, failure, stage, gitPushStartTemplateConstant, gitPushSuccessTemplateConstant, gitPushFailureTemplateConstant, gitPushExecutionFailureTemplateConstant)
	case gitRevParseSubcommandNameConstant:
		return formatter.describeGitRevParseMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCloneMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	repositoryURL := fallbackUnknownValueLabelConstant
	destinationPath := fallbackUnknownValueLabelConstant
	if len(arguments) >= gitCloneMinimumArgumentCountConstant {
		repositoryURL = formatter.ensureValue(arguments[len(arguments)-penultimateArgumentOffsetFromEndConstant])
		destinationPath = formatter.ensureValue(arguments[len(arguments)-lastPositionalArgumentOffsetFromEndConst])
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCloneStartTemplateConstant, repositoryURL, destinationPath)
	case messageStageSuccess:
		return fmt.Sprintf(gitCloneSuccessTemplateConstant, repositoryURL, destinationPath)
	case messageStageFailure:
		return fmt.Sprintf(gitCloneFailureTemplateConstant, repositoryURL, destinationPath, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitCloneExecutionFailureTemplateConstant, repositoryURL, destinationPath, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitCheckoutMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	branchName := fallbackUnknownValueLabelConstant
	if len(arguments) >= gitCheckoutMinimumArgumentCountConstant {
		branchName = formatter.ensureValue(arguments[firstPositionalArgumentIndexConstant])
		if branchName == gitCheckoutCreateBranchFlagConstant && len(arguments) > gitCheckoutBranchArgumentIndexWithCreation {
			branchName = formatter.ensureValue(arguments[gitCheckoutBranchArgumentIndexWithCreation])
		}
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCheckoutStartTemplateConstant, workingDirectory, branchName)
	case messageStageSuccess:
		return fmt.Sprintf(gitCheckoutSuccessTemplateConstant, workingDirectory, branchName)
	case messageStageFailure:
		return fmt.Sprintf(gitCheckoutFailureTemplateConstant, workingDirectory, branchName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitCheckoutExecutionFailureTemplateConst, workingDirectory, branchName, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitAddMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	stagedPath := fallbackUnknownValueLabelConstant
	if len(arguments) >= gitAddMinimumArgumentCountConstant {
		stagedPath = formatter.ensureValue(arguments[firstPositionalArgumentIndexConstant])
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitAddStartTemplateConstant, stagedPath, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitAddSuccessTemplateConstant, stagedPath, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitAddFailureTemplateConstant, stagedPath, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitAddExecutionFailureTemplateConstant, stagedPath, workingDirectory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitCommitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	commitMessage := fallbackUnknownValueLabelConstant
	for argumentIndex := firstPositionalArgumentIndexConstant; argumentIndex < len(arguments); argumentIndex++ {
		if arguments[argumentIndex] != gitMessageFlagConstant {
			continue
		}
		messageIndex := argumentIndex + gitCommitMessageFlagFollowingOffsetConst
		if messageIndex < len(arguments) {
			commitMessage = formatter.ensureValue(arguments[messageIndex])
		}
		break
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCommitStartTemplateConstant, workingDirectory, commitMessage)
	case messageStageSuccess:
		return fmt.Sprintf(gitCommitSuccessTemplateConstant, workingDirectory, commitMessage)
	case messageStageFailure:
		return fmt.Sprintf(gitCommitFailureTemplateConstant, workingDirectory, commitMessage, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitCommitExecutionFailureTemplateConstant, workingDirectory, commitMessage, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitRevParseMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	reference := fallbackUnknownValueLabelConstant
	if len(arguments) >= gitRevParseReferenceMinimumArgumentCount {
		reference = formatter.ensureValue(arguments[len(arguments)-lastPositionalArgumentOffsetFromEndConst])
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitRevParseStartTemplateConstant, reference, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitRevParseSuccessTemplateConstant, reference, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitRevParseFailureTemplateConstant, reference, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitRevParseExecutionFailureTemplateConst, reference, workingDirectory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeWorkingDirectoryMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage, startTemplate string, successTemplate string, failureTemplate string, executionFailureTemplate string) string {
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(startTemplate, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(successTemplate, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(failureTemplate, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(executionFailureTemplate, workingDirectory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)

	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return commandLabel
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory))
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(candidate string) string {
	trimmedCandidate := strings.TrimSpace(candidate)
	if len(trimmedCandidate) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmedCandidate
}
