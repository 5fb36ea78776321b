package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

var ErrProcessLaunch = errors.New("unable to start sub-process")

// ProcessLaunchError reports that one of the two stages could not be started.
type ProcessLaunchError struct {
	Stage Stage
	Args  []string
	Err   error
}

func (e *ProcessLaunchError) Error() string {
	return fmt.Sprintf("unable to start %s (%s): %v", e.Stage, strings.Join(e.Args, " "), e.Err)
}

func (e *ProcessLaunchError) Unwrap() error { return e.Err }

func (e *ProcessLaunchError) Is(target error) bool { return target == ErrProcessLaunch }
