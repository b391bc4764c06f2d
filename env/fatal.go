package env

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// ExitForbiddenAction is the process exit status used when an environment is
// stepped with an action outside its legal set.
const ExitForbiddenAction = 42

// Exit terminates the process. Tests replace it to observe contract violations.
var Exit = os.Exit

// Forbidden reports a step with an illegal action and terminates the process.
func Forbidden(action, state int) {
	log.Error().Int("action", action).Int("state", state).Msg("forbidden action")
	Exit(ExitForbiddenAction)
}

func invalidReward(index int) string {
	return fmt.Sprintf("invalid reward index %d", index)
}
