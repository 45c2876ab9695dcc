package power

import (
	"os/exec"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// CommandSleeper suspends the host by running an external command, such
// as "systemctl suspend". The command returns after resume.
type CommandSleeper struct {
	Command []string
}

// NewCommandSleeper returns a sleeper running argv. An empty argv makes
// DeepSleep a no-op.
func NewCommandSleeper(argv []string) *CommandSleeper {
	return &CommandSleeper{Command: argv}
}

// DeepSleep runs the configured command.
func (s *CommandSleeper) DeepSleep() error {
	if len(s.Command) == 0 {
		logrus.Warnf("power: no sleep command configured")
		return nil
	}
	out, err := exec.Command(s.Command[0], s.Command[1:]...).CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "run %q: %s", s.Command, out)
	}
	return nil
}
