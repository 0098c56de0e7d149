// Package logging configures the process-wide logrus logger.
package logging

import (
	"github.com/cockroachdb/errors"
	"github.com/coreos/go-systemd/v22/journal"
	"github.com/sirupsen/logrus"
)

// Setup parses level, applies it to the standard logger and, when running
// under systemd with a reachable journal, mirrors entries into the journal.
func Setup(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "parsing log level %q", level)
	}
	logrus.SetLevel(lvl)

	if journal.Enabled() {
		logrus.AddHook(&JournalHook{})
	}
	return nil
}
