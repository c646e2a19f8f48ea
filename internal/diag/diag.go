// Package diag provides the package-level diagnostic logger, gated by
// the NCRYSTAL_DEBUG_* environment variables (spec.md §6). Nothing on a
// hot numerical path logs; this is for factory construction, cache
// eviction, and parse-time warnings only.
package diag

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the shared diagnostic logger. Its level defaults to Warn and is
// raised to Debug when any NCRYSTAL_DEBUG_* variable is set to a
// non-empty, non-"0" value.
var Log = logrus.New()

func init() {
	Log.SetLevel(logrus.WarnLevel)
	Log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "NCRYSTAL_DEBUG_") {
			continue
		}
		kv := strings.SplitN(e, "=", 2)
		if len(kv) == 2 && kv[1] != "" && kv[1] != "0" {
			Log.SetLevel(logrus.DebugLevel)
			break
		}
	}
}
