package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/minidrive/internal/flagx"
)

// FlagNames lists every flag the client consumes, including the config file
// flags read by flagx.ConfigFilePath. The command line left after removing
// them is the command to run.
var FlagNames = []string{"-a", "-d", "-t", "-c", "-config"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the MiniDrive server
//	-d string   directory for the local session database
//	-t int      request timeout in seconds
//
// Other arguments are filtered out with flagx.FilterArgs so that command
// words and their arguments do not reach the flag set.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], FlagNames[:3])

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the MiniDrive server")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "directory for the local session database")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
