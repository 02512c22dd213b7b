package config

import (
	"flag"
	"os"
	"strings"

	"github.com/pkg/errors"
)

type Config struct {
	Addr           string
	AllowedOrigins []string
	LogLevel       string
	// Rotated is the default orientation for new boards.
	Rotated bool
}

// Load parses args, then lets CHESSBOARD_* environment variables override
// the flags.
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	var (
		addr     = fs.String("addr", ":3000", "listen address")
		origins  = fs.String("allowed-origins", "http://localhost:5173", "comma separated CORS origins")
		logLevel = fs.String("log-level", "info", "log level (debug, info, warn, error)")
		rotated  = fs.Bool("rotated", true, "show new boards from black's side")
	)
	if err := fs.Parse(args); err != nil {
		return Config{}, errors.Wrap(err, "parse flags")
	}

	if v := os.Getenv("CHESSBOARD_ADDR"); v != "" {
		*addr = v
	}
	if v := os.Getenv("CHESSBOARD_ORIGINS"); v != "" {
		*origins = v
	}
	if v := os.Getenv("CHESSBOARD_LOG_LEVEL"); v != "" {
		*logLevel = v
	}

	return Config{
		Addr:           *addr,
		AllowedOrigins: splitList(*origins),
		LogLevel:       *logLevel,
		Rotated:        *rotated,
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
