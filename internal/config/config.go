package config

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
)

// Config holds one run's settings. Flags win over environment
// variables; environment variables win over defaults.
type Config struct {
	// DumpPath is the MediaWiki XML export to read (.xml, .xml.bz2 or
	// .xml.gz).
	DumpPath string

	// Namespaces is the comma-separated include set.
	Namespaces string

	// PageLimit caps how many selected pages are processed. Zero
	// processes none.
	PageLimit uint

	// Verbose logs parser warnings.
	Verbose bool

	// OutPath is the output destination. Empty means stdout, except
	// for the sqlite format which needs a file.
	OutPath string

	// Format selects the output serialization.
	Format string

	// Listen, when set, serves the results over HTTP on this address
	// after the run.
	Listen string
}

// Formats this tool can emit.
var Formats = map[string]bool{
	"json":     true,
	"csv":      true,
	"sqlite":   true,
	"markdown": true,
}

// Load parses command-line arguments (normally os.Args[1:]).
func Load(args []string) (Config, error) {
	var cfg Config
	fs := flag.NewFlagSet("wikiheaders", flag.ContinueOnError)
	fs.StringVar(&cfg.Namespaces, "namespaces", envOr("WIKIHEADERS_NAMESPACES", "main"),
		"comma-separated namespaces to include")
	fs.UintVar(&cfg.PageLimit, "limit", envUint("WIKIHEADERS_LIMIT", math.MaxUint),
		"maximum number of selected pages to process (0 processes none)")
	fs.BoolVar(&cfg.Verbose, "verbose", envBool("WIKIHEADERS_VERBOSE", false),
		"log parser warnings")
	fs.StringVar(&cfg.OutPath, "out", envOr("WIKIHEADERS_OUT", ""),
		"output path (default stdout; required for sqlite)")
	fs.StringVar(&cfg.Format, "format", envOr("WIKIHEADERS_FORMAT", "json"),
		"output format: json, csv, sqlite or markdown")
	fs.StringVar(&cfg.Listen, "listen", envOr("WIKIHEADERS_LISTEN", ""),
		"serve results over HTTP on this address after the run")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: wikiheaders [flags] <dump.xml[.bz2|.gz]>\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	cfg.DumpPath = fs.Arg(0)
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DumpPath == "" {
		return fmt.Errorf("a dump file path is required")
	}
	if !Formats[c.Format] {
		return fmt.Errorf("unknown output format %q", c.Format)
	}
	if c.Format == "sqlite" && c.OutPath == "" {
		return fmt.Errorf("the sqlite format requires -out")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envUint(key string, fallback uint) uint {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return uint(n)
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
