// Package commands wires configuration, logging and the changelog service
// into the changelog-mcp command line.
package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/changelog-mcp/internal/mcp"
	"github.com/dtnitsch/changelog-mcp/models"
)

const envPrefix = "CHANGELOG_"

func env(name string) []string {
	return []string{envPrefix + name}
}

// GlobalFlags are accepted before any command.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML config file",
			EnvVars: env("CONFIG"),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Changelog root URL",
			Value:   models.DefaultBaseURL,
			EnvVars: env("BASE_URL"),
		},
		&cli.DurationFlag{
			Name:    "cache-ttl",
			Usage:   "How long a fetched period stays cached",
			Value:   models.DefaultCacheTTL,
			EnvVars: env("CACHE_TTL"),
		},
		&cli.DurationFlag{
			Name:    "sweep-interval",
			Usage:   "How often expired cache entries are reclaimed",
			Value:   models.DefaultSweepInterval,
			EnvVars: env("SWEEP_INTERVAL"),
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "Upper bound for fetching both changelog periods",
			Value:   models.DefaultRequestTimeout,
			EnvVars: env("TIMEOUT"),
		},
		&cli.StringFlag{
			Name:    "user-agent",
			Usage:   "User-Agent header for changelog requests",
			Value:   models.DefaultUserAgent,
			EnvVars: env("USER_AGENT"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level: debug, info, warn, error",
			Value:   models.DefaultLogLevel,
			EnvVars: env("LOG_LEVEL"),
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Only log errors",
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, yaml, table",
		Value:   FormatJSON,
	}
}

func dateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "start-date", Usage: "Earliest date, YYYY-MM-DD, inclusive"},
		&cli.StringFlag{Name: "end-date", Usage: "Latest date, YYYY-MM-DD, inclusive"},
	}
}

// Commands returns every subcommand.
func Commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "serve",
			Usage:  "Run the MCP server on stdio",
			Action: ServeAction,
		},
		{
			Name:  "entries",
			Usage: "List changelog entries with optional filters",
			Flags: append(dateFlags(),
				&cli.StringSliceFlag{Name: "category", Usage: "Category to include (repeatable, case-insensitive)"},
				&cli.StringSliceFlag{Name: "type", Usage: "Change type to include: IMPROVEMENT, RELEASE, RETIRED (repeatable)"},
				&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Substring to match in title or category"},
				&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: fmt.Sprintf("Maximum entries to return (default %d, max %d)", mcp.DefaultEntriesLimit, mcp.MaxEntriesLimit)},
				formatFlag(),
			),
			Action: toolAction(mcp.ToolGetEntries, entriesArgs),
		},
		{
			Name:  "recent",
			Usage: "Show the most recent entries",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Usage: fmt.Sprintf("Number of entries (default %d, max %d)", mcp.DefaultRecentCount, mcp.MaxRecentCount)},
				&cli.StringFlag{Name: "category", Usage: "Only this category"},
				&cli.StringFlag{Name: "type", Usage: "Only this change type"},
				formatFlag(),
			},
			Action: toolAction(mcp.ToolGetRecent, recentArgs),
		},
		{
			Name:      "search",
			Usage:     "Search entry titles and categories",
			ArgsUsage: "<query>",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: fmt.Sprintf("Maximum results (default %d, max %d)", mcp.DefaultSearchLimit, mcp.MaxSearchLimit)},
				formatFlag(),
			},
			Action: toolAction(mcp.ToolSearch, searchArgs),
		},
		{
			Name:   "categories",
			Usage:  "List every category in the changelog",
			Flags:  []cli.Flag{formatFlag()},
			Action: toolAction(mcp.ToolGetCategories, nil),
		},
		{
			Name:  "stats",
			Usage: "Summarize entries by type, category, month and title keywords",
			Flags: append(dateFlags(),
				&cli.IntFlag{Name: "top", Usage: "Number of keywords (default 10, max 50)"},
				formatFlag(),
			),
			Action: toolAction(mcp.ToolGetStats, statsArgs),
		},
		{
			Name:      "details",
			Usage:     "Fetch one entry's page and summarize it",
			ArgsUsage: "<entry-id>",
			Flags:     []cli.Flag{formatFlag()},
			Action:    toolAction(mcp.ToolGetDetails, detailsArgs),
		},
		{
			Name:   "quickstart",
			Usage:  "Print a quick reference",
			Action: QuickstartAction,
		},
	}
}

// NewApp builds the changelog-mcp application.
func NewApp(version string) *cli.App {
	return &cli.App{
		Name:                 "changelog-mcp",
		Usage:                "Query the GitHub changelog from the command line or as an MCP server",
		Version:              version,
		Flags:                GlobalFlags(),
		Commands:             Commands(),
		EnableBashCompletion: true,
	}
}
