// Command modget resolves and installs modules against a NuGet
// v3-style registry. It is the CLI entry point: flag parsing and
// progress rendering live here; the resolver and
// installer packages know nothing about any of it.
//
// Grounded on guget/main.go's Init/BuildFlags/main shape, generalised
// from "report outdated packages in a project" to "resolve and install
// a requested module set".
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"arger"
	"logger"

	"github.com/nulifyer/modget/internal/collections"
	"github.com/nulifyer/modget/internal/host"
	"github.com/nulifyer/modget/internal/installer"
	"github.com/nulifyer/modget/internal/localscan"
	"github.com/nulifyer/modget/internal/registry"
	"github.com/nulifyer/modget/internal/resolver"
	"github.com/nulifyer/modget/internal/spec"
	"github.com/nulifyer/modget/internal/version"
)

const (
	flagModules     = "modules"
	flagSource      = "source"
	flagDestination = "destination"
	flagCache       = "cache"
	flagSearchPath  = "search-path"
	flagPreRelease  = "prerelease"
	flagUpdate      = "update"
	flagNoColor     = "no-color"
	flagVerbosity   = "verbosity"
	flagUsername    = "username"
	flagPassword    = "password"
)

type builtFlags struct {
	Modules     string
	Source      string
	Destination string
	Cache       string
	SearchPath  string
	PreRelease  bool
	Update      bool
	NoColor     bool
	Verbosity   string
	Username    string
	Password    string
}

func buildFlags(flags map[string]arger.IParsedFlag) builtFlags {
	return builtFlags{
		Modules:     arger.Get[string](flags, flagModules),
		Source:      arger.Get[string](flags, flagSource),
		Destination: arger.Get[string](flags, flagDestination),
		Cache:       arger.Get[string](flags, flagCache),
		SearchPath:  arger.Get[string](flags, flagSearchPath),
		PreRelease:  arger.Get[bool](flags, flagPreRelease),
		Update:      arger.Get[bool](flags, flagUpdate),
		NoColor:     arger.Get[bool](flags, flagNoColor),
		Verbosity:   arger.Get[string](flags, flagVerbosity),
		Username:    arger.Get[string](flags, flagUsername),
		Password:    arger.Get[string](flags, flagPassword),
	}
}

func initFlags() builtFlags {
	logger.SetColor(false)
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		logger.SetLevel(logger.ParseLevel(envLevel))
	}

	arger.RegisterFlag(arger.Flag[string]{
		Name:        flagModules,
		Aliases:     []string{"-m", "--modules"},
		Positional:  true,
		Required:    true,
		Description: "Comma- or space-separated list of modules to install (bare name or Name@Version)",
	})
	arger.RegisterFlag(arger.Flag[string]{
		Name:        flagSource,
		Aliases:     []string{"-s", "--source"},
		Required:    true,
		Description: "Registry service-index or registration-index base URL",
	})
	arger.RegisterFlag(arger.Flag[string]{
		Name:    flagDestination,
		Aliases: []string{"-d", "--destination"},
		DefaultFunc: func() string {
			dir, err := os.Getwd()
			if err != nil {
				logger.Fatal("couldn't get current working directory")
			}
			return filepath.Join(dir, "modules")
		},
		Description: "Destination module tree root",
	})
	arger.RegisterFlag(arger.Flag[string]{
		Name:    flagCache,
		Aliases: []string{"-c", "--cache"},
		DefaultFunc: func() string {
			dir, err := os.UserCacheDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "modget-cache")
			}
			return filepath.Join(dir, "modget")
		},
		Description: "Content-addressed archive cache directory",
	})
	arger.RegisterFlag(arger.Flag[string]{
		Name:        flagSearchPath,
		Aliases:     []string{"-p", "--search-path"},
		Default:     arger.Optional(""),
		Description: "PATH_SEP-separated list of directories to search for already-installed modules",
	})
	arger.RegisterFlag(arger.Flag[bool]{
		Name:        flagPreRelease,
		Aliases:     []string{"--prerelease"},
		Default:     arger.Optional(false),
		Description: "Allow pre-release versions to satisfy module specs",
	})
	arger.RegisterFlag(arger.Flag[bool]{
		Name:        flagUpdate,
		Aliases:     []string{"-u", "--update"},
		Default:     arger.Optional(false),
		Description: "Ignore already-installed local modules and re-resolve everything",
	})
	arger.RegisterFlag(arger.Flag[bool]{
		Name:        flagNoColor,
		Aliases:     []string{"-nc", "--no-color"},
		Default:     arger.Optional(false),
		Description: "Disable colored output in the terminal",
	})
	arger.RegisterFlag(arger.Flag[string]{
		Name:           flagVerbosity,
		Aliases:        []string{"-v", "--verbose"},
		Default:        arger.Optional(""),
		Description:    "Set the logging verbosity level",
		ExpectedValues: []string{"", "none", "error", "err", "warn", "warning", "info", "debug", "dbg", "trace", "trc"},
	})
	arger.RegisterFlag(arger.Flag[string]{
		Name:        flagUsername,
		Aliases:     []string{"--username"},
		Default:     arger.Optional(""),
		Description: "Basic auth username for the registry source",
	})
	arger.RegisterFlag(arger.Flag[string]{
		Name:        flagPassword,
		Aliases:     []string{"--password"},
		Default:     arger.Optional(""),
		Description: "Basic auth password for the registry source",
	})

	parsedFlags := arger.Parse()
	built := buildFlags(parsedFlags)

	// The flag wins over LOG_LEVEL; with neither set the level is warn.
	if built.Verbosity != "" || os.Getenv("LOG_LEVEL") == "" {
		logger.SetLevel(logger.ParseLevel(built.Verbosity))
	}
	logger.SetColor(!built.NoColor)

	return built
}

// splitModuleTokens splits s into distinct module tokens, de-duplicating
// repeats the way guget/main.go de-duplicates package names across
// multiple project files before dispatching a fetch per distinct name.
func splitModuleTokens(s string) []string {
	s = strings.ReplaceAll(s, ",", " ")
	seen := collections.NewSet[string]()
	var out []string
	for _, tok := range strings.Fields(s) {
		if seen.Contains(tok) {
			continue
		}
		seen.Add(tok)
		out = append(out, tok)
	}
	return out
}

func main() {
	flags := initFlags()

	tokens := splitModuleTokens(flags.Modules)
	if len(tokens) == 0 {
		logger.Fatal("no modules specified")
	}

	var userSpecs []spec.Spec
	for _, tok := range tokens {
		s, err := host.Normalize(host.UserInput{Raw: tok})
		if err != nil {
			logger.Fatal("invalid module %q: %v", tok, err)
		}
		userSpecs = append(userSpecs, s)
	}
	logger.Info("resolving %d module(s) against %s", len(userSpecs), flags.Source)

	client, err := registry.New(flags.Source, registry.Credentials{Username: flags.Username, Password: flags.Password})
	if err != nil {
		logger.Fatal("initialising registry client: %v", err)
	}

	searchPaths := localscan.SplitSearchPaths(flags.SearchPath)

	ctx := context.Background()
	prog := newInstallProgram()
	go prog.run()
	sink := newProgressSink(prog)

	opts := resolver.Options{
		PreRelease:  flags.PreRelease,
		Update:      flags.Update,
		SearchPaths: searchPaths,
		FindLocal:   localscan.FindLocal,
		Progress:    sink,
	}

	plan, err := resolver.Resolve(ctx, client, userSpecs, opts)
	if err != nil {
		prog.quit()
		logger.Fatal("resolving modules: %v", err)
	}
	logger.Info("resolved plan with %d module(s)", plan.Len())

	if err := installer.Install(ctx, client, plan.All(), installer.Options{
		Destination: flags.Destination,
		Cache:       flags.Cache,
		Progress:    sink,
	}); err != nil {
		prog.quit()
		logger.Fatal("installing modules: %v", err)
	}

	prog.quit()
	fmt.Printf("installed %d module(s) into %s\n", plan.Len(), flags.Destination)
	for _, r := range plan.All() {
		ver := version.DisplayString(r.Min)
		link := registry.InferPackageURL(flags.Source, r.Name, ver, r.ProjectURL)
		fmt.Printf("  %-40s %-12s %s\n", r.Name, ver, link)
	}
}
