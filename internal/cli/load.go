package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nauticalab/layerconf/internal/provenance"
	"github.com/nauticalab/layerconf/pkg/layerconf"
	"github.com/nauticalab/layerconf/pkg/settings"
)

// LoadOptions holds the flags shared by every command that loads a
// configuration. Empty fields leave the environment untouched.
type LoadOptions struct {
	BaseLocation string
	DefaultFile  string
	Additional   string
	Profiles     string
	RootDir      string
	Verbose      bool

	// Environ replaces os.Environ when non-nil
	Environ []string
	// Stderr receives logs and status messages, os.Stderr when nil
	Stderr io.Writer
}

// environ returns the environment for a load with flags layered on top.
// Flags are appended last so they win over variables of the same name.
func (o LoadOptions) environ(profiles string) []string {
	environ := o.Environ
	if environ == nil {
		environ = os.Environ()
	}
	environ = append([]string(nil), environ...)

	properties := settings.DefaultProperties()
	overrides := []struct {
		name  string
		value string
	}{
		{properties.BaseLocation.Name, o.BaseLocation},
		{properties.DefaultFile.Name, o.DefaultFile},
		{properties.AdditionalFiles.Name, o.Additional},
		{properties.ActiveProfiles.Name, profiles},
	}
	for _, override := range overrides {
		if override.value != "" {
			environ = append(environ, override.name+"="+override.value)
		}
	}

	return environ
}

func (o LoadOptions) stderr() io.Writer {
	if o.Stderr == nil {
		return os.Stderr
	}
	return o.Stderr
}

// logger writes debug logs to stderr in verbose mode and nothing otherwise.
func (o LoadOptions) logger() *slog.Logger {
	if !o.Verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(o.stderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newManager[T any](o LoadOptions, v layerconf.Validator[T], profiles string) *layerconf.Manager[T] {
	return layerconf.New(v,
		layerconf.WithEnviron(o.environ(profiles)),
		layerconf.WithRootDir(o.RootDir),
		layerconf.WithLogger(o.logger()),
	)
}

// printLoadSummary prints the files and profiles of a load and, when the
// files live in a git repository, the revision they come from.
func printLoadSummary(w io.Writer, files, profiles []string) {
	fmt.Fprintf(w, "\nLoad Summary:\n")
	fmt.Fprintf(w, "  Profiles: %s\n", strings.Join(profiles, ", "))
	if len(files) == 0 {
		fmt.Fprintf(w, "  Files: none\n")
		return
	}
	fmt.Fprintf(w, "  Files:\n")
	for _, file := range files {
		fmt.Fprintf(w, "    - %s\n", file)
	}

	rev, err := provenance.Describe(filepath.Dir(files[0]), files)
	if err != nil {
		fmt.Fprintf(w, "⚠️  Warning: revision unavailable: %v\n", err)
		return
	}

	commit := rev.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	fmt.Fprintf(w, "  Revision: %s (%s)\n", commit, rev.Branch)
	if len(rev.Tags) > 0 {
		fmt.Fprintf(w, "  Tags: %s\n", strings.Join(rev.Tags, ", "))
	}
	if len(rev.Changed) > 0 {
		fmt.Fprintf(w, "⚠️  Warning: uncommitted changes in %s\n", strings.Join(rev.Changed, ", "))
	}
}
