package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/interposition/cassette"
)

// InteractionSummary is the JSON-mode payload for one cassette entry.
type InteractionSummary struct {
	Position    int    `json:"position"`
	Protocol    string `json:"protocol"`
	Action      string `json:"action"`
	Target      string `json:"target"`
	Fingerprint string `json:"fingerprint"`
	Chunks      int    `json:"chunks"`
}

// InspectResult is the JSON-mode payload for the inspect command.
type InspectResult struct {
	Path         string               `json:"path"`
	Interactions []InteractionSummary `json:"interactions"`
}

// NewInspectCommand builds the "inspect" subcommand: it loads a cassette and
// prints a summary of every interaction it contains.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:           "inspect [cassette-path]",
		Short:         "Print a summary of a cassette's interactions",
		Long:          "Print a summary of a cassette's interactions. The path may be omitted if --config supplies a cassette_path.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := argOrEmpty(args)
			return runInspect(rootOpts, backend, path, cmd)
		},
	}
	// Default left empty (not "json") so a config file's default_backend can
	// actually take effect when --backend is not passed explicitly; openStore
	// treats "" the same as "json" once config/flag resolution is done.
	cmd.Flags().StringVar(&backend, "backend", "", "cassette store backend (json|sqlite, default json)")

	return cmd
}

func runInspect(opts *RootOptions, backend, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return outputCommandError(formatter, "E_CONFIG", err.Error())
	}
	backend, path = applyDefaults(cfg, backend, path)
	if path == "" {
		return outputCommandError(formatter, "E_ARGS", "no cassette path given and no cassette_path in config")
	}

	cassetteStore, err := openStore(backend, path, false)
	if err != nil {
		return outputCommandError(formatter, "E_BACKEND", err.Error())
	}

	formatter.VerboseLog("loading cassette from %s", path)
	c, err := cassetteStore.Load()
	if err != nil {
		return outputCommandError(formatter, "E_LOAD", err.Error())
	}

	result := InspectResult{Path: path, Interactions: summarize(c)}

	if opts.Format == "json" {
		return wrapFormatterErr(formatter.Success(result))
	}

	fmt.Fprintf(formatter.Writer, "%s: %d interaction(s)\n", path, c.Len())
	for _, s := range result.Interactions {
		fmt.Fprintf(formatter.Writer, "  [%d] %s %s %s (fingerprint=%s, chunks=%d)\n",
			s.Position, s.Protocol, s.Action, s.Target, s.Fingerprint, s.Chunks)
	}
	return nil
}

func summarize(c cassette.Cassette) []InteractionSummary {
	summaries := make([]InteractionSummary, 0, c.Len())
	for i, in := range c.Interactions() {
		summaries = append(summaries, InteractionSummary{
			Position:    i,
			Protocol:    in.Request.Protocol,
			Action:      in.Request.Action,
			Target:      in.Request.Target,
			Fingerprint: in.Fingerprint.String(),
			Chunks:      len(in.ResponseChunks),
		})
	}
	return summaries
}

func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, message)
}

func wrapFormatterErr(err error) error {
	if err != nil {
		return WrapExitError(ExitCommandError, "write output", err)
	}
	return nil
}
