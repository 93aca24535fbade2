package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/interposition/request"
)

// ValidationIssue is one discrepancy found in a cassette during validate.
type ValidationIssue struct {
	Position int    `json:"position"`
	Message  string `json:"message"`
}

// ValidateResult is the JSON-mode payload for the validate command.
type ValidateResult struct {
	Path   string            `json:"path"`
	Valid  bool              `json:"valid"`
	Issues []ValidationIssue `json:"issues,omitempty"`
}

// NewValidateCommand builds the "validate" subcommand: it loads a cassette
// and recomputes every interaction's fingerprint, flagging any interaction
// whose stored fingerprint no longer matches its request (for example,
// after hand-editing a cassette file).
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:           "validate [cassette-path]",
		Short:         "Validate a cassette's stored fingerprints against its requests",
		Long:          "Validate a cassette's stored fingerprints against its requests. The path may be omitted if --config supplies a cassette_path.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := argOrEmpty(args)
			return runValidate(rootOpts, backend, path, cmd)
		},
	}
	// Default left empty (not "json") so a config file's default_backend can
	// actually take effect when --backend is not passed explicitly; openStore
	// treats "" the same as "json" once config/flag resolution is done.
	cmd.Flags().StringVar(&backend, "backend", "", "cassette store backend (json|sqlite, default json)")

	return cmd
}

func runValidate(opts *RootOptions, backend, path string, cmd *cobra.Command) error {
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

	c, err := cassetteStore.Load()
	if err != nil {
		return outputCommandError(formatter, "E_LOAD", err.Error())
	}

	var issues []ValidationIssue
	for i, in := range c.Interactions() {
		formatter.VerboseLog("checking interaction %d (%s %s)", i, in.Request.Protocol, in.Request.Target)
		fp, err := request.FingerprintOf(in.Request)
		if err != nil {
			issues = append(issues, ValidationIssue{Position: i, Message: err.Error()})
			continue
		}
		if fp != in.Fingerprint {
			issues = append(issues, ValidationIssue{
				Position: i,
				Message:  fmt.Sprintf("stored fingerprint %s does not match recomputed %s", in.Fingerprint, fp),
			})
		}
	}

	result := ValidateResult{Path: path, Valid: len(issues) == 0, Issues: issues}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return wrapFormatterErr(err)
		}
	} else if result.Valid {
		fmt.Fprintf(formatter.Writer, "%s: valid (%d interaction(s))\n", path, c.Len())
	} else {
		fmt.Fprintf(formatter.Writer, "%s: invalid\n", path)
		for _, issue := range issues {
			fmt.Fprintf(formatter.Writer, "  [%d] %s\n", issue.Position, issue.Message)
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "cassette failed validation")
	}
	return nil
}
