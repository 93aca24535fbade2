package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewConvertCommand builds the "convert" subcommand: it loads a cassette
// through one backend and saves it through another, letting a fixture move
// between the reference JSON format and the SQLite backend without going
// through application code.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	var fromBackend, toBackend string

	cmd := &cobra.Command{
		Use:           "convert <src-path> <dst-path>",
		Short:         "Convert a cassette between store backends",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(rootOpts, fromBackend, toBackend, args[0], args[1], cmd)
		},
	}
	cmd.Flags().StringVar(&fromBackend, "from", "json", "source backend (json|sqlite)")
	cmd.Flags().StringVar(&toBackend, "to", "sqlite", "destination backend (json|sqlite)")

	return cmd
}

func runConvert(opts *RootOptions, fromBackend, toBackend, srcPath, dstPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	src, err := openStore(fromBackend, srcPath, false)
	if err != nil {
		return outputCommandError(formatter, "E_BACKEND", err.Error())
	}
	dst, err := openStore(toBackend, dstPath, true)
	if err != nil {
		return outputCommandError(formatter, "E_BACKEND", err.Error())
	}

	formatter.VerboseLog("loading %s (%s)", srcPath, fromBackend)
	c, err := src.Load()
	if err != nil {
		return outputCommandError(formatter, "E_LOAD", err.Error())
	}

	formatter.VerboseLog("saving %s (%s)", dstPath, toBackend)
	if err := dst.Save(c); err != nil {
		return outputCommandError(formatter, "E_SAVE", err.Error())
	}

	message := fmt.Sprintf("converted %d interaction(s) from %s to %s", c.Len(), srcPath, dstPath)
	if opts.Format == "json" {
		return wrapFormatterErr(formatter.Success(map[string]interface{}{
			"interactions": c.Len(),
			"src":          srcPath,
			"dst":          dstPath,
		}))
	}
	fmt.Fprintln(formatter.Writer, message)
	return nil
}
