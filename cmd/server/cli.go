package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// appProvider builds the application. logOut receives the structured logs.
type appProvider func(ctx context.Context, logOut io.Writer) (*application, error)

// CLI is the command line interface of the server binary.
type CLI struct {
	provider appProvider
	rootCmd  *cobra.Command
}

func newCLI(provider appProvider) *CLI {
	rootCmd := &cobra.Command{
		Use:           "taskgate",
		Short:         "Natural-language task gateway for file-processing operations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	c := &CLI{
		provider: provider,
		rootCmd:  rootCmd,
	}

	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newParseCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func (c *CLI) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.provider(cmd.Context(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
}

func (c *CLI) newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <description>",
		Short: "Parse a task description and print the resolved plan without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Logs go to stderr so stdout carries only the plan
			app, err := c.provider(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.cleanup()

			plan, err := app.taskService.PlanTask(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to plan task: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(plan)
		},
	}
}
