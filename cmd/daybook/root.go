package main

import (
	"github.com/spf13/cobra"
	"github.com/terraincognita07/daybook/internal/cli"
	"github.com/terraincognita07/daybook/internal/config"
)

type rootOptions struct {
	envFile string
}

func newRootCommand() *cobra.Command {
	options := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "daybook",
		Short:         "Daybook notes, day ratings and daily polls API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&options.envFile, "env-file", ".env", "Optional dotenv file loaded before reading the environment")

	rootCmd.AddCommand(
		newServeCommand(options),
		newResetPasswordCommand(options),
		newCreateStaffCommand(options),
		newSeedPromptsCommand(options),
	)
	return rootCmd
}

func newServeCommand(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background poll runner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(options.envFile)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

func newResetPasswordCommand(options *rootOptions) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Replace a user's password with a printed temporary one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbConfig, err := config.LoadDatabase(options.envFile)
			if err != nil {
				return err
			}
			return cli.RunResetPasswordCommand(dbConfig, email, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email of the account to reset")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newCreateStaffCommand(options *rootOptions) *cobra.Command {
	input := cli.CreateStaffInput{}
	cmd := &cobra.Command{
		Use:   "create-staff",
		Short: "Create a staff account, prompting for its password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbConfig, err := config.LoadDatabase(options.envFile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return cli.RunCreateStaffCommand(dbConfig, input, cli.TerminalPasswordReader(out), out)
		},
	}
	cmd.Flags().StringVar(&input.Email, "email", "", "Email of the new staff account")
	cmd.Flags().StringVar(&input.FirstName, "first-name", "", "First name of the new staff account")
	cmd.Flags().StringVar(&input.LastName, "last-name", "", "Last name of the new staff account")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("first-name")
	return cmd
}

func newSeedPromptsCommand(options *rootOptions) *cobra.Command {
	var promptsFile string
	cmd := &cobra.Command{
		Use:   "seed-prompts",
		Short: "Store the poll prompt catalog if none is stored yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbConfig, err := config.LoadDatabase(options.envFile)
			if err != nil {
				return err
			}
			return cli.RunSeedPromptsCommand(dbConfig, promptsFile, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&promptsFile, "prompts-file", "", "YAML prompt catalog; the built-in catalog is used when empty")
	return cmd
}
