package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/rebeliceyang/lazyfilter/internal/source"
	"github.com/spf13/cobra"
)

func newPasswordCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "password",
		Short: "Store the configured PostgreSQL password in the OS keyring",
		Long: `Reads a password from stdin and stores it in the OS keyring under the
configured postgres user, host, port and database. Set postgres.use_keyring
to have --pg-table pick it up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pg := source.ApplyEnvironment(a.cfg.Postgres)
			fmt.Fprintf(cmd.ErrOrStderr(), "Password for %s: ", pg.KeyringKey())

			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password := strings.TrimRight(line, "\r\n")
			if password == "" {
				return fmt.Errorf("password cannot be empty")
			}

			if err := source.StorePassword(pg, password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password saved to keyring")
			return nil
		},
	}
}
