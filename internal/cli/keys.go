package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/factchecker/newscred/internal/api"
	"github.com/factchecker/newscred/internal/database"
	"github.com/spf13/cobra"
)

var (
	keyName string
	keyRPM  int
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage API keys",
}

var keysCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		rawKey, key, err := api.NewAPIKey(keyName, keyRPM)
		if err != nil {
			return err
		}
		if err := store.CreateAPIKey(cmd.Context(), key); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created key %s (%s, %d req/min)\n", key.ID, key.Name, key.RequestsPerMinute)
		fmt.Fprintf(cmd.OutOrStdout(), "Key: %s\n", rawKey)
		fmt.Fprintln(cmd.OutOrStdout(), "Store it now; it cannot be shown again.")
		return nil
	},
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List API keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		keys, err := store.ListAPIKeys(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tREQ/MIN\tCREATED\tLAST USED")
		for _, k := range keys {
			lastUsed := "never"
			if k.LastUsedAt != nil {
				lastUsed = k.LastUsedAt.Format(time.RFC3339)
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", k.ID, k.Name, k.RequestsPerMinute, k.CreatedAt.Format(time.RFC3339), lastUsed)
		}
		return w.Flush()
	},
}

var keysDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeleteAPIKey(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted key %s\n", args[0])
		return nil
	},
}

func init() {
	keysCreateCmd.Flags().StringVarP(&keyName, "name", "n", "", "key name")
	keysCreateCmd.Flags().IntVar(&keyRPM, "rpm", api.DefaultKeyRequestsPerMinute, "requests per minute")
	_ = keysCreateCmd.MarkFlagRequired("name")

	keysCmd.AddCommand(keysCreateCmd)
	keysCmd.AddCommand(keysListCmd)
	keysCmd.AddCommand(keysDeleteCmd)
}

func openStore(cmd *cobra.Command) (*database.SQLiteStore, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	store, err := database.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return store, nil
}
