package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"trendpulse/internal/config"
	"trendpulse/internal/store"
)

// NewKeywordCmd creates the keyword command group
func NewKeywordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyword",
		Short: "Manage tracked keywords",
		Long: `Manage the keywords TrendPulse tracks.

Examples:
  trendpulse keyword add 인공지능
  trendpulse keyword list
  trendpulse keyword toggle <id>
  trendpulse keyword remove <id>`,
	}

	cmd.AddCommand(newKeywordAddCmd())
	cmd.AddCommand(newKeywordListCmd())
	cmd.AddCommand(newKeywordToggleCmd())
	cmd.AddCommand(newKeywordRemoveCmd())

	return cmd
}

func newKeywordAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [keyword]",
		Short: "Track a new keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *store.Store) error {
				keyword, err := st.CreateKeyword(args[0])
				if err != nil {
					return fmt.Errorf("failed to add keyword: %w", err)
				}
				fmt.Printf("Added keyword %q (%s)\n", keyword.Keyword, keyword.ID)
				return nil
			})
		},
	}
}

func newKeywordListCmd() *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked keywords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *store.Store) error {
				keywords, err := st.ListKeywords(activeOnly)
				if err != nil {
					return fmt.Errorf("failed to list keywords: %w", err)
				}
				if len(keywords) == 0 {
					fmt.Println("No keywords tracked yet.")
					return nil
				}
				for _, keyword := range keywords {
					state := "active"
					if !keyword.IsActive {
						state = "inactive"
					}
					fmt.Printf("%s  %-8s  %s\n", keyword.ID, state, keyword.Keyword)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only show active keywords")
	return cmd
}

func newKeywordToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle [id]",
		Short: "Toggle a keyword between active and inactive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *store.Store) error {
				keyword, err := st.GetKeyword(args[0])
				if err != nil {
					return fmt.Errorf("failed to load keyword: %w", err)
				}
				if keyword == nil {
					return fmt.Errorf("keyword %s not found", args[0])
				}
				if _, err := st.SetKeywordActive(keyword.ID, !keyword.IsActive); err != nil {
					return fmt.Errorf("failed to toggle keyword: %w", err)
				}
				state := "active"
				if keyword.IsActive {
					state = "inactive"
				}
				fmt.Printf("Keyword %q is now %s\n", keyword.Keyword, state)
				return nil
			})
		},
	}
}

func newKeywordRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [id]",
		Short: "Remove a keyword and its insights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *store.Store) error {
				deleted, err := st.DeleteKeyword(args[0])
				if err != nil {
					return fmt.Errorf("failed to remove keyword: %w", err)
				}
				if !deleted {
					return fmt.Errorf("keyword %s not found", args[0])
				}
				fmt.Println("Keyword removed.")
				return nil
			})
		},
	}
}

// withStore opens the store, runs fn, and closes it.
func withStore(fn func(st *store.Store) error) error {
	st, err := openStore(config.Get())
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}
