package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"trendpulse/internal/config"
	"trendpulse/internal/core"
	"trendpulse/internal/logger"
)

// NewGenerateCmd creates the generate command for one-shot insight generation
func NewGenerateCmd() *cobra.Command {
	var register bool

	cmd := &cobra.Command{
		Use:   "generate [keyword]",
		Short: "Generate an insight and posts for a keyword",
		Long: `Fetch recent posts for the keyword, summarize the trend with AI, and
derive tweet drafts plus an Instagram post. Everything is persisted and
printed to stdout.

Examples:
  trendpulse generate 인공지능
  trendpulse generate --register coffee`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(args[0], register)
		},
	}

	cmd.Flags().BoolVar(&register, "register", false, "Register the keyword for scheduled runs if it is not tracked yet")

	return cmd
}

func runGenerate(keywordText string, register bool) error {
	cfg := config.Get()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	keyword, err := st.GetKeywordByText(keywordText)
	if err != nil {
		return fmt.Errorf("failed to look up keyword: %w", err)
	}
	if keyword == nil {
		if !register {
			return fmt.Errorf("keyword %q is not tracked; add it with 'trendpulse keyword add' or pass --register", keywordText)
		}
		keyword, err = st.CreateKeyword(keywordText)
		if err != nil {
			return fmt.Errorf("failed to register keyword: %w", err)
		}
		logger.Info("keyword registered", "keyword", keyword.Keyword, "id", keyword.ID)
	}

	pl := buildPipeline(cfg, st)
	insight, err := pl.GenerateForKeyword(context.Background(), *keyword)
	if err != nil {
		return fmt.Errorf("insight generation failed: %w", err)
	}

	posts, err := st.ListPosts(insight.ID, "", 0)
	if err != nil {
		return fmt.Errorf("failed to load generated posts: %w", err)
	}

	printInsight(insight, posts)
	return nil
}

func printInsight(insight *core.Insight, posts []core.Post) {
	fmt.Printf("Insight %s for %q (%d sources analyzed)\n\n", insight.ID, insight.Keyword, insight.SourcesAnalyzed)
	fmt.Println("한글 요약:")
	fmt.Println(insight.SummaryKR)
	fmt.Println()
	fmt.Println("English summary:")
	fmt.Println(insight.SummaryEN)

	for _, post := range posts {
		fmt.Println()
		switch post.Type {
		case core.PostTypeTweet:
			fmt.Printf("Tweet draft:\n%s\n", post.Content)
		case core.PostTypeInstagram:
			fmt.Printf("Instagram post:\n%s\n", post.Content)
			if len(post.Hashtags) > 0 {
				fmt.Printf("Hashtags: #%s\n", strings.Join(post.Hashtags, " #"))
			}
		}
	}
}
