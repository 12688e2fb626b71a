package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"postproof/internal/adapters/platforms"
	"postproof/internal/app"
	"postproof/internal/config"
	"postproof/internal/domain"

	"github.com/spf13/cobra"
)

var (
	verifyURL      string
	verifyKeywords []string
	verifyPlatform string
	verifyTimeout  time.Duration
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a post for keywords",
	Long: `Run the platform's scraping actor for a post and print which keywords
it contains as JSON. Requires APIFY_API_TOKEN.`,
	Example: `  postproof verify --url https://x.com/acme/status/1790000000000000000 --keyword launch --keyword "#promo"`,
	RunE:    runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyURL, "url", "", "post URL (required)")
	verifyCmd.Flags().StringArrayVarP(&verifyKeywords, "keyword", "k", nil, "required keyword, repeatable (required)")
	verifyCmd.Flags().StringVar(&verifyPlatform, "platform", "", "skip detection: x, threads, facebook or linkedin")
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 0, "overall deadline (default VERIFY_TIMEOUT)")
	_ = verifyCmd.MarkFlagRequired("url")
	_ = verifyCmd.MarkFlagRequired("keyword")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForVerify(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	var platform domain.Platform
	if verifyPlatform != "" {
		if platform, err = domain.ParsePlatform(verifyPlatform); err != nil {
			return err
		}
	}

	actors, err := platforms.LoadActorConfig(cfg.ActorsConfig, 0)
	if err != nil {
		return fmt.Errorf("load actor config: %w", err)
	}
	defer actors.Close()

	timeout := verifyTimeout
	if timeout <= 0 {
		timeout = cfg.VerifyTimeout
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	result, err := app.NewVerifier(cfg, actors, nil).Execute(ctx, domain.VerifyKeywordsInput{
		Platform: platform,
		URL:      verifyURL,
		Keywords: verifyKeywords,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", domain.KindOf(err), err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
