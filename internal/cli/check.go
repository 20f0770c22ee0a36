package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/factchecker/newscred/internal/extract"
	"github.com/factchecker/newscred/internal/factcheck"
	"github.com/factchecker/newscred/internal/fetch"
	"github.com/factchecker/newscred/internal/logging"
	"github.com/factchecker/newscred/internal/models"
	"github.com/factchecker/newscred/internal/verify"
	"github.com/spf13/cobra"
)

var (
	checkTitle       string
	checkContent     string
	checkContentFile string
	checkURL         string
	checkNoFetch     bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a single news item and print the result as JSON",
	Example: `  newscred check --title "Council approves budget" --content "The council voted..."
  newscred check --title "Council approves budget" --content-file story.txt --url https://news.example/a
  cat story.txt | newscred check --title "Council approves budget" --content-file -`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkTitle, "title", "", "news title")
	checkCmd.Flags().StringVar(&checkContent, "content", "", "news body text")
	checkCmd.Flags().StringVar(&checkContentFile, "content-file", "", "read the body from a file (- for stdin)")
	checkCmd.Flags().StringVar(&checkURL, "url", "", "article URL to harvest additional claims from")
	checkCmd.Flags().BoolVar(&checkNoFetch, "no-fetch", false, "never fetch the article URL")
	checkCmd.MarkFlagsMutuallyExclusive("content", "content-file")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logging.Setup(cfg.Logging)

	req := &models.CheckRequest{URL: checkURL}
	if cmd.Flags().Changed("title") {
		req.Title = &checkTitle
	}
	switch {
	case cmd.Flags().Changed("content"):
		req.Content = &checkContent
	case checkContentFile != "":
		body, err := readContent(cmd.InOrStdin(), checkContentFile)
		if err != nil {
			return err
		}
		req.Content = &body
	}

	var fetcher extract.PageFetcher
	if !checkNoFetch {
		fetcher = fetch.NewFetcher(cfg.Fetch)
	}
	engine, err := verify.NewEngine(cfg, factcheck.NewGoogleClient(cfg.FactCheck), fetcher)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	resp, err := engine.Check(cmd.Context(), req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func readContent(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read content file: %w", err)
	}
	return string(data), nil
}
