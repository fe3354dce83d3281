package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"porch/lint"
	"porch/site"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Runs the document-hygiene checks over the content tree",
	Long: `The check command loads every content file, then verifies
front-matter fields, dates, permalink uniqueness, internal links, and
deck structure. Exits non-zero when any issue is found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(ctx context.Context) error {
	lib, err := site.Load(appConfig.ContentDir)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}
	fmt.Printf("Checking %d documents in '%s'\n", len(lib.Documents), appConfig.ContentDir)

	issues, err := lint.All(ctx, lib, appConfig.StaticDir)
	if err != nil {
		return fmt.Errorf("running checks: %w", err)
	}

	for _, issue := range issues {
		fmt.Fprintln(os.Stderr, issue)
	}
	if len(issues) > 0 {
		return fmt.Errorf("%d issue(s) found", len(issues))
	}
	fmt.Println("No issues found.")
	return nil
}
