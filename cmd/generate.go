package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/readmify/readmify/gate"
	"github.com/readmify/readmify/logger"
	"github.com/readmify/readmify/panel"
	"github.com/readmify/readmify/readme"
	"github.com/readmify/readmify/repo"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <repo-url>",
	Short: "Generate a README for a repository",
	Long: `Validate the API key, then ask the generation service for a README of the
repository. The README is printed to stdout exactly as received.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repoURL := args[0]
		ctx := cmd.Context()

		if preflight, _ := cmd.Flags().GetBool("preflight"); preflight {
			info, err := repo.Preflight(ctx, repoURL)
			if err != nil {
				return fmt.Errorf("repository check failed: %w", err)
			}
			logger.Infow("Repository reachable",
				"repository", info.FullName,
				"default_branch", info.DefaultBranch,
				"private", info.Private,
			)
			if info.Private {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s is private; the generation service can only read public repositories\n", info.FullName)
			}
		}

		key, err := readAPIKey(cmd)
		if err != nil {
			return err
		}

		if dir, _ := cmd.Flags().GetString("download"); strings.TrimSpace(dir) != "" {
			settings.DownloadDir = dir
		}
		page, err := newPage(settings)
		if err != nil {
			return err
		}

		page.SetCredential(key)
		if !page.Gate().CanValidate() {
			return errors.New("API key is empty")
		}
		if page.Validate(ctx) != gate.StatusValid {
			fmt.Fprintln(cmd.ErrOrStderr(), invalidKeyMessage)
			return errInvalidKey
		}

		p, ok := page.Panel()
		if !ok {
			return errInvalidKey
		}
		p.SetRepoURL(repoURL)
		if !p.CanGenerate() {
			return errors.New("repository URL is empty")
		}
		p.Generate(ctx)

		text, ok := p.Result()
		if !ok {
			return errors.New(p.Error())
		}
		fmt.Fprint(cmd.OutOrStdout(), text)

		return export(cmd, p, text)
	},
}

// export runs the optional copy, download and outline steps
func export(cmd *cobra.Command, p *panel.Panel, text string) error {
	if outline, _ := cmd.Flags().GetBool("outline"); outline {
		fmt.Fprint(cmd.ErrOrStderr(), readme.String(readme.Outline(text)))
	}

	if copyFlag, _ := cmd.Flags().GetBool("copy"); copyFlag {
		p.Copy()
		if !p.Copied() {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: clipboard is not available")
		}
	}

	if cmd.Flags().Changed("download") {
		path, err := p.Download()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s to %s\n", panel.DownloadFilename, path)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("api-key", "", "Gemini API key (defaults to $READMIFY_API_KEY, then a prompt)")
	generateCmd.Flags().Bool("copy", false, "Copy the README to the clipboard")
	generateCmd.Flags().String("download", "", "Save README.md to a directory (defaults to the configured download directory)")
	generateCmd.Flags().Lookup("download").NoOptDefVal = " "
	generateCmd.Flags().Bool("preflight", false, "Check that the repository is reachable before generating")
	generateCmd.Flags().Bool("outline", false, "Print the README's heading outline to stderr")
}
