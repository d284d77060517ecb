package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAsk(cmd, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}

// runAsk resolves one query through the full pipeline and prints the
// structured answer.
func runAsk(cmd *cobra.Command, query string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	svc, err := buildAnswerService(cfg, logger)
	if err != nil {
		return err
	}

	answerText := svc.Answer(cmd.Context(), query, nil)
	fmt.Fprintln(cmd.OutOrStdout(), answerText)
	return nil
}
