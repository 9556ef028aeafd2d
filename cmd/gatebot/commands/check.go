package commands

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	tgbot "github.com/go-telegram/bot"
	"github.com/spf13/cobra"

	"github.com/edgard/gatebot/internal/telegram"
	"github.com/edgard/gatebot/internal/verifier"
)

var checkCmd = &cobra.Command{
	Use:   "check <user-id>",
	Short: "Check one user's channel memberships",
	Long: `Query every configured channel for the given Telegram user id and print
the per-channel status. Useful to confirm the bot is an administrator in each
channel before going live.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || userID <= 0 {
			return fmt.Errorf("invalid user id %q", args[0])
		}

		cfg, log, err := setup()
		if err != nil {
			return err
		}

		tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, tgbot.WithSkipGetMe())
		if err != nil {
			return err
		}

		v := verifier.New(tg, cfg.Gate.Channels, cfg.Verifier.QueryTimeout, log)
		details := v.CheckDetailed(cmd.Context(), userID)

		allJoined := printMemberships(cmd.OutOrStdout(), details)
		if !allJoined {
			return fmt.Errorf("user %d has not joined every channel", userID)
		}
		return nil
	},
}

// printMemberships writes one row per channel and reports whether every
// channel is joined.
func printMemberships(out io.Writer, details []verifier.Membership) bool {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHANNEL\tID\tSTATUS\tJOINED")

	allJoined := true
	for _, d := range details {
		status := string(d.Status)
		if d.Err != nil {
			status = "error: " + d.Err.Error()
		}
		joined := "yes"
		if !d.Subscribed {
			joined = "no"
			allJoined = false
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Channel.Name, d.Channel.ID, status, joined)
	}
	_ = w.Flush()
	return allJoined
}
