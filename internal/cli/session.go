package cli

import (
	"context"
	"fmt"

	"github.com/homeledger/homeledger/internal/models"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history <session-id>",
	Short: "Show the transcript of a chat session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		messages, err := api.History(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("fetch history: %w", err)
		}
		if len(messages) == 0 {
			fmt.Println("No messages in this session.")
			return nil
		}

		for _, msg := range messages {
			switch msg.Role {
			case models.RoleHuman:
				fmt.Println(defaultTheme.userStyle().Render("you> ") + msg.Text)
			default:
				fmt.Println(defaultTheme.assistantStyle().Render(msg.Text))
			}
		}
		return nil
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage chat sessions",
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear <session-id>",
	Short: "Delete a chat session and its history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.ClearSession(context.Background(), args[0]); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		fmt.Println(defaultTheme.successStyle().Render("Session cleared."))
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionClearCmd)
}
