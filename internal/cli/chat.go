package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var chatSessionID string

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Talk to the expense assistant",
	Long: `Send a message to the expense assistant and print its reply.

With a message argument this runs one turn. Without arguments it starts
an interactive session; type 'exit' or press Ctrl-D to leave.

Examples:
  homeledger chat "Add electricity bill for $45.50"
  homeledger chat "What bills are due soon?"
  homeledger chat`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatSessionID, "session", "s", "", "session id to continue (default: new session)")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sessionID := chatSessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if len(args) == 1 {
		return chatOnce(ctx, sessionID, args[0])
	}
	return chatInteractive(ctx, sessionID)
}

func chatOnce(ctx context.Context, sessionID, message string) error {
	result, err := api.Chat(ctx, sessionID, message)
	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}

	fmt.Println(defaultTheme.assistantStyle().Render(result.Response))
	if verbose {
		fmt.Println(defaultTheme.hintStyle().Render(
			fmt.Sprintf("session=%s intent=%s step=%d", result.SessionID, result.Intent, result.ConversationStep)))
	}
	return nil
}

func chatInteractive(ctx context.Context, sessionID string) error {
	fmt.Println(defaultTheme.hintStyle().Render(
		fmt.Sprintf("Chatting with HomeLedger (session %s). Type 'exit' to quit.", sessionID)))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(defaultTheme.userStyle().Render("you> "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if message == "exit" || message == "quit" {
			return nil
		}

		result, err := api.Chat(ctx, sessionID, message)
		if err != nil {
			fmt.Println(defaultTheme.errorStyle().Render(fmt.Sprintf("error: %v", err)))
			continue
		}
		fmt.Println(defaultTheme.assistantStyle().Render(result.Response))
	}
}
