package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mohammad-safakhou/grocer/internal/assistant"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func chatCMD(opts *rootOptions) *cobra.Command {
	var sessionID string
	var chat = &cobra.Command{
		Use:   "chat",
		Short: "Interactive shopping assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			a.printDisabled(cmd.ErrOrStderr())

			if sessionID == "" {
				if sessionID, err = a.store.Create(ctx); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s. Ask about products at %s. Empty line or \"exit\" quits.\n", sessionID, retailerNames(a))
			return a.chatLoop(ctx, sessionID, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	chat.Flags().StringVar(&sessionID, "session", "", "resume an existing session id")
	return chat
}

func (a *app) chatLoop(ctx context.Context, sessionID string, in io.Reader, out, errOut io.Writer) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\n> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		question := strings.TrimSpace(sc.Text())
		if question == "" || question == "exit" || question == "quit" {
			return nil
		}
		if err := a.answer(ctx, sessionID, question, out, errOut); err != nil {
			return err
		}
	}
}

// answer runs one turn, streams it to out and records the exchange
func (a *app) answer(ctx context.Context, sessionID, question string, out, errOut io.Writer) error {
	history, err := a.store.History(ctx, sessionID)
	if err != nil {
		return err
	}
	turn := a.assistant.Turn(ctx, question, history, terminalProgress{out: out, err: errOut})
	fmt.Fprintln(out)
	answer, streamErr := a.assistant.Reply(ctx, turn, func(chunk string) { fmt.Fprint(out, chunk) })
	fmt.Fprintln(out)
	if streamErr != nil {
		fmt.Fprintf(errOut, "warning: answer interrupted: %v\n", streamErr)
	}
	if answer == "" {
		answer = assistant.Apology
	}
	printSources(out, turn)

	if err := a.store.Append(context.WithoutCancel(ctx), sessionID, assistant.Exchange(question, answer)...); err != nil {
		a.logger.Error("failed to append history", zap.String("session", sessionID), zap.Error(err))
	}
	return nil
}

func retailerNames(a *app) string {
	var names []string
	for _, r := range a.assistant.Retailers() {
		names = append(names, r.Name)
	}
	return strings.Join(names, ", ")
}
