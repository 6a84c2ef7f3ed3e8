package cli

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"hrpilot/internal/panel"
	"hrpilot/internal/types"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to an HR assistant persona",
	Long: `Start an interactive conversation. Commands:

  /persona <recruiter|policy|culture>  switch persona (starts a new conversation)
  /lang <vi|en>                        switch language (starts a new conversation)
  /think <on|off>                      toggle extended reasoning
  /clear                               clear the conversation
  /quit                                leave`,
	Args: cobra.NoArgs,
	RunE: withRuntime(runChat),
}

var chatFlags struct {
	Persona  string
	Thinking bool
}

func init() {
	chatCmd.Flags().StringVar(&chatFlags.Persona, "persona", string(types.DefaultPersona), "Persona: recruiter, policy or culture")
	chatCmd.Flags().BoolVar(&chatFlags.Thinking, "thinking", false, "Use the reasoning model with a thinking budget")
}

func runChat(cmd *cobra.Command, _ []string, r *runtime) error {
	persona, err := types.ParsePersona(chatFlags.Persona)
	if err != nil {
		return err
	}

	chat := r.workspace.Chatbot
	chat.SetPersona(persona)
	chat.SetThinking(chatFlags.Thinking)

	s := &chatSession{ws: r.workspace, out: cmd.OutOrStdout()}
	s.printLast()
	return s.loop(cmd, bufio.NewScanner(cmd.InOrStdin()))
}

type chatSession struct {
	ws  *panel.Workspace
	out io.Writer
}

func (s *chatSession) prompt() {
	st := s.ws.Chatbot.State()
	fmt.Fprintf(s.out, "[%s] > ", st.Persona.Label(s.ws.Language()))
}

func (s *chatSession) printLast() {
	msgs := s.ws.Chatbot.State().Messages
	if len(msgs) > 0 {
		fmt.Fprintf(s.out, "%s\n\n", msgs[len(msgs)-1].Text)
	}
}

func (s *chatSession) loop(cmd *cobra.Command, in *bufio.Scanner) error {
	for {
		s.prompt()
		if !in.Scan() {
			fmt.Fprintln(s.out)
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := s.command(line)
			if err != nil {
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
			if quit {
				return nil
			}
			continue
		}

		reply, err := s.ws.Chatbot.Send(cmd.Context(), line)
		switch {
		case stderrors.Is(err, panel.ErrStale):
			continue
		case err != nil:
			fmt.Fprintf(s.out, "error: %v\n", err)
			continue
		}
		fmt.Fprintf(s.out, "%s\n\n", reply.Text)

		if cmd.Context().Err() != nil {
			return cmd.Context().Err()
		}
	}
}

// command handles a slash command and reports whether to quit.
func (s *chatSession) command(line string) (bool, error) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	chat := s.ws.Chatbot

	switch name {
	case "/quit", "/exit":
		return true, nil
	case "/clear":
		chat.Clear()
	case "/persona":
		p, err := types.ParsePersona(arg)
		if err != nil {
			return false, err
		}
		chat.SetPersona(p)
		s.printLast()
	case "/lang":
		lang, err := types.ParseLanguage(arg)
		if err != nil {
			return false, err
		}
		if err := s.ws.SetLanguage(lang); err != nil {
			return false, err
		}
		s.printLast()
	case "/think":
		switch arg {
		case "on":
			chat.SetThinking(true)
		case "off":
			chat.SetThinking(false)
		default:
			return false, fmt.Errorf("usage: /think on|off")
		}
	default:
		return false, fmt.Errorf("unknown command %s", name)
	}
	return false, nil
}
