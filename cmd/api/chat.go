package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/charbot/internal/app"
	"github.com/zhouzirui/charbot/internal/config"
	"github.com/zhouzirui/charbot/internal/model/persona"
	"github.com/zhouzirui/charbot/internal/service/conversation"
)

func newChatCmd() *cobra.Command {
	defaults := persona.Default()
	var cfg persona.Config
	var gender, expertise, tone, mood, variant string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the persona in the terminal",
		Long: "Chat with the persona in the terminal.\n\n" +
			"Commands: /restart starts over, /mood <name|None> sets the override in the mood variant, /quit exits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			appCfg, err := config.Load()
			if err != nil {
				log.Fatalf("failed to load configuration: %v", err)
			}
			a, err := app.New(ctx, appCfg)
			if err != nil {
				log.Fatalf("failed to initialise services: %v", err)
			}

			v, err := persona.ParseVariant(variant)
			if err != nil {
				return err
			}
			cfg.Gender = persona.Gender(gender)
			cfg.Expertise = persona.Expertise(expertise)
			cfg.Tone = persona.Tone(tone)
			cfg.Mood = persona.Mood(mood)

			return runREPL(ctx, a.Conversations, cfg, v, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&cfg.Name, "name", defaults.Name, "Chatbot name")
	cmd.Flags().StringVar(&gender, "gender", string(defaults.Gender), "Male, Female or Neutral")
	cmd.Flags().StringVar(&expertise, "expertise", string(defaults.Expertise), "Education, Healthcare, Gaming or Finance")
	cmd.Flags().StringVar(&tone, "tone", string(defaults.Tone), "Friendly, Formal, Humorous or Empathetic")
	cmd.Flags().StringVar(&mood, "mood", string(defaults.Mood), "Calm, Agitated, Excited or Thoughtful")
	cmd.Flags().StringVar(&variant, "variant", string(persona.VariantTone), "tone or mood")

	return cmd
}

// runREPL drives one terminal conversation until EOF or /quit.
func runREPL(ctx context.Context, convo *conversation.Service, cfg persona.Config, variant persona.Variant, in io.Reader, out io.Writer) error {
	session, err := convo.CreateSession(ctx)
	if err != nil {
		return err
	}

	emit := func(ev conversation.Event) {
		switch ev.Type {
		case conversation.EventMessage:
			fmt.Fprintf(out, "%s: %s\n", cfg.Name, ev.Content)
		case conversation.EventMood:
			fmt.Fprintf(out, "[mood: %s]\n", ev.Content)
		case conversation.EventPending:
			fmt.Fprintln(out, ev.Content)
		case conversation.EventError:
			fmt.Fprintf(out, "error: %s\n", ev.Error)
		}
	}

	start := func() {
		res, err := convo.Start(ctx, session.ID, cfg, variant, emit)
		if err != nil && !conversation.IsRemoteFailure(err) {
			fmt.Fprintf(out, "error: %v\n", err)
			return
		}
		cfg = res.Session.Persona
	}
	start()

	override := persona.NoOverride
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := scanner.Text()

		switch {
		case strings.TrimSpace(line) == "":
			continue
		case line == "/quit":
			return nil
		case line == "/restart":
			start()
			continue
		case strings.HasPrefix(line, "/mood"):
			override = strings.TrimSpace(strings.TrimPrefix(line, "/mood"))
			if override == "" {
				override = persona.NoOverride
			}
			fmt.Fprintf(out, "[override: %s]\n", override)
			continue
		}

		_, err := convo.Send(ctx, session.ID, conversation.TurnRequest{Message: line, MoodOverride: override}, emit)
		if err != nil && !conversation.IsRemoteFailure(err) {
			fmt.Fprintf(out, "error: %v\n", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
