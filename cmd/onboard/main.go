// Command onboard runs the onboarding questionnaire in a terminal against a
// running study-abroad server, then prints the resulting matches.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/mbolis/study-abroad/client"
	"github.com/mbolis/study-abroad/log"
	"github.com/mbolis/study-abroad/onboarding"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "server base URL")
	user := flag.String("user", "", "username")
	password := flag.String("password", "", "password")
	retake := flag.Bool("retake", false, "clear previous answers before starting")
	debug := flag.Bool("debug", false, "log debug messages")
	flag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
	}
	if *user == "" || *password == "" {
		log.Fatal("onboard: -user and -password are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := client.New(*server, nil)
	if err := c.Login(ctx, *user, *password); err != nil {
		log.Fatal("onboard.login:", err)
	}
	if *retake {
		if err := c.Clear(ctx); err != nil {
			log.Fatal("onboard.clear:", err)
		}
	}

	if err := run(ctx, c, os.Stdin, os.Stdout); err != nil {
		log.Fatal("onboard:", err)
	}
}

type terminalNarrator struct {
	out io.Writer
}

func (n terminalNarrator) Say(text string) {
	fmt.Fprintf(n.out, "\n%s\n", text)
}

func run(ctx context.Context, c *client.Client, in io.Reader, out io.Writer) error {
	flow := onboarding.NewFlow(onboarding.DefaultQuestions, c, onboarding.WithNarrator(terminalNarrator{out}))
	if err := flow.Start(ctx); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for flow.State() == onboarding.StateAsking {
		prompt, _ := flow.CurrentPrompt()
		printChoices(out, prompt)

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return io.ErrUnexpectedEOF
		}

		input := strings.TrimSpace(scanner.Text())
		switch {
		case input == "" && !prompt.Required:
			flow.Skip(ctx)
		case input == "":
			fmt.Fprintln(out, "An answer is required.")
		default:
			flow.Advance(ctx, resolveAnswer(prompt, input))
		}
	}

	if err := flow.SubmitErr(); err != nil {
		fmt.Fprintf(out, "\nYour answers could not be saved: %s\n", err)
	}
	printMatches(ctx, c, out)
	return nil
}

func choices(p onboarding.Prompt) []string {
	if len(p.Options) > 0 {
		return p.Options
	}
	return p.Suggestions
}

func printChoices(out io.Writer, p onboarding.Prompt) {
	for i, choice := range choices(p) {
		fmt.Fprintf(out, "  %d) %s\n", i+1, choice)
	}

	hint := fmt.Sprintf("question %d of %d", p.Index+1, p.Total)
	if p.MultiSelect {
		hint += ", separate several answers with commas"
	}
	if !p.Required {
		hint += ", Enter to skip"
	}
	fmt.Fprintf(out, "(%s) > ", hint)
}

// resolveAnswer replaces choice numbers in input with the choices they stand
// for. Anything else is taken literally.
func resolveAnswer(p onboarding.Prompt, input string) string {
	list := choices(p)
	if len(list) == 0 {
		return input
	}

	parts := []string{input}
	if p.MultiSelect {
		parts = strings.Split(input, ",")
	}

	answers := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if n, err := strconv.Atoi(part); err == nil && n >= 1 && n <= len(list) {
			part = list[n-1]
		}
		if part != "" {
			answers = append(answers, part)
		}
	}
	return strings.Join(answers, ", ")
}

func printMatches(ctx context.Context, c *client.Client, out io.Writer) {
	page, err := c.Matches(ctx, 1, 10)
	if err != nil {
		log.WithError(err).Error("onboard.matches")
		fmt.Fprintln(out, "\nMatches are not available right now. Please try again later.")
		return
	}
	if len(page.Matches) == 0 {
		fmt.Fprintln(out, "\nNo universities matched your profile yet.")
		return
	}

	fmt.Fprintf(out, "\nYour top matches (%d in total):\n", page.Total)
	for _, m := range page.Matches {
		fmt.Fprintf(out, "  %5.1f  %s (%s)\n", m.MatchScore, m.Name, strings.Trim(m.City+", "+m.Country, ", "))
		if m.MatchReason != "" {
			fmt.Fprintf(out, "         %s\n", m.MatchReason)
		}
	}
}
