package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/abhisek/sattutor/internal/adaptive"
	"github.com/abhisek/sattutor/internal/session"
	"github.com/abhisek/sattutor/internal/store"
	"github.com/spf13/cobra"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Answer questions in plain line mode (no TUI)",
	Long: `Generate and answer questions one at a time on stdin.

Attempts are submitted to the backend and recorded in the local store just
like the TUI. Useful over slow terminals or when scripting.`,
	RunE: runQuiz,
}

func init() {
	quizCmd.Flags().StringP("topic", "t", "Algebra", "Topic to practice")
	quizCmd.Flags().IntP("count", "n", 5, "Number of questions")
	quizCmd.Flags().IntP("level", "l", 0, "Manual difficulty (1-5)")
	quizCmd.Flags().Bool("adaptive", false, "Let the tutor choose the difficulty")
	quizCmd.Flags().Bool("challenge", false, "Ask for harder adaptive questions")
	rootCmd.AddCommand(quizCmd)
}

func runQuiz(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	count, _ := cmd.Flags().GetInt("count")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var repo store.EventRepo
	st, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v; attempts will not be recorded locally\n", err)
	} else {
		defer st.Close()
		repo = st.EventRepo()
	}

	svc, err := buildService(cfg, repo)
	if err != nil {
		return err
	}
	users, err := cfg.AuthProvider()
	if err != nil {
		return err
	}

	mcfg := session.Config{
		Service:    svc,
		Users:      users,
		Controller: adaptive.NewController(users, practiceParams(cmd)),
	}
	if repo != nil {
		mcfg.Sink = session.StoreSink{Repo: repo}
	}
	m := session.New(mcfg)

	sum := quizLoop(cmd.Context(), m, topic, count, os.Stdin, os.Stdout)
	fmt.Printf("── Summary: %d/%d correct (%.0f%%) ──\n", sum.TotalCorrect, sum.TotalQuestions, sum.Accuracy)
	return nil
}

// quizLoop serves count questions on topic, reading answers from in, and
// ends the session once the questions run out or in is closed.
func quizLoop(ctx context.Context, m *session.Machine, topic string, count int, in io.Reader, out io.Writer) *session.SessionSummary {
	scanner := bufio.NewScanner(in)

	for i := 1; i <= count; i++ {
		if _, err := m.Generate(ctx, topic); err != nil {
			fmt.Fprintf(out, "Question %d: %v\n\n", i, err)
			continue
		}
		q := m.State().Question

		fmt.Fprintf(out, "── Question %d/%d  (%s, level %s) ──\n", i, count, topic, adaptive.LevelName(q.DifficultyLevel))
		if q.Passage != "" {
			fmt.Fprintln(out, q.Passage)
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, q.Prompt)
		keys := make([]string, 0, len(q.Choices))
		for k := range q.Choices {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "  %s) %s\n", k, q.Choices[k])
		}

		if !readAnswer(scanner, out, m) {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}

		if c, ok := prompt(scanner, out, "Confidence 1-5 [3]: "); ok && c != "" {
			if n, err := strconv.Atoi(c); err != nil || m.SetConfidence(n) != nil {
				fmt.Fprintln(out, "(keeping previous confidence)")
			}
		}

		attempt, _, err := m.Submit(ctx)
		if err != nil {
			fmt.Fprintf(out, "Submit failed: %v\n\n", err)
			break
		}
		// The answer and solution are only visible once resolved.
		resolved := m.State().Question
		if attempt.Correct {
			fmt.Fprintf(out, "\033[32m✓ Correct!\033[0m  %ds\n", attempt.TimeTakenSeconds)
		} else {
			fmt.Fprintf(out, "\033[31m✗ Wrong.\033[0m Answer: %s  %ds\n", resolved.CorrectAnswer, attempt.TimeTakenSeconds)
		}
		if resolved.Solution != "" {
			fmt.Fprintf(out, "Solution: %s\n", resolved.Solution)
		}
		fmt.Fprintln(out)
	}

	return m.End(ctx)
}

// readAnswer prompts until a valid choice is selected. It returns false
// once stdin is closed.
func readAnswer(scanner *bufio.Scanner, out io.Writer, m *session.Machine) bool {
	for {
		answer, ok := prompt(scanner, out, "\nYour answer: ")
		if !ok {
			return false
		}
		if err := m.SelectAnswer(answer); err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		return true
	}
}

// prompt prints label and reads one trimmed line. ok is false once stdin
// is closed.
func prompt(scanner *bufio.Scanner, out io.Writer, label string) (string, bool) {
	fmt.Fprint(out, label)
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}
