package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/asake/internal/config"
	"github.com/verte-zerg/asake/internal/model"
	"github.com/verte-zerg/asake/internal/questions"
	"github.com/verte-zerg/asake/internal/scoreboard"
	"github.com/verte-zerg/asake/internal/scoreui"
	"github.com/verte-zerg/asake/internal/sequence"
	"github.com/verte-zerg/asake/internal/stats"
	"github.com/verte-zerg/asake/internal/tui"
)

const (
	defaultTrendWindow = 5
	defaultTopN        = 5
	fallbackWidth      = 80
)

var (
	activityList bool
	activitySeed int64

	scoresTop int
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file (also writes a starter question file)",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeIfMissing(path, []byte(config.Template)); err != nil {
		return err
	}
	data, err := questions.Marshal(questions.Sample(), false)
	if err != nil {
		return fmt.Errorf("failed to encode sample questions: %w", err)
	}
	if err := writeIfMissing(config.DefaultQuestionsPath(), data); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func writeIfMissing(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Info("file created", zap.String("path", path))
	return nil
}

func newActivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity [id]",
		Short: "Put the steps of an activity in order",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runActivityCmd,
	}
	cmd.Flags().BoolVar(&activityList, "list", false, "list available activities")
	cmd.Flags().Int64Var(&activitySeed, "seed", 0, "shuffle seed (0 = random)")
	return cmd
}

func loadActivities() ([]model.Activity, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	configured := fileCfg.ToActivities()
	for _, a := range configured {
		if err := sequence.Validate(a); err != nil {
			return nil, err
		}
	}
	return sequence.Merge(sequence.DefaultActivities(), configured), nil
}

func runActivityCmd(cmd *cobra.Command, args []string) error {
	activities, err := loadActivities()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if activityList {
		for _, a := range activities {
			if _, err := fmt.Fprintf(out, "%-16s %s (%d steps)\n", a.ID, a.Title, len(a.Steps)); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	}
	id := activities[0].ID
	if len(args) == 1 {
		id = args[0]
	}
	activity, err := sequence.Find(activities, id)
	if err != nil {
		return err
	}

	m := tui.NewActivityModel(activity, newShuffler(activitySeed), log)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if report := m.Report(); report != nil {
		_, err := fmt.Fprintln(out, report.Message(activity.Perfect))
		return err
	}
	return nil
}

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show the scoreboard",
		Args:  cobra.NoArgs,
		RunE:  runScoresCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add NAME SCORE",
		Short: "Add a scoreboard entry",
		Args:  cobra.ExactArgs(2),
		RunE:  runScoresAddCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "edit INDEX SCORE",
		Short: "Change the score of an entry (see the # column)",
		Args:  cobra.ExactArgs(2),
		RunE:  runScoresEditCmd,
	})
	top := &cobra.Command{
		Use:   "top",
		Short: "Show each player's best score",
		Args:  cobra.NoArgs,
		RunE:  runScoresTopCmd,
	}
	top.Flags().IntVarP(&scoresTop, "limit", "n", defaultTopN, "number of players")
	cmd.AddCommand(top)
	cmd.AddCommand(&cobra.Command{
		Use:   "ui",
		Short: "Browse and edit the scoreboard",
		Args:  cobra.NoArgs,
		RunE:  runScoresUICmd,
	})
	return cmd
}

// seedPath resolves the scoreboard seed from the flag, then the config file.
func seedPath(cmd *cobra.Command) (string, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	path := scoreboardSeed
	if !cmd.Flags().Changed("scoreboard-seed") && fileCfg.Quiz.ScoreboardSeed != nil {
		path = *fileCfg.Quiz.ScoreboardSeed
	}
	return config.ExpandHome(strings.TrimSpace(path)), nil
}

func runScoresCmd(cmd *cobra.Command, _ []string) error {
	seed, err := seedPath(cmd)
	if err != nil {
		return err
	}
	st, board, err := openBoard(cmd.Context(), seed)
	if err != nil {
		return err
	}
	defer closeStore(st)
	return printScores(cmd.OutOrStdout(), board.Records(), terminalWidth())
}

func printScores(w io.Writer, records []model.ScoreRecord, width int) error {
	if err := stats.RenderSummary(w, records); err != nil {
		return err
	}
	if err := stats.RenderTrend(w, records, width, defaultTrendWindow); err != nil {
		return err
	}
	return stats.RenderTable(w, records)
}

func runScoresAddCmd(cmd *cobra.Command, args []string) error {
	score, err := scoreboard.ParseScore(args[1])
	if err != nil {
		return err
	}
	return withBoard(cmd, func(board *scoreboard.Board) error {
		if err := board.Add(cmd.Context(), args[0], score); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %d%%\n", strings.TrimSpace(args[0]), score)
		return err
	})
}

func runScoresEditCmd(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return fmt.Errorf("invalid index %q: %w", args[0], scoreboard.ErrRecordNotFound)
	}
	score, err := scoreboard.ParseScore(args[1])
	if err != nil {
		return err
	}
	return withBoard(cmd, func(board *scoreboard.Board) error {
		if err := board.Edit(cmd.Context(), index, score); err != nil {
			return err
		}
		r := board.Records()[index]
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Updated #%d %s: %d%%\n", index, r.Name, r.Score)
		return err
	})
}

func runScoresTopCmd(cmd *cobra.Command, _ []string) error {
	return withBoard(cmd, func(board *scoreboard.Board) error {
		for i, r := range stats.TopScorers(board.Records(), scoresTop) {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d. %s %d%% (%s)\n", i+1, r.Name, r.Score, r.Date); err != nil {
				return err
			}
		}
		return nil
	})
}

func runScoresUICmd(cmd *cobra.Command, _ []string) error {
	return withBoard(cmd, func(board *scoreboard.Board) error {
		program := tea.NewProgram(scoreui.NewModel(board, log), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run scoreboard TUI: %w", err)
		}
		return nil
	})
}

func withBoard(cmd *cobra.Command, fn func(*scoreboard.Board) error) error {
	seed, err := seedPath(cmd)
	if err != nil {
		return err
	}
	st, board, err := openBoard(cmd.Context(), seed)
	if err != nil {
		return err
	}
	defer closeStore(st)
	return fn(board)
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fallbackWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Validate a question file",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheckCmd,
	}
}

func runCheckCmd(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	qs, err := questions.Load(args[0])
	var validationErr *questions.ValidationError
	if errors.As(err, &validationErr) {
		for _, issue := range validationErr.Issues {
			if _, werr := fmt.Fprintf(out, "%s: %s\n", issue.Field, issue.Message); werr != nil {
				return werr
			}
		}
		return fmt.Errorf("%s: %d problem(s) found", args[0], len(validationErr.Issues))
	}
	if err != nil {
		return err
	}
	counts := map[model.Variant]int{}
	for _, q := range qs {
		counts[q.Variant]++
	}
	_, err = fmt.Fprintf(out, "%s: %d questions OK (mc %d, tf %d, fill %d)\n", args[0], len(qs),
		counts[model.MultipleChoice], counts[model.TrueFalse], counts[model.FillIn])
	return err
}
