// Package main provides the CLI entrypoint for asake.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/asake/internal/config"
	"github.com/verte-zerg/asake/internal/generator"
	"github.com/verte-zerg/asake/internal/logger"
	"github.com/verte-zerg/asake/internal/model"
	"github.com/verte-zerg/asake/internal/queue"
	"github.com/verte-zerg/asake/internal/questions"
	"github.com/verte-zerg/asake/internal/scoreboard"
	"github.com/verte-zerg/asake/internal/session"
	"github.com/verte-zerg/asake/internal/store"
	"github.com/verte-zerg/asake/internal/tui"
)

var (
	quizName      string
	quizQuestions string
	quizInterval  int
	quizSeed      int64
	quizDelay     string

	dbPath         string
	scoreboardSeed string
	verbose        bool

	log = zap.NewNop()
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "asake",
		Short:             "Hygiene quiz and step-ordering trainer",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: setupLogger,
		PersistentPostRun: syncLogger,
		RunE:              runQuizCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default: XDG data dir)")
	rootCmd.PersistentFlags().StringVar(&scoreboardSeed, "scoreboard-seed", "", "JSON scoreboard used when nothing is saved yet")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")

	rootCmd.Flags().StringVar(&quizName, "name", "", "player name (skips the name prompt)")
	rootCmd.Flags().StringVar(&quizQuestions, "questions", "", "question file (YAML or JSON)")
	rootCmd.Flags().IntVar(&quizInterval, "interval", queue.DefaultInterval, "re-ask the oldest miss every N answers")
	rootCmd.Flags().Int64Var(&quizSeed, "seed", 0, "shuffle seed (0 = random)")
	rootCmd.Flags().StringVar(&quizDelay, "feedback-delay", config.DefaultFeedbackDelay.String(), "how long answer feedback stays on screen")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newActivityCmd())
	rootCmd.AddCommand(newScoresCmd())
	rootCmd.AddCommand(newCheckCmd())

	return rootCmd
}

func setupLogger(_ *cobra.Command, _ []string) error {
	l, err := logger.New(verbose)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	log = l
	return nil
}

func syncLogger(_ *cobra.Command, _ []string) {
	if err := log.Sync(); err != nil {
		// Best-effort flush; stderr sync fails on some terminals.
		_ = err
	}
}

func runQuizCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "interval", &quizInterval, fileCfg.Quiz.SpacedInterval)
	applyStringConfig(cmd, "questions", &quizQuestions, fileCfg.Quiz.Questions)
	applyStringConfig(cmd, "feedback-delay", &quizDelay, fileCfg.Quiz.FeedbackDelay)
	applyStringConfig(cmd, "scoreboard-seed", &scoreboardSeed, fileCfg.Quiz.ScoreboardSeed)

	delay, err := config.ParseDelay(quizDelay)
	if err != nil {
		return fmt.Errorf("invalid --feedback-delay: %w", err)
	}
	cfg := model.Config{
		Username:       quizName,
		QuestionsPath:  config.ExpandHome(quizQuestions),
		SeedPath:       config.ExpandHome(scoreboardSeed),
		SpacedInterval: quizInterval,
		FeedbackDelay:  delay,
		Seed:           quizSeed,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	qs, source, err := loadQuestions(cfg.QuestionsPath)
	if err != nil {
		return err
	}
	log.Debug("questions loaded", zap.String("source", source), zap.Int("count", len(qs)))

	st, board, err := openBoard(cmd.Context(), cfg.SeedPath)
	if err != nil {
		return err
	}
	defer closeStore(st)

	sess, err := session.New(session.Config{
		SpacedInterval: cfg.SpacedInterval,
		Shuffler:       newShuffler(cfg.Seed),
	}, board)
	if err != nil {
		return err
	}

	m := tui.NewModel(cfg, sess, qs, log)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if res := m.Result(); res != nil {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s scored %d%% (%d/%d correct, %d answers)\n",
			res.Username, res.ScorePercent, res.CorrectCount, res.TotalQuestions, res.Answered)
		return err
	}
	return nil
}

// loadQuestions reads the explicit path, then the default file, then falls
// back to the built-in set.
func loadQuestions(path string) ([]model.Question, string, error) {
	if path != "" {
		qs, err := questions.Load(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load questions from %s: %w", path, err)
		}
		return qs, path, nil
	}
	def := config.DefaultQuestionsPath()
	if _, err := os.Stat(def); err == nil {
		qs, err := questions.Load(def)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load questions from %s: %w", def, err)
		}
		return qs, def, nil
	}
	return questions.Sample(), "built-in", nil
}

func openBoard(ctx context.Context, seedPath string) (*store.Store, *scoreboard.Board, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	path := dbPath
	if path == "" {
		path = config.DefaultDBPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	board := scoreboard.NewBoard(scoreboard.NewKVStore(st), seedPath)
	if err := board.Load(ctx); err != nil {
		closeStore(st)
		return nil, nil, err
	}
	return st, board, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		log.Warn("failed to close db", zap.Error(err))
	}
}

func newShuffler(seed int64) generator.Shuffler {
	if seed != 0 {
		return generator.NewSeeded(seed)
	}
	return generator.New()
}

func validateConfig(cfg model.Config) error {
	var errs []error
	if cfg.SpacedInterval <= 0 {
		errs = append(errs, fmt.Errorf("--interval must be > 0"))
	}
	if cfg.FeedbackDelay > time.Minute {
		errs = append(errs, fmt.Errorf("--feedback-delay must be at most 1m"))
	}
	return errors.Join(errs...)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = strings.TrimSpace(*value)
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
