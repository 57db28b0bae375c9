package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mentorlab/cmd/mentorlab/chat"
	"mentorlab/internal/config"
	"mentorlab/internal/gemini"
	"mentorlab/internal/logging"
	"mentorlab/internal/persona"
	"mentorlab/internal/profile"
	"mentorlab/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose bool
	apiKey  string
	dataDir string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mentorlab",
	Short: "MentorLab - AI mentors for hands-on learning",
	Long: `MentorLab is a terminal classroom: pick a mentor persona, chat with
streaming responses, run Go code against their feedback, earn points
and quests, and talk to them out loud in voice mode.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for interactive mode (it has its own UI)
		if cmd.Use == "mentorlab" && cmd.CalledAs() == "mentorlab" {
			return nil
		}

		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractiveChat()
	},
}

// mentorsCmd lists the available mentor personas
var mentorsCmd = &cobra.Command{
	Use:     "mentors",
	Aliases: []string{"personas"},
	Short:   "List the available mentor personas",
	RunE:    listMentors,
}

// profileCmd shows or creates the learner profile
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the learner profile",
	RunE:  showProfile,
}

var profileOnboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Create or replace the learner profile",
	Long: `Creates the learner profile used to personalize every mentor.

Example:
  mentorlab profile onboard --name Rana --style auditory`,
	RunE: onboardProfile,
}

// askCmd sends one question to a mentor without entering the chat UI
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a mentor one question without entering the chat UI",
	Long: `Sends a single question and prints the reply with any web sources.
The exchange is not added to the mentor's conversation history.

Example:
  mentorlab ask --mentor cosmo-navigator "what did JWST find this week?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: askMentor,
}

// artCmd generates pixel art without entering the chat UI
var artCmd = &cobra.Command{
	Use:   "art [prompt]",
	Short: "Generate pixel art from a prompt",
	Args:  cobra.MinimumNArgs(1),
	RunE:  generateArt,
}

// historyCmd manages persisted conversations
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage persisted conversations",
}

var historyClearCmd = &cobra.Command{
	Use:   "clear [mentor-id]",
	Short: "Delete a mentor's persisted conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  clearHistory,
}

// configInitCmd writes the default config file
var configInitCmd = &cobra.Command{
	Use:   "config-init",
	Short: "Write the default config.yaml to the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(resolveDataDir(), "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (or set GEMINI_API_KEY env)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default: ~/.mentorlab)")

	var name, style string
	profileOnboardCmd.Flags().StringVar(&name, "name", "", "Learner name (required)")
	profileOnboardCmd.Flags().StringVar(&style, "style", "visual", "Learning style: visual, auditory, reading, kinesthetic")
	profileOnboardCmd.MarkFlagRequired("name")

	artCmd.Flags().StringP("out", "o", "", "Output PNG path (default: <data dir>/art/art-<ts>.png)")

	askCmd.Flags().StringP("mentor", "m", "", "Mentor id (default: the default mentor)")

	profileCmd.AddCommand(profileOnboardCmd)
	historyCmd.AddCommand(historyClearCmd)

	rootCmd.AddCommand(mentorsCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(artCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configInitCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	return config.DefaultDataDir()
}

// loadConfig reads config.yaml from the data directory and applies the
// --api-key flag on top.
func loadConfig() (*config.Config, string, error) {
	dir := resolveDataDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create data directory: %w", err)
	}
	cfg, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		return nil, "", err
	}
	if apiKey != "" {
		cfg.Gemini.APIKey = apiKey
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, dir, nil
}

// runInteractiveChat starts the TUI. The categorized file logger replaces
// zap here so log output never fights the alternate screen.
func runInteractiveChat() error {
	cfg, dir, err := loadConfig()
	if err != nil {
		return err
	}
	if err := logging.Initialize(dir); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.CloseAll()

	return chat.Run(cfg, dir)
}

func listMentors(cmd *cobra.Command, args []string) error {
	for _, p := range persona.Roster {
		search := ""
		if p.SupportsSearch {
			search = "  [web search]"
		}
		fmt.Printf("%-22s %-28s %s%s\n", p.ID, p.Name, p.Specialization, search)
	}
	return nil
}

func showProfile(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	repo, err := store.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer repo.Close()

	prof, err := repo.LoadProfile()
	if err != nil {
		return err
	}
	if prof == nil {
		fmt.Println("No profile yet. Run: mentorlab profile onboard --name <you>")
		return nil
	}

	fmt.Printf("Name:   %s\n", prof.Name)
	fmt.Printf("Style:  %s\n", prof.LearningStyle)
	fmt.Printf("Points: %d\n", prof.Progress.Points)
	for key, level := range prof.SkillLevels {
		fmt.Printf("Skill:  %s = %d\n", key, level)
	}
	for id, quest := range prof.Progress.CurrentQuests {
		if p, ok := persona.FindByID(id); ok {
			fmt.Printf("Quest:  %s — %s\n", p.Name, quest)
		}
	}
	return nil
}

func onboardProfile(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("name")
	styleArg, _ := cmd.Flags().GetString("style")

	var style profile.LearningStyle
	switch styleArg {
	case "visual":
		style = profile.StyleVisual
	case "auditory":
		style = profile.StyleAuditory
	case "reading", "writing":
		style = profile.StyleReadWrite
	case "kinesthetic":
		style = profile.StyleKinesthetic
	default:
		return fmt.Errorf("unknown learning style %q", styleArg)
	}

	repo, err := store.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer repo.Close()

	prof := profile.New(name, style)
	if err := repo.SaveProfile(prof); err != nil {
		return err
	}
	logger.Info("Profile created",
		zap.String("name", name),
		zap.String("style", string(style)))
	fmt.Printf("Profile created for %s (%s learner).\n", prof.Name, prof.LearningStyle)
	return nil
}

func askMentor(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	p := persona.Default()
	if id, _ := cmd.Flags().GetString("mentor"); id != "" {
		var ok bool
		if p, ok = persona.FindByID(id); !ok {
			return fmt.Errorf("unknown mentor %q", id)
		}
	}

	question := strings.Join(args, " ")

	repo, err := store.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer repo.Close()

	var vals persona.TemplateValues
	if prof, err := repo.LoadProfile(); err == nil && prof != nil {
		vals = persona.TemplateValues{
			UserName:      prof.Name,
			LearningStyle: string(prof.LearningStyle),
			SkillLevel:    prof.SkillLevel(p.SkillKey()),
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetGeminiTimeout())
	defer cancel()

	client, err := gemini.NewClient(ctx, cfg, gemini.NewAuthNotifier())
	if err != nil {
		return err
	}

	logger.Info("Asking mentor",
		zap.String("mentor", p.ID),
		zap.String("question", question))

	text, sources, err := client.SendMessage(ctx, p.ID, p.RenderInstruction(vals), p.SupportsSearch,
		[]gemini.Part{gemini.TextPart(question)})
	if err != nil {
		return err
	}

	fmt.Printf("%s:\n%s\n", p.Name, text)
	for _, src := range sources {
		fmt.Printf("  %s — %s\n", src.Title, src.URI)
	}
	return nil
}

func generateArt(cmd *cobra.Command, args []string) error {
	cfg, dir, err := loadConfig()
	if err != nil {
		return err
	}

	prompt := args[0]
	for _, a := range args[1:] {
		prompt += " " + a
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetGeminiTimeout())
	defer cancel()

	client, err := gemini.NewClient(ctx, cfg, gemini.NewAuthNotifier())
	if err != nil {
		return err
	}

	logger.Info("Generating pixel art", zap.String("prompt", prompt))
	image, err := client.GeneratePixelArt(ctx, prompt)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		artDir := chat.ArtDir(dir)
		if err := os.MkdirAll(artDir, 0755); err != nil {
			return err
		}
		out = filepath.Join(artDir, fmt.Sprintf("art-%d.png", time.Now().Unix()))
	}
	if err := os.WriteFile(out, image, 0644); err != nil {
		return err
	}
	fmt.Printf("Saved %s (%d bytes)\n", out, len(image))
	return nil
}

func clearHistory(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	p, ok := persona.FindByID(args[0])
	if !ok {
		return fmt.Errorf("unknown mentor %q", args[0])
	}

	repo, err := store.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.DeleteHistory(p.ID); err != nil {
		return err
	}
	logger.Info("History cleared", zap.String("mentor", p.ID))
	fmt.Printf("Cleared conversation with %s.\n", p.Name)
	return nil
}
