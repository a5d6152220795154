package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avolkov/interviewd/internal/bank"
	"github.com/avolkov/interviewd/internal/handler"
	"github.com/avolkov/interviewd/internal/interview"
	"github.com/avolkov/interviewd/internal/llm"
	"github.com/avolkov/interviewd/internal/middleware"
	"github.com/avolkov/interviewd/internal/session"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "interviewd",
		Short: "Mock-interview backend powered by LLMs",
	}

	serve := serveCmd()
	root.AddCommand(serve, bankCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `interviewd --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP interview server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "interviewd.db", "SQLite question bank path")
	f.StringSliceP("questions", "q", nil, "Paths to extra question bank JSON files (repeatable)")
	f.String("question-source", "adaptive", "Question policy (adaptive, bank)")
	f.String("llm-url", "https://api.groq.com/openai/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "", "API key for the completion service")
	f.String("llm-model", "llama3-70b-8192", "LLM model name")
	f.Duration("session-ttl", session.DefaultTTL, "Session expiry age")
	f.StringSlice("cors-origins", []string{"*"}, "Allowed CORS origins")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func bankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Manage the static question bank",
	}

	importCmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import question JSON files into the bank",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runBankImport,
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all questions in the bank",
		RunE:  runBankList,
	}
	for _, c := range []*cobra.Command{importCmd, listCmd} {
		f := c.Flags()
		f.String("db", "interviewd.db", "SQLite question bank path")
		f.String("log-level", "info", "Log level (debug, info, warn, error)")
		f.String("log-format", "text", "Log format (text, json)")
	}

	cmd.AddCommand(importCmd, listCmd)
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper
// instance. A .env file in the working directory is honored so the LLM
// credential can live outside the shell environment.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("error loading .env file", "error", err)
	}

	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("INTERVIEWD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// GROQ_API_KEY is the credential name the browser client's docs use.
	_ = v.BindEnv("llm-key", "INTERVIEWD_LLM_KEY", "GROQ_API_KEY")

	v.SetConfigName("interviewd")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/interviewd")
	v.AddConfigPath("/etc/interviewd")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	// Fail fast on a missing credential: no request should be served
	// without a working upstream configuration.
	llmClient, err := llm.New(
		v.GetString("llm-url"),
		v.GetString("llm-key"),
		v.GetString("llm-model"),
	)
	if err != nil {
		return fmt.Errorf("create LLM client: %w", err)
	}

	// A failed health check is an upstream problem, not a configuration
	// one, so it only warns.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := llmClient.Ping(ctx); err != nil {
		slog.Warn("LLM endpoint unreachable at startup", "error", err)
	} else {
		slog.Info("LLM endpoint OK", "url", v.GetString("llm-url"), "model", v.GetString("llm-model"))
	}
	cancel()

	// Open and seed the question bank.
	bankStore, err := bank.Open(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open question bank: %w", err)
	}
	defer bankStore.Close()
	if err := bankStore.Seed(); err != nil {
		return fmt.Errorf("seed question bank: %w", err)
	}
	for _, path := range v.GetStringSlice("questions") {
		if _, err := bankStore.ImportFile(path); err != nil {
			return fmt.Errorf("import questions: %w", err)
		}
	}

	var policy interview.Policy
	source := strings.ToLower(strings.TrimSpace(v.GetString("question-source")))
	switch source {
	case "bank":
		policy = interview.NewBankPolicy(bankStore)
	case "adaptive", "":
		source = "adaptive"
		policy = interview.NewAdaptivePolicy(llmClient)
	default:
		return fmt.Errorf("unknown question-source %q (want adaptive or bank)", source)
	}

	sessions := session.NewStore(v.GetDuration("session-ttl"))
	svc := interview.NewService(sessions, policy, llmClient)
	h := handler.New(svc, sessions, llmClient)

	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(v.GetStringSlice("cors-origins")))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"model", v.GetString("llm-model"),
		"llm_url", v.GetString("llm-url"),
		"question_source", source,
		"session_ttl", v.GetDuration("session-ttl"),
	)
	return http.ListenAndServe(addr, r)
}

func runBankImport(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	bankStore, err := bank.Open(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open question bank: %w", err)
	}
	defer bankStore.Close()

	total := 0
	for _, path := range args {
		n, err := bankStore.ImportFile(path)
		if err != nil {
			return err
		}
		total += n
	}
	fmt.Printf("imported %d questions\n", total)
	return nil
}

func runBankList(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	bankStore, err := bank.Open(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open question bank: %w", err)
	}
	defer bankStore.Close()

	questions, err := bankStore.ListAll()
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	for _, q := range questions {
		domain := q.Domain
		if domain == "" {
			domain = "-"
		}
		fmt.Printf("%d\t%s\t%s\t%s\n", q.ID, q.Mode, domain, q.Text)
	}
	return nil
}
