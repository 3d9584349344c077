package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/bookingsense/internal/profile"
	"github.com/hrygo/bookingsense/plugin/ai"
	"github.com/hrygo/bookingsense/plugin/ai/agent/tools"
	"github.com/hrygo/bookingsense/server"
	"github.com/hrygo/bookingsense/server/retrieval"
	"github.com/hrygo/bookingsense/store"
	"github.com/hrygo/bookingsense/store/db"
)

const greetingBanner = `
BookingSense - conversational appointment booking
`

var rootCmd = &cobra.Command{
	Use:   "bookingsense",
	Short: "An appointment booking assistant built on a slot calendar",
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile, err := loadProfile()
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		st, err := newStore(ctx, instanceProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
			os.Exit(1)
		}

		llm, embedder := newAIServices(instanceProfile)
		var policies tools.PolicySearcher
		if embedder != nil {
			policies = retrieval.NewPolicyIndex(st, embedder)
		}

		s, err := server.NewServer(instanceProfile, st, llm, policies)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create server: %v\n", err)
			os.Exit(1)
		}

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigs
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		}()

		fmt.Print(greetingBanner)
		if err := s.Start(ctx); err != nil {
			slog.Error("server exited", "error", err)
			os.Exit(1)
		}
	},
}

var indexPoliciesCmd = &cobra.Command{
	Use:   "index-policies <file>",
	Short: "Rebuild the policy search index from a markdown file",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		instanceProfile, err := loadProfile()
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
			os.Exit(1)
		}
		if !instanceProfile.IsAIEnabled() {
			fmt.Fprintln(os.Stderr, "policy indexing needs an AI API key for embeddings")
			os.Exit(1)
		}

		ctx := context.Background()
		st, err := newStore(ctx, instanceProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()

		_, embedder := newAIServices(instanceProfile)
		if err := retrieval.NewPolicyIndex(st, embedder).IndexFile(ctx, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "indexing failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("indexed policies from %s\n", args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `mode of the server, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of the server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", `database driver, can be "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("dsn", "", "database source name")
	rootCmd.PersistentFlags().String("calendar", "calendar.json", "path to the calendar snapshot file")
	rootCmd.PersistentFlags().Int("search-floor", 30, "minimum slot duration in minutes for availability search")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn", "calendar", "search-floor"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("bookingsense")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(indexPoliciesCmd)
}

func loadProfile() (*profile.Profile, error) {
	p := &profile.Profile{
		Mode:               viper.GetString("mode"),
		Addr:               viper.GetString("addr"),
		Port:               viper.GetInt("port"),
		Data:               viper.GetString("data"),
		Driver:             viper.GetString("driver"),
		DSN:                viper.GetString("dsn"),
		CalendarPath:       viper.GetString("calendar"),
		SearchFloorMinutes: viper.GetInt("search-floor"),
		AIBaseURL:          viper.GetString("ai-base-url"),
		AIAPIKey:           viper.GetString("ai-api-key"),
		AIChatModel:        viper.GetString("ai-chat-model"),
		AIEmbeddingModel:   viper.GetString("ai-embedding-model"),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func newStore(ctx context.Context, instanceProfile *profile.Profile) (*store.Store, error) {
	driver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return nil, err
	}
	if err := driver.Migrate(ctx); err != nil {
		return nil, err
	}
	return store.New(driver, instanceProfile), nil
}

// newAIServices builds the LLM and embedding services from the profile.
// Both are nil when no API key is configured.
func newAIServices(instanceProfile *profile.Profile) (ai.LLMService, ai.EmbeddingService) {
	if !instanceProfile.IsAIEnabled() {
		return nil, nil
	}

	cfg := ai.DefaultConfig()
	cfg.BaseURL = instanceProfile.AIBaseURL
	cfg.APIKey = instanceProfile.AIAPIKey
	cfg.ChatModel = instanceProfile.AIChatModel
	cfg.EmbeddingModel = instanceProfile.AIEmbeddingModel

	provider, err := ai.NewProvider(cfg)
	if err != nil {
		slog.Warn("AI provider unavailable, chat is disabled", "error", err)
		return nil, nil
	}
	return provider, provider
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
