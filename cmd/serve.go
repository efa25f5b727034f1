package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/bridgeskills/bridgeskills/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the career matching HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address, overrides server.addr")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer log.Sync()

	config, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}

	log.Info("starting the bridgeskills api", zap.String("version", version))

	l2, closeRedis, err := openRedis(ctx, config.Cache, log)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer closeRedis()

	gen, err := newGenerator(ctx, config.AI)
	if err != nil {
		return fmt.Errorf("building the recommendation oracle: %w", err)
	}
	if gen == nil {
		log.Warn("no gemini api key configured, serving fallback recommendations",
			zap.String("hint", "set GEMINI_API_KEY or ai.gemini.api-key-file"),
		)
	}

	scorer := newScorer(config)
	salaries := newMarket(ctx, config, l2, log)
	extractions := newExtractions(ctx, config, l2, log)

	deps := server.Deps{
		Recommender: newRecommender(gen, config, log, scorer, salaries, extractions),
	}
	if gen != nil {
		deps.Extractor = newExtractor(gen, config, log, extractions)
	}
	if jobs := newJobBoards(ctx, config, l2, scorer, log); jobs != nil {
		log.Info("job search enabled", zap.Strings("sources", jobs.Sources()))
		deps.Jobs = jobs
	}

	if deps.Documents, err = newDocuments(ctx, config.Storage, log); err != nil {
		return err
	}

	saved, closeDB, err := newSavedMatches(ctx, config.Database, log)
	if err != nil {
		return fmt.Errorf("opening saved matches: %w", err)
	}
	defer closeDB()
	deps.Saved = saved

	if config.Server.JWTSecret, err = jwtSecret(config.Auth); err != nil {
		return err
	}
	if config.Server.JWTSecret == "" {
		log.Warn("no jwt secret configured, saved-match routes reject every request")
	}
	config.Server.Debug = viper.GetBool("debug")

	return server.New(log, config.Server, deps).Run(ctx)
}
