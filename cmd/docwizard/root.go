package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docwizard/internal/ai"
	"github.com/goliatone/go-docwizard/internal/config"
	"github.com/goliatone/go-docwizard/internal/datastore"
	"github.com/goliatone/go-docwizard/internal/logger"
	"github.com/goliatone/go-docwizard/internal/render"
	"github.com/goliatone/go-docwizard/internal/schema"
	"github.com/goliatone/go-docwizard/internal/session"
	"github.com/goliatone/go-docwizard/pkg/wizard"
)

var (
	cfgPath string
	userID  int64
)

var rootCmd = &cobra.Command{
	Use:   "docwizard",
	Short: "Interactive document generation wizard",
	Long: `Docwizard collects document data through a step-by-step wizard and
renders the answers into a document template. Templates carry field
schemas with validation, auto-filled values, and optional AI-assisted
requisite extraction and text generation.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "docwizard.yaml", "config file path")
	rootCmd.PersistentFlags().Int64Var(&userID, "user", 1, "user id for session and history scoping")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(requisitesCmd)
	rootCmd.AddCommand(chatCmd)
}

// env bundles the wired application collaborators the commands share.
type env struct {
	cfg      config.Config
	log      *logger.Logger
	registry *schema.Registry
	store    wizard.Store
	docs     *datastore.Store
	client   *ai.Client
}

// buildEnv loads configuration and wires the collaborators. The AI client
// is optional: without an API key extraction and generation degrade to
// manual input.
func buildEnv() (*env, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Options{Mode: cfg.Log.Mode, File: cfg.Log.File})
	if err != nil {
		return nil, err
	}

	registry, err := schema.LoadRegistry(cfg.RegistryPath)
	if err != nil {
		return nil, err
	}

	docs, err := datastore.Open(cfg.DataPath)
	if err != nil {
		return nil, err
	}

	var store wizard.Store
	if cfg.RedisAddr != "" {
		redisStore, err := session.NewRedisStore(cfg.RedisAddr, time.Duration(cfg.SessionTTL))
		if err != nil {
			return nil, fmt.Errorf("connect session store: %w", err)
		}
		store = redisStore
	} else {
		store = session.NewMemoryStore()
	}

	var client *ai.Client
	if cfg.OpenAI.APIKey != "" {
		client, err = ai.New(ai.Config{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
		}, ai.WithLogger(log))
		if err != nil {
			return nil, err
		}
	} else {
		log.Warn("no OpenAI API key configured, AI features disabled")
	}

	return &env{
		cfg:      cfg,
		log:      log,
		registry: registry,
		store:    store,
		docs:     docs,
		client:   client,
	}, nil
}

// newEngine assembles the wizard engine from the environment.
func (e *env) newEngine() (*wizard.Engine, error) {
	renderer, err := render.New(e.cfg.TemplatesDir, e.cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	options := []wizard.Option{
		wizard.WithRenderer(renderer),
		wizard.WithDocumentLog(e.docs),
		wizard.WithRequisiteSource(e.docs),
		wizard.WithLogger(e.log),
	}
	if e.client != nil {
		options = append(options,
			wizard.WithExtractor(e.client),
			wizard.WithGenerator(e.client),
		)
	}
	return wizard.New(e.store, e.registry, options...)
}
