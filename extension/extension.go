// Package extension provides the Forge extension adapter for Tokenvest.
//
// It implements the forge.Extension interface to integrate the vesting
// engine into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.tokenvest" or
// "tokenvest" keys.
package extension

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/mobinsaeidi/tokenvest"
	"github.com/mobinsaeidi/tokenvest/journal"
	"github.com/mobinsaeidi/tokenvest/ledger"
	ledgermem "github.com/mobinsaeidi/tokenvest/ledger/memory"
	"github.com/mobinsaeidi/tokenvest/store"
	storemem "github.com/mobinsaeidi/tokenvest/store/memory"
	redisstore "github.com/mobinsaeidi/tokenvest/store/redis"
	"github.com/mobinsaeidi/tokenvest/types"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "tokenvest"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Supply-capped token vesting engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts the vesting engine as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *tokenvest.Engine
	store      store.Store
	ledger     ledger.Ledger
	engineOpts []tokenvest.Option
}

// New creates a new Tokenvest Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying vesting engine instance.
// This is nil until Register is called.
func (e *Extension) Engine() *tokenvest.Engine { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the vesting engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// When a Redis URL is configured and no store was provided
	// programmatically, schedules and the event journal live in Redis.
	// The store owns the client, so engine shutdown closes it.
	if e.store == nil && e.config.RedisURL != "" {
		ropts, err := goredis.ParseURL(e.config.RedisURL)
		if err != nil {
			return fmt.Errorf("tokenvest: parse redis_url: %w", err)
		}
		client := goredis.NewClient(ropts)
		e.store = redisstore.New(client)

		j := journal.New(journal.Options{Client: client})
		e.engineOpts = append(e.engineOpts, tokenvest.WithPlugin(journal.NewRecorder(j)))
	}

	// Use memory backends for whatever is still unset.
	if e.store == nil {
		e.store = storemem.New()
	}
	if e.ledger == nil {
		e.ledger = ledgermem.New()
	}

	// Build engine options from resolved config.
	opts := e.buildEngineOpts()

	eng := tokenvest.New(e.store, e.ledger,
		types.Address(e.config.Authority),
		types.Amount(e.config.MaxSupply),
		opts...,
	)
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*tokenvest.Engine, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("tokenvest: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("tokenvest: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildEngineOpts constructs tokenvest.Option values from the resolved config.
func (e *Extension) buildEngineOpts() []tokenvest.Option {
	opts := make([]tokenvest.Option, 0, len(e.engineOpts)+1)

	if e.config.EscrowAccount != "" {
		opts = append(opts, tokenvest.WithEscrowAccount(types.Address(e.config.EscrowAccount)))
	}

	// Append any pass-through engine options.
	opts = append(opts, e.engineOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("tokenvest: configuration is required but not found in config files; " +
				"ensure 'extensions.tokenvest' or 'tokenvest' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	if err := e.validateConfig(); err != nil {
		return err
	}

	e.Logger().Debug("tokenvest: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("authority", e.config.Authority),
		forge.F("escrow_account", e.config.EscrowAccount),
		forge.F("max_supply", e.config.MaxSupply),
		forge.F("redis", e.config.RedisURL != ""),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.tokenvest" first (namespaced pattern).
	if cm.IsSet("extensions.tokenvest") {
		if err := cm.Bind("extensions.tokenvest", &cfg); err == nil {
			e.Logger().Debug("tokenvest: loaded config from file",
				forge.F("key", "extensions.tokenvest"),
			)
			return cfg, true
		}
		e.Logger().Warn("tokenvest: failed to bind extensions.tokenvest config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "tokenvest" key.
	if cm.IsSet("tokenvest") {
		if err := cm.Bind("tokenvest", &cfg); err == nil {
			e.Logger().Debug("tokenvest: loaded config from file",
				forge.F("key", "tokenvest"),
			)
			return cfg, true
		}
		e.Logger().Warn("tokenvest: failed to bind tokenvest config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.Authority == "" {
		cfg.Authority = defaults.Authority
	}
	if cfg.EscrowAccount == "" {
		cfg.EscrowAccount = defaults.EscrowAccount
	}
	if cfg.MaxSupply == 0 {
		cfg.MaxSupply = defaults.MaxSupply
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.Authority == "" && programmaticConfig.Authority != "" {
		yamlConfig.Authority = programmaticConfig.Authority
	}
	if yamlConfig.EscrowAccount == "" && programmaticConfig.EscrowAccount != "" {
		yamlConfig.EscrowAccount = programmaticConfig.EscrowAccount
	}
	if yamlConfig.RedisURL == "" && programmaticConfig.RedisURL != "" {
		yamlConfig.RedisURL = programmaticConfig.RedisURL
	}

	// Numeric fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.MaxSupply == 0 && programmaticConfig.MaxSupply != 0 {
		yamlConfig.MaxSupply = programmaticConfig.MaxSupply
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}

// validateConfig rejects configurations the engine cannot run with.
func (e *Extension) validateConfig() error {
	if e.config.Authority == e.config.EscrowAccount {
		return &tokenvest.ValidationError{
			Field:   "escrow_account",
			Message: "must differ from authority",
		}
	}
	return nil
}
