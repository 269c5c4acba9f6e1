package cli

import (
	"go.uber.org/zap"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/config"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/connector"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/engine"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/extract"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/impact"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/store"
)

// app is one fully wired engine instance plus what it needs closed.
type app struct {
	cfg    config.Config
	store  *store.Store
	engine *engine.Engine
	log    *zap.Logger
}

// openApp loads config, opens the store, and wires the full pipeline.
// Callers must Close the returned app.
func openApp(opts *RootOptions, log *zap.Logger) (*app, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	if opts.DBPath != "" {
		cfg.DBPath = opts.DBPath
	}
	if log == nil {
		log = zap.NewNop()
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open store", err)
	}

	m, err := impact.LoadModel(cfg.CrossRefPath)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "load cross-reference model", err)
	}

	us := connector.NewUSClient(cfg.Connectors.USBaseURL, cfg.Connectors.Timeout())
	eu := connector.NewEUClient(cfg.Connectors.EUBaseURL, cfg.Connectors.Timeout())
	eng := engine.New(st, us, eu, extract.New(st), impact.NewResolver(st, m), log)

	return &app{cfg: cfg, store: st, engine: eng, log: log}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
