package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/cmd/assetd/handlers"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store/iavl"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tendermint/tendermint/libs/log"
)

type configuration struct {
	HTTP string `envconfig:"HTTP" default:":8000"`
	// DataDir is where the state is kept. Empty keeps it in memory.
	DataDir     string `envconfig:"DATA_DIR"`
	GenesisFile string `envconfig:"GENESIS_FILE" default:"genesis.json"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	// ConfAdmin is the party that can create the asset configuration when
	// genesis did not.
	ConfAdmin string `envconfig:"CONF_ADMIN"`
	Debug     bool   `envconfig:"DEBUG" default:"false"`
}

func main() {
	// A missing .env file is fine, the environment is used as is.
	_ = godotenv.Load(".env")

	var conf configuration
	if err := envconfig.Process("ASSETD", &conf); err != nil {
		fmt.Fprintf(os.Stderr, "configuration: %s\n", err)
		os.Exit(2)
	}

	logger, err := newLogger(conf.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %s\n", err)
		os.Exit(2)
	}

	if err := run(conf, logger); err != nil {
		logger.Error("assetd stopped", "err", fmt.Sprintf("%+v", err))
		os.Exit(1)
	}
}

func newLogger(level string) (log.Logger, error) {
	allow, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout))
	return log.NewFilter(logger, allow).With("module", "assetd"), nil
}

func run(conf configuration, logger log.Logger) error {
	db := iavl.MemCommitStore()
	if conf.DataDir != "" {
		db = iavl.NewCommitStore(conf.DataDir, "ledger")
	}
	// Runs after the server is shut down, no request can reach the store.
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("close store", "err", err)
		}
	}()

	l, err := openLedger(conf, db, logger)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("64K"))
	e.Use(requestLogger(logger))

	srv := &handlers.Server{Ledger: l, Debug: conf.Debug}
	srv.Register(e)

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", conf.HTTP, "chainID", l.ChainID(), "height", l.Height())
		errc <- e.Start(conf.HTTP)
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return errors.Wrap(err, "http server")
	case sig := <-sigc:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}

// openLedger loads the ledger state. A ledger that was never initialized
// is loaded from the genesis file.
func openLedger(conf configuration, store ledger.CommitKVStore, logger log.Logger) (*app.Ledger, error) {
	var admin ledger.Address
	if conf.ConfAdmin != "" {
		admin = ledger.PartyCondition(conf.ConfAdmin).Address()
	}

	l, err := app.NewApplication("assetd", store, admin)
	if err != nil {
		return nil, errors.Wrap(err, "open ledger")
	}
	l = l.WithLogger(logger)
	if l.ChainID() != "" {
		return l, nil
	}

	gen, err := app.LoadGenesis(conf.GenesisFile)
	if err != nil {
		return nil, err
	}
	state, err := gen.AppStateBytes()
	if err != nil {
		return nil, err
	}
	if err := l.InitChain(gen.ChainID, state); err != nil {
		return nil, errors.Wrap(err, "init chain")
	}
	return l, nil
}

// requestLogger logs every request with the ledger logger.
func requestLogger(logger log.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "err", v.Error)
				return nil
			}
			logger.Debug("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	})
}
