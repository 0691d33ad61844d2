// The gateway binary serves the off-chain resolution API: it looks up
// domain mappings in the configured data source and returns signed,
// time-bounded attestations that the resolver contract verifies.
package main

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/Jayrodri088/offchain-resolution-gateway/api/resolverhandler"
	"github.com/Jayrodri088/offchain-resolution-gateway/attester"
	"github.com/Jayrodri088/offchain-resolution-gateway/common"
	"github.com/Jayrodri088/offchain-resolution-gateway/cryptoutils"
	"github.com/Jayrodri088/offchain-resolution-gateway/datasource"
	"github.com/Jayrodri088/offchain-resolution-gateway/felt"
	"github.com/Jayrodri088/offchain-resolution-gateway/httpserver"
	"github.com/Jayrodri088/offchain-resolution-gateway/interfaces"
)

var flags []cli.Flag = []cli.Flag{
	&cli.StringFlag{
		Name:  "listen-addr",
		Value: "127.0.0.1:8080",
		Usage: "address to listen on for the resolution API",
	},
	&cli.StringFlag{
		Name:  "metrics-addr",
		Value: "127.0.0.1:8090",
		Usage: "address to listen on for Prometheus metrics",
	},
	&cli.StringFlag{
		Name:  "signing-key",
		Value: "",
		Usage: "hex-encoded secp256k1 private key for signing attestations",
	},
	&cli.StringFlag{
		Name:  "signing-seed",
		Value: "",
		Usage: "hex-encoded 32-byte seed to derive the signing key from (alternative to signing-key)",
	},
	&cli.StringFlag{
		Name:  "data-source",
		Value: "mem://",
		Usage: "data source URI, e.g. notion://TOKEN@DATABASE_ID or file:///path/domains.json",
	},
	&cli.StringFlag{
		Name:  "parent-domain",
		Value: "notion.stark",
		Usage: "parent domain suffix served by this gateway",
	},
	&cli.StringFlag{
		Name:  "resolve-field",
		Value: attester.DefaultResolveField,
		Usage: "field attested by this gateway, short-string encoded on the wire",
	},
	&cli.DurationFlag{
		Name:  "validity-window",
		Value: 1 * time.Hour,
		Usage: "how long issued attestations stay valid",
	},
	&cli.BoolFlag{
		Name:  "log-json",
		Value: false,
		Usage: "log in JSON format",
	},
	&cli.BoolFlag{
		Name:  "log-debug",
		Value: false,
		Usage: "log debug messages",
	},
	&cli.BoolFlag{
		Name:  "log-uid",
		Value: false,
		Usage: "generate a uuid and add to all log messages",
	},
	&cli.StringFlag{
		Name:  "log-service",
		Value: "resolution-gateway",
		Usage: "add 'service' tag to logs",
	},
	&cli.BoolFlag{
		Name:  "pprof",
		Value: false,
		Usage: "enable pprof debug endpoint",
	},
	&cli.Int64Flag{
		Name:  "drain-seconds",
		Value: 45,
		Usage: "seconds to wait in drain HTTP request",
	},
}

func main() {
	app := &cli.App{
		Name:  "gateway",
		Usage: "Serve signed off-chain domain resolution attestations",
		Flags: flags,
		Action: func(cCtx *cli.Context) error {
			listenAddr := cCtx.String("listen-addr")
			metricsAddr := cCtx.String("metrics-addr")
			signingKeyHex := cCtx.String("signing-key")
			signingSeedHex := cCtx.String("signing-seed")
			dataSourceURI := cCtx.String("data-source")
			parentDomain := cCtx.String("parent-domain")
			resolveField := cCtx.String("resolve-field")
			validityWindow := cCtx.Duration("validity-window")
			logJSON := cCtx.Bool("log-json")
			logDebug := cCtx.Bool("log-debug")
			logUID := cCtx.Bool("log-uid")
			logService := cCtx.String("log-service")
			enablePprof := cCtx.Bool("pprof")
			drainDuration := time.Duration(cCtx.Int64("drain-seconds")) * time.Second

			logger := common.SetupLogger(&common.LoggingOpts{
				Debug:   logDebug,
				JSON:    logJSON,
				Service: logService,
				Version: common.Version,
			})

			if logUID {
				id := uuid.Must(uuid.NewRandom())
				logger = logger.With("uid", id.String())
			}

			// Load or derive the signing key
			signingKey, err := loadSigningKey(signingKeyHex, signingSeedHex)
			if err != nil {
				logger.Error("Failed to load signing key", "err", err)
				return err
			}

			logger.Info("Signing key loaded",
				"pubkey", hexutil.Encode(crypto.FromECDSAPub(&signingKey.PublicKey)))

			// Create the data source
			sourceFactory := datasource.NewFactory(logger)
			source, err := sourceFactory.DataSourceFor(interfaces.DataSourceLocation(dataSourceURI))
			if err != nil {
				logger.Error("Failed to create data source", "err", err)
				return err
			}
			logger.Info("Data source configured", "backend", source.Name(), "location", source.LocationURI())

			parent, err := interfaces.NewDomainName(parentDomain)
			if err != nil {
				logger.Error("Invalid parent domain", "err", err)
				return err
			}

			field, err := felt.FromShortString(resolveField)
			if err != nil {
				logger.Error("Invalid resolve field", "err", err)
				return err
			}

			att, err := attester.New(signingKey, source, attester.Config{
				ParentDomain:   parent,
				Field:          field,
				ValidityWindow: validityWindow,
			}, logger)
			if err != nil {
				logger.Error("Failed to create attester", "err", err)
				return err
			}

			handler := resolverhandler.NewHandler(att, logger)

			cfg := &httpserver.HTTPServerConfig{
				ListenAddr:               listenAddr,
				MetricsAddr:              metricsAddr,
				Log:                      logger,
				EnablePprof:              enablePprof,
				DrainDuration:            drainDuration,
				GracefulShutdownDuration: 30 * time.Second,
				ReadTimeout:              60 * time.Second,
				WriteTimeout:             30 * time.Second,
			}

			server, err := httpserver.New(cfg, handler)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			logger.Info("Starting gateway",
				"parentDomain", parent.String(),
				"validityWindow", validityWindow.String())
			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			logger.Info("Server is running, press Ctrl+C to stop")
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()
			logger.Info("Server shutdown complete")

			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadSigningKey(keyHex, seedHex string) (*ecdsa.PrivateKey, error) {
	switch {
	case keyHex != "" && seedHex != "":
		return nil, errors.New("signing-key and signing-seed are mutually exclusive")
	case keyHex != "":
		return cryptoutils.LoadSigningKey(keyHex)
	case seedHex != "":
		seed, err := hex.DecodeString(seedHex)
		if err != nil {
			return nil, fmt.Errorf("invalid signing-seed: %w", err)
		}
		return cryptoutils.DeriveSigningKey(seed)
	default:
		return nil, errors.New("either signing-key or signing-seed is required")
	}
}
