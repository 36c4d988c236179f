package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bobmcallan/square-mcp/internal/common"
	"github.com/bobmcallan/square-mcp/internal/config"
	"github.com/bobmcallan/square-mcp/internal/dispatch"
	"github.com/bobmcallan/square-mcp/internal/mcp"
	httpserver "github.com/bobmcallan/square-mcp/internal/server"
	"github.com/bobmcallan/square-mcp/internal/services"
)

// configPaths is a custom flag type that allows multiple -config flags.
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	serverPort  = flag.Int("port", 0, "Server port (overrides config)")
	serverHost  = flag.String("host", "", "Server host (overrides config)")
	stdio       = flag.Bool("stdio", false, "Use stdio transport (for desktop MCP clients)")
	showVersion = flag.Bool("version", false, "Print version information")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	config.LoadVersionFromFile()

	if *showVersion {
		fmt.Printf("square-mcp version %s\n", config.GetFullVersion())
		os.Exit(0)
	}

	if len(configFiles) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				configFiles = append(configFiles, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	config.ApplyFlagOverrides(cfg, *serverPort, *serverHost)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "Values can be set via TOML file, SQUARE_* environment variables, or CLI flags.")
		os.Exit(1)
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)

	registry, err := services.Default().Filter(cfg.Services.Enabled)
	if err != nil {
		logger.Error().Err(err).Msg("invalid services.enabled")
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	baseURL := cfg.Square.ResolveBaseURL()
	dispatcher := dispatch.New(baseURL,
		dispatch.WithHTTPClient(&http.Client{Timeout: cfg.Square.GetTimeout()}),
		dispatch.WithLogger(logger),
		dispatch.WithSquareVersion(cfg.Square.Version),
		dispatch.WithUserAgent(config.UserAgent()),
		dispatch.WithMetrics(dispatch.NewMetrics(reg)),
	)

	router := mcp.NewRouter(registry, dispatcher, logger, mcp.RouterConfig{
		DefaultCredential: cfg.Square.AccessToken,
		Environment:       cfg.Square.Environment,
		SquareVersion:     cfg.Square.Version,
		BaseURL:           baseURL,
	})
	mcpServer := mcp.NewMCPServer(cfg.Server.Name, config.GetVersion(), router)

	logger.Info().
		Str("environment", cfg.Square.Environment).
		Str("square_version", cfg.Square.Version).
		Bool("access_token", cfg.Square.AccessToken != "").
		Str("config_files", fmt.Sprintf("%v", configFiles)).
		Msg("configuration loaded")

	if *stdio {
		if cfg.Square.AccessToken == "" {
			logger.Warn().Msg("no access token configured; Square calls will be sent without Authorization")
		}
		if err := server.ServeStdio(mcpServer); err != nil {
			logger.Error().Err(err).Msg("stdio server error")
			os.Exit(1)
		}
		return
	}

	handler := mcp.NewHandler(mcpServer, logger, cfg.Square.AccessToken != "")
	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	srv := httpserver.New(addr, handler, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), logger)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error().Err(err).Msg("server failed to start")
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
func configSearchPaths() []string {
	candidates := []string{
		"square-mcp.toml",
		"config/square-mcp.toml",
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)
	return append([]string{
		filepath.Join(binDir, "square-mcp.toml"),
		filepath.Join(binDir, "config", "square-mcp.toml"),
	}, candidates...)
}
