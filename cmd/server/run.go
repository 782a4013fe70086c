package main

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-web-server/internal/config"
	"github.com/MKhiriev/go-web-server/internal/logger"
	_ "github.com/MKhiriev/go-web-server/internal/routes"
	"github.com/MKhiriev/go-web-server/internal/server"
	"github.com/MKhiriev/go-web-server/internal/service"
	"github.com/MKhiriev/go-web-server/models"
)

//go:embed routes
var embeddedRoutes embed.FS

func runServer(cmd *cobra.Command, args []string) error {
	printBuildInfo()

	cfg, err := config.GetStructuredConfig(configArgs(args))
	if err != nil {
		return fmt.Errorf("error getting configs: %w", err)
	}

	name := config.GetString(cfg, "name", defaultName)
	log := newLogger(name, cfg)
	log.Debug().Any("config", cfg).Msg("received configs")

	folder, err := routeFolder(cfg)
	if err != nil {
		log.Err(err).Msg("error opening route folder")
		return err
	}

	appInfo, err := service.NewAppInfoService(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), log)
	if err != nil {
		log.Err(err).Msg("error creating app info service")
		return err
	}

	srv, err := server.New(name, folder, server.Options{
		Config:  cfg,
		Logger:  log,
		AppInfo: appInfo,
	})
	if err != nil {
		log.Err(err).Msg("error creating server")
		return err
	}

	if err := srv.Run(cmd.Context()); err != nil {
		log.Err(err).Msg("server stopped with error")
		return err
	}
	return nil
}

// newLogger picks the console logger for development, JSON otherwise.
func newLogger(name string, cfg config.Provider) *logger.Logger {
	env := os.Getenv(server.EnvEnvironment)
	if env == "" {
		env = config.GetString(cfg, "environment", "development")
	}
	if env == "development" {
		return logger.NewConsoleLogger(name)
	}
	return logger.NewLogger(name)
}

// routeFolder returns the configured route folder, or the embedded one.
func routeFolder(cfg config.Provider) (fs.FS, error) {
	if dir := config.GetString(cfg, "routes", ""); dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", dir)
		}
		return os.DirFS(dir), nil
	}
	return fs.Sub(embeddedRoutes, "routes")
}
