package main

import (
	"os"
	"time"

	"github.com/akamensky/argparse"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"faleproxy/handlers"
	"faleproxy/pkg/config"
	"faleproxy/pkg/fetcher"
	"faleproxy/pkg/rewriter"
)

func main() {
	parser := argparse.NewParser("faleproxy", "Fetches a web page, rewrites Yale to Fale, and serves the result")
	port := parser.String("p", "port", &argparse.Options{Help: "Port the server listens on"})
	configPath := parser.String("c", "config", &argparse.Options{Help: "Path to a YAML config file"})
	if err := parser.Parse(os.Args); err != nil {
		logrus.Fatal(parser.Usage(err))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("could not load config")
	}
	if *port != "" {
		cfg.Port = *port
	}

	client := fetcher.New(cfg.UserAgent, time.Duration(cfg.Timeout)*time.Second, cfg.AllowedDomains)
	rw := rewriter.New(cfg.Rules)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/", handlers.Index())
	app.Get("/ruleset", handlers.Ruleset(rw.Rules(), cfg.ExposeRuleset))
	app.Post("/fetch", handlers.FetchSite(client, rw))

	logrus.WithField("port", cfg.Port).Info("starting faleproxy")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}
