package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/climind/climind/capabilities"
	"github.com/climind/climind/catalog"
	"github.com/climind/climind/config"
	"github.com/climind/climind/fetchers"
	"github.com/climind/climind/journal"
	"github.com/climind/climind/metadata"
	"github.com/climind/climind/metrics"
	"github.com/climind/climind/readers"
	"github.com/climind/climind/scheduler"
	"github.com/climind/climind/services"
)

// Prints usage info.
func usage() {
	fmt.Fprintf(os.Stderr, "%s: usage:\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "%s <config_file> <command> [key=value ...]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "commands:\n")
	fmt.Fprintf(os.Stderr, "  list      list the datasets matching the given criteria\n")
	fmt.Fprintf(os.Stderr, "  download  download the matching datasets into the data directory\n")
	fmt.Fprintf(os.Stderr, "  manifest  write a datapackage.json for each matching collection\n")
	fmt.Fprintf(os.Stderr, "  refresh   download the datasets selected by the refresh config\n")
	fmt.Fprintf(os.Stderr, "  serve     start the catalog service (and scheduled refreshes)\n")
	fmt.Fprintf(os.Stderr, "Criteria of the form key=v1,v2 match any of the listed values.\n")
	fmt.Fprintf(os.Stderr, "See README.md for details on config files.\n")
	os.Exit(1)
}

// everything a command needs
type app struct {
	archive  *catalog.Archive
	registry *capabilities.Registry
	metrics  *metrics.Metrics
	journal  *journal.Journal
}

func main() {

	if len(os.Args) < 3 {
		usage()
	}
	configFile, command := os.Args[1], os.Args[2]
	criteria, err := metadata.ParseCriteria(os.Args[3:])
	if err != nil {
		log.Panicf("%s\n", err.Error())
	}

	// Read any .env file alongside the configuration, then the configuration.
	err = config.LoadEnvFile(filepath.Join(filepath.Dir(configFile), ".env"))
	if err != nil {
		log.Panicf("Couldn't load environment file: %s\n", err.Error())
	}
	log.Printf("Reading configuration from '%s'...\n", configFile)
	b, err := os.ReadFile(configFile)
	if err != nil {
		log.Panicf("Couldn't read %s: %s\n", configFile, err.Error())
	}
	err = config.Init(b)
	if err != nil {
		log.Panicf("Couldn't initialize the configuration: %s\n", err.Error())
	}
	initLogging(os.Stderr)

	a, err := newApp()
	if err != nil {
		log.Panicf("Couldn't set up the catalog: %s\n", err.Error())
	}
	if a.journal != nil {
		defer a.journal.Close()
	}

	switch command {
	case "list":
		err = a.list(os.Stdout, criteria)
	case "download":
		err = a.archive.Select(criteria).Download(config.Service.DataDirectory)
	case "manifest":
		err = a.writeManifests(criteria)
	case "refresh":
		err = a.refresh(criteria)
	case "serve":
		err = a.serve()
	default:
		usage()
	}
	if err != nil {
		slog.Error(err.Error())
		if a.journal != nil {
			a.journal.Close()
		}
		os.Exit(1)
	}
}

// installs a JSON log handler at the configured level
func initLogging(w io.Writer) {
	var level slog.Level
	level.UnmarshalText([]byte(config.Service.LogLevel))
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// registers fetchers and readers (with journal and metrics middleware) and
// loads the archive from the metadata directory
func newApp() (*app, error) {
	a := &app{
		registry: capabilities.NewRegistry(),
	}
	err := fetchers.Register(a.registry, config.Fetchers, config.Credentials)
	if err != nil {
		return nil, err
	}
	err = readers.Register(a.registry)
	if err != nil {
		return nil, err
	}
	if config.Service.Journal != "" {
		a.journal, err = journal.Open(config.Service.Journal)
		if err != nil {
			return nil, err
		}
		a.registry.UseFetchMiddleware(a.journal.Middleware())
	}
	a.metrics = metrics.Instrument(a.registry)

	env, err := catalog.NewEnv(a.registry)
	if err != nil {
		return nil, err
	}
	env.Climatology = catalog.Baseline{
		Start: config.Climatology.Start,
		End:   config.Climatology.End,
	}
	a.archive, err = catalog.LoadArchive(env, config.Service.MetadataDirectory)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// prints each matching dataset, grouped by collection
func (a *app) list(w io.Writer, criteria metadata.Record) error {
	a.metrics.ObserveSelection()
	for _, c := range a.archive.Select(criteria).Collections() {
		fmt.Fprintf(w, "%s\n", c)
		for _, ds := range c.Datasets() {
			fmt.Fprintf(w, "  %s", ds)
			if displayName := ds.Metadata().GetString("display_name"); displayName != "" {
				fmt.Fprintf(w, ": %s", displayName)
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}

// writes a manifest into the directory of each matching collection
func (a *app) writeManifests(criteria metadata.Record) error {
	for _, c := range a.archive.Select(criteria).Collections() {
		pkg, err := c.Manifest(config.Service.DataDirectory)
		if err != nil {
			return err
		}
		dir, err := c.CollectionDir(config.Service.DataDirectory)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, catalog.ManifestFile)
		if err := pkg.SaveDescriptor(path); err != nil {
			return err
		}
		slog.Info(fmt.Sprintf("Wrote manifest for %s to %s", c, path))
	}
	return nil
}

// downloads the datasets selected by the given criteria, or by the refresh
// configuration if none are given
func (a *app) refresh(criteria metadata.Record) error {
	if len(criteria) == 0 {
		criteria = config.Refresh.Criteria
	}
	return scheduler.New(a.archive, config.Service.DataDirectory, 0, criteria).Refresh()
}

// runs the catalog service (and any scheduled refresh) until signaled
func (a *app) serve() error {
	service, err := services.NewCatalogService(a.archive, a.registry, a.metrics)
	if err != nil {
		return err
	}

	period, err := config.Refresh.Period()
	if err != nil {
		return err
	}
	if period > 0 {
		s := scheduler.New(a.archive, config.Service.DataDirectory, period, config.Refresh.Criteria)
		if err := s.Start(); err != nil {
			return err
		}
		defer s.Stop()
	}

	// Start the service in a goroutine so it doesn't block.
	go func() {
		err := service.Start(config.Service.Port)
		if err != nil {
			log.Println(err.Error())
		}
	}()

	// Intercept the SIGINT, SIGHUP, SIGTERM, and SIGQUIT signals, shutting down
	// the service as gracefully as possible if they are encountered.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan,
		syscall.SIGINT,
		syscall.SIGHUP,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	// Block till we receive one of the above signals.
	<-sigChan

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Wait for connections to close until the deadline elapses.
	slog.Info("Shutting down")
	return service.Shutdown(ctx)
}
