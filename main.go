package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mbolis/study-abroad/app"
	"github.com/mbolis/study-abroad/config"
	"github.com/mbolis/study-abroad/database"
	"github.com/mbolis/study-abroad/httpx"
	"github.com/mbolis/study-abroad/log"
	"github.com/mbolis/study-abroad/routes"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatal("main.dotenv:", err)
	}
	cfg, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg.DBUrl)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	if cfg.UniversitiesCSV != "" {
		if err = loadUniversities(db, cfg.UniversitiesCSV); err != nil {
			log.Fatal("main.db.universities:", err)
		}
	}

	app := app.App{
		DB:           db,
		BearerServer: httpx.NewBearerServer(db, cfg),
		Config:       cfg,
	}

	err = runServer(cfg, routes.Wire(app))
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func loadUniversities(db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := database.LoadUniversities(context.Background(), db, f)
	if err != nil {
		return err
	}
	log.Infof("Loaded %d new universities from %s", n, path)
	return nil
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	log.Info("Listening on " + cfg.Url())
	return serve(srv, ln, stop)
}

// serve runs srv on ln until a signal arrives on stop. It returns only after
// in-flight requests have drained, so the caller may release what they use.
func serve(srv *http.Server, ln net.Listener, stop <-chan os.Signal) error {
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-stop
		log.Info("Shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Errorf("main.shutdown: %s", err)
		}
	}()

	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		<-drained
	}
	return err
}
