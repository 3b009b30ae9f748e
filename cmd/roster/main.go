/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command roster serves the member search API.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomoncle/roster"
	"github.com/tomoncle/roster/api"
	"github.com/tomoncle/roster/config"
	"github.com/tomoncle/roster/database"
	"github.com/tomoncle/roster/utils"
)

var log = utils.NewLogger("MAIN")

func main() {
	configPath := flag.String("config", utils.EnvDefaultString("APP_CONFIG", "configs/config.yaml"), "path to the YAML configuration")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.WithError(err).Fatal("roster stopped")
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	utils.ConfigureLogLevel(cfg.Log.Level)
	utils.ConfigureConsoleLogFormat(cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := database.InitDB(ctx, &cfg.Database); err != nil {
		return err
	}
	defer func() {
		if err := database.CloseDB(); err != nil {
			log.WithError(err).Warn("close database")
		}
	}()

	svc := roster.NewMemberService()
	if cfg.SeedOnStartup() {
		seed := cfg.Database.DataInitConfig
		if _, err := svc.Seed(ctx, seed.Teams, seed.Members); err != nil {
			return err
		}
	}

	handler := api.NewHandler(svc, utils.NewLogger("API"), cfg.Server.AllowedOrigins...)
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(utils.Fields("addr", server.Addr, "profile", cfg.Profile)).Info("starting http server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
