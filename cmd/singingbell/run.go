package main

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/urmzd/singingbell/pkg/actuator"
	"github.com/urmzd/singingbell/pkg/api"
	"github.com/urmzd/singingbell/pkg/chime"
	"github.com/urmzd/singingbell/pkg/config"
	"github.com/urmzd/singingbell/pkg/controller"
	"github.com/urmzd/singingbell/pkg/db"
	"github.com/urmzd/singingbell/pkg/device"
	"github.com/urmzd/singingbell/pkg/device/schema"
	"github.com/urmzd/singingbell/pkg/mcp"
	"github.com/urmzd/singingbell/pkg/netprobe"
	"github.com/urmzd/singingbell/pkg/scheduler"
	"github.com/urmzd/singingbell/pkg/service"
	"github.com/urmzd/singingbell/pkg/system"
	"github.com/urmzd/singingbell/pkg/version"
	"github.com/urmzd/singingbell/pkg/watchdog"
)

// run brings the bell up and serves until ctx ends.
func run(ctx context.Context, cfg *config.Config) error {
	log.Info().Str("version", version.Short()).Msg("Starting up singing bowl bell")

	resetter, err := system.NewResetter(cfg.Watchdog.Reset)
	if err != nil {
		return err
	}

	joiner := &netprobe.Joiner{
		Hostname: cfg.Network.Hostname,
		Address:  cfg.Network.Address,
		Netmask:  cfg.Network.Netmask,
		SSID:     cfg.WiFi.SSID,
		Password: cfg.WiFi.Password,
	}
	if err := joiner.Join(ctx); err != nil {
		system.Fatal(ctx, resetter, fmt.Errorf("network join: %w", err))
		return err
	}

	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	dbCfg, err := database.ActiveConfig(ctx)
	if err != nil {
		return fmt.Errorf("load active profile: %w", err)
	}

	cal, err := actuator.NewCalibration(dbCfg.CalibAngle())
	if err != nil {
		return err
	}

	log.Info().
		Str("profile", dbCfg.Profile.Name).
		Int("calib_angle", cal.CalibAngle).
		Int("ready_angle", cal.ReadyAngle).
		Int("mid_angle", cal.MidAngle).
		Int("chime_angle", cal.ChimeAngle).
		Str("api_address", dbCfg.APIAddress()).
		Msg("Configuration loaded")

	mallet := openActuator(cfg.Actuator)
	defer func() {
		if err := mallet.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close actuator")
		}
	}()

	events := database.Events()
	state := device.NewState()
	state.SetRecorder(events)

	validator := schema.NewValidator()
	if err := validator.Warm(schema.ChimeStrict, schema.ChimePermissive, schema.Calibrate); err != nil {
		return err
	}

	ctrl := controller.New(mallet, cal, state, validator,
		controller.WithEvents(events),
		controller.WithStrictType(cfg.StrictChimeType()),
	)

	wd := watchdog.New(
		&netprobe.ICMPPinger{Privileged: cfg.Watchdog.Privileged},
		resetter,
		cfg.Network.Gateway,
		watchdog.WithInterval(cfg.Watchdog.Interval),
		watchdog.WithTimeout(cfg.Watchdog.Timeout),
	)
	if !wd.Enabled() {
		log.Warn().Msg("No gateway configured, connectivity watchdog disabled")
	}

	svc := service.New(ctrl, service.WithWatchdog(wd), service.WithReady(ctrl.Ready))
	machine := chime.NewMachine(mallet, cal, state)

	log.Info().Str("address", dbCfg.APIAddress()).Msg("Starting HTTP server")
	ln, err := net.Listen("tcp", dbCfg.APIAddress())
	if err != nil {
		system.Fatal(ctx, resetter, fmt.Errorf("http listener: %w", err))
		return err
	}
	log.Info().Str("address", ln.Addr().String()).Msg("Ready! Listening")

	router := api.NewRouter(svc, mallet, svc, api.WithMCP(mcp.NewServer(svc).Handler()))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return scheduler.New().Run(ctx, svc.Activity(), machine.Activity())
	})
	g.Go(func() error {
		return router.Serve(ctx, ln)
	})

	err = g.Wait()
	log.Info().Msg("Shut down")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// openDatabase opens, migrates and seeds the database from the settings file.
func openDatabase(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	database, err := db.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", database.Path()).Msg("Database opened")

	if err := database.Migrate(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("run database migrations: %w", err)
	}

	needsBootstrap, err := database.NeedsBootstrap(ctx)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("check bootstrap status: %w", err)
	}
	if needsBootstrap {
		log.Info().Msg("First run detected, bootstrapping database")
		err := database.Bootstrap(ctx, db.Seed{
			ProfileName:   cfg.Network.Hostname,
			CalibAngle:    cfg.CalibAngle,
			ListenAddress: cfg.ListenAddress,
		})
		if err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("bootstrap database: %w", err)
		}
	}

	return database, nil
}

// openActuator opens the configured mallet driver, falling back to the null driver.
func openActuator(cfg config.Actuator) actuator.Actuator {
	if cfg.Driver != config.DriverSerial {
		log.Warn().Msg("No servo configured, using null actuator")
		return actuator.NewNullActuator()
	}

	servo, err := actuator.OpenSerialServo(cfg.Port, cfg.Baud)
	if err != nil {
		log.Warn().Err(err).Str("port", cfg.Port).Msg("Servo unavailable, using null actuator")
		return actuator.NewNullActuator()
	}
	return servo
}
