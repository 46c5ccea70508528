package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/urmzd/singingbell/pkg/actuator"
	"github.com/urmzd/singingbell/pkg/db"
)

// profileCmd shows or changes the stored calibration and listen address.
func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the active profile.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), func(ctx context.Context, database *db.DB) error {
				cfg, err := database.ActiveConfig(ctx)
				if err != nil {
					return err
				}
				cal, err := actuator.NewCalibration(cfg.CalibAngle())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(),
					"profile: %s\nlisten: %s\ncalib angle: %d (ready %d, mid %d, chime %d)\n",
					cfg.Profile.Name, cfg.APIAddress(), cal.CalibAngle, cal.ReadyAngle, cal.MidAngle, cal.ChimeAngle)
				return err
			})
		},
	}

	var (
		calibAngle int
		listen     string
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Change the active profile. Takes effect on the next start.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), func(ctx context.Context, database *db.DB) error {
				cfg, err := database.ActiveConfig(ctx)
				if err != nil {
					return err
				}

				if cmd.Flags().Changed("calib-angle") {
					if _, err := actuator.NewCalibration(calibAngle); err != nil {
						return err
					}
					cfg.Profile.CalibAngle = calibAngle
					if err := database.Profiles().Update(ctx, cfg.Profile); err != nil {
						return err
					}
				}

				if cmd.Flags().Changed("listen") {
					host, port, err := db.ParseAddress(listen)
					if err != nil {
						return err
					}
					server := &db.APIServer{ProfileID: cfg.Profile.ID, Host: host, Port: port}
					if cfg.APIServer == nil {
						err = database.APIServers().Create(ctx, server)
					} else {
						err = database.APIServers().Update(ctx, server)
					}
					if err != nil {
						return err
					}
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), "profile updated")
				return err
			})
		},
	}
	set.Flags().IntVar(&calibAngle, "calib-angle", 0, "angle at which the mallet touches the bowl (10 to 170)")
	set.Flags().StringVar(&listen, "listen", "", "HTTP listen address (host:port)")
	cmd.AddCommand(set)

	return cmd
}

// withDatabase opens the configured database, bootstrapped if new, for a one-shot command.
func withDatabase(ctx context.Context, fn func(context.Context, *db.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	return fn(ctx, database)
}
