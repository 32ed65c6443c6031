package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pkt.systems/pslog"
	"pkt.systems/termpart"
	"pkt.systems/termpart/internal/appconfig"
	"pkt.systems/termpart/schema"
)

const closeTimeout = 5 * time.Second

func newRunCmd() *cobra.Command {
	var cfgPath string
	var workDir string
	var open string
	var save bool
	cmd := &cobra.Command{
		Use:   "run [-- shell [args...]]",
		Short: "Mount the part on this terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			applyRunArgs(&cfg, args, workDir)

			fd := int(os.Stdin.Fd())
			interactive := term.IsTerminal(fd)
			if interactive {
				if cols, rows, err := term.GetSize(fd); err == nil {
					cfg.Session.Columns, cfg.Session.Rows = cols, rows
				}
				state, err := term.MakeRaw(fd)
				if err != nil {
					return err
				}
				defer func() { _ = term.Restore(fd, state) }()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGHUP)
			defer stop()

			part, err := termpart.New(ctx, cfg, termpart.WithOutput(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
				defer cancel()
				_ = part.Close(closeCtx)
			}()

			if open != "" {
				if _, err := part.Open(ctx, open); err != nil {
					logger.Warn("open failed", "location", open, "err", err)
				}
			}
			if interactive {
				go watchWindowSize(ctx, fd, part)
			}
			go forwardInput(ctx, os.Stdin, part)

			select {
			case <-part.Done():
				logger.Debug("session ended")
				return nil
			case <-ctx.Done():
			}
			ctrl := part.Controller()
			if save {
				if err := ctrl.SaveSettings(context.Background()); err != nil {
					logger.Warn("settings save failed", "err", err)
				}
			}
			if err := ctrl.CloseSession(context.Background()); err != nil && !errors.Is(err, schema.ErrControllerDestroyed) {
				logger.Warn("session hangup failed", "err", err)
			}
			waitCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
			defer cancel()
			return part.Wait(waitCtx)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVarP(&workDir, "workdir", "w", "", "initial working directory (overrides config)")
	cmd.Flags().StringVar(&open, "open", "", "location to open after start")
	cmd.Flags().BoolVar(&save, "save", false, "save settings when terminated by a signal")
	return cmd
}

// applyRunArgs overrides the configured shell and working directory from
// the command line.
func applyRunArgs(cfg *appconfig.Config, args []string, workDir string) {
	if len(args) > 0 {
		cfg.Session.Shell = args[0]
		cfg.Session.Args = append([]string(nil), args[1:]...)
	}
	if workDir != "" {
		cfg.Session.WorkingDir = workDir
	}
}

type inputSink interface {
	Input(ctx context.Context, data []byte) error
	Done() <-chan struct{}
}

// forwardInput copies keyboard input to the session until it ends.
func forwardInput(ctx context.Context, in *os.File, part inputSink) {
	buf := make([]byte, 4096)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if ierr := part.Input(ctx, buf[:n]); ierr != nil {
				return
			}
		}
		if err != nil {
			return
		}
		select {
		case <-part.Done():
			return
		default:
		}
	}
}

// watchWindowSize resizes the session when the controlling terminal changes.
func watchWindowSize(ctx context.Context, fd int, part *termpart.Part) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	defer signal.Stop(ch)
	for {
		select {
		case <-ctx.Done():
			return
		case <-part.Done():
			return
		case <-ch:
			cols, rows, err := term.GetSize(fd)
			if err != nil {
				continue
			}
			if err := part.Controller().Resize(ctx, cols, rows); err != nil {
				pslog.Ctx(ctx).Debug("resize failed", "err", err)
			}
		}
	}
}
