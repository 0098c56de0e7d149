// zipl-sync drives the s390x boot loader backend for a deployment manager:
// "mark" records that a boot loader re-index is owed, "apply" performs it
// once per sync cycle, "status" reports whether one is owed.
package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/cozystack/zipl-sync/internal/bootloader"
	"github.com/cozystack/zipl-sync/internal/bootloader/zipl"
	"github.com/cozystack/zipl-sync/internal/config"
	"github.com/cozystack/zipl-sync/internal/executil"
	"github.com/cozystack/zipl-sync/internal/logging"
	"github.com/cozystack/zipl-sync/internal/sysroot"
)

//nolint:gochecknoglobals
var (
	sysrootFlag string
	configFlag  string
	logLevel    string
	bootVersion int
)

// ziplOptions overlays the configuration file onto the stock defaults.
func ziplOptions(cfg *config.Config) zipl.Options {
	opts := zipl.DefaultOptions()
	if cfg.Zipl.BootDir != "" {
		opts.BootDir = cfg.Zipl.BootDir
	}
	if cfg.Zipl.UpdateStamp != "" {
		opts.UpdateStamp = cfg.Zipl.UpdateStamp
	}
	se := cfg.SecureExecution
	if se.HostKeyDir != "" {
		opts.HostKeyDir = se.HostKeyDir
	}
	if se.HostKeyPrefix != "" {
		opts.HostKeyPrefix = se.HostKeyPrefix
	}
	if se.BootImage != "" {
		opts.BootImage = se.BootImage
	}
	if se.InitrdImage != "" {
		opts.InitrdImage = se.InitrdImage
	}
	if se.LUKSRootKey != "" {
		opts.LUKSRootKey = se.LUKSRootKey
	}
	if se.LUKSConfig != "" {
		opts.LUKSConfig = se.LUKSConfig
	}
	if se.RamdiskTool != "" {
		opts.RamdiskTool = se.RamdiskTool
	}
	return opts
}

func newBackend() (bootloader.Bootloader, *sysroot.Sysroot, error) {
	cfg, err := config.Parse(configFlag)
	if err != nil {
		return nil, nil, err
	}

	var sys *sysroot.Sysroot
	if sysrootFlag == "/" {
		sys = sysroot.NewFromHost()
	} else {
		sys = sysroot.New(sysrootFlag)
	}

	backend, err := bootloader.ForName(cfg.Backend, sys, executil.ExecRunner{}, ziplOptions(cfg))
	if err != nil {
		return nil, nil, err
	}
	return backend, sys, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "zipl-sync",
		Short:        "sync deployment boot configuration into the s390x boot loader",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Setup(logLevel)
		},
	}
	rootCmd.PersistentFlags().StringVar(&sysrootFlag, "sysroot", "/", "deployment root to operate on")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", config.DefaultPath, "configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warning, error)")

	markCmd := &cobra.Command{
		Use:   "mark",
		Short: "record that a boot loader re-index is owed",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, _, err := newBackend()
			if err != nil {
				return err
			}
			return backend.MarkPending()
		},
	}

	applyCmd := &cobra.Command{
		Use:   "apply",
		Short: "perform the pending boot loader re-index, if any",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, sys, err := newBackend()
			if err != nil {
				return err
			}
			if !sys.BootedDeployment {
				return errors.New("refusing to re-index the boot loader without a booted deployment")
			}
			return backend.ApplyPending(bootVersion)
		},
	}
	applyCmd.Flags().IntVar(&bootVersion, "boot-version", 0, "boot configuration version to apply")
	_ = applyCmd.MarkFlagRequired("boot-version")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "report whether a boot loader re-index is owed",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, _, err := newBackend()
			if err != nil {
				return err
			}
			querier, ok := backend.(interface{ Pending() (bool, error) })
			if !ok {
				return errors.Newf("backend %s does not track pending state", backend.Name())
			}
			pending, err := querier.Pending()
			if err != nil {
				return err
			}
			if pending {
				fmt.Println("update pending")
			} else {
				fmt.Println("up to date")
			}
			return nil
		},
	}

	rootCmd.AddCommand(markCmd, applyCmd, statusCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
