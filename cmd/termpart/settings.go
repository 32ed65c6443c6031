package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pkt.systems/pslog"
	"pkt.systems/termpart/internal/appconfig"
	"pkt.systems/termpart/internal/settings"
	"pkt.systems/termpart/schema"
)

func newSettingsCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect persisted part settings",
	}
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.AddCommand(newSettingsShowCmd(&cfgPath))
	return cmd
}

// settingsView is the printable form of a snapshot.
type settingsView struct {
	Stored         bool   `yaml:"stored"`
	Font           string `yaml:"font"`
	CustomFont     string `yaml:"custom_font"`
	History        string `yaml:"history"`
	Schema         string `yaml:"schema"`
	Keymap         int    `yaml:"keymap"`
	Bell           int    `yaml:"bell"`
	Scrollbar      int    `yaml:"scrollbar"`
	WordSeparators string `yaml:"word_separators"`
	LineSpacing    int    `yaml:"line_spacing"`
	BlinkingCursor bool   `yaml:"blinking_cursor"`
	Frame          bool   `yaml:"frame"`
	SizeHint       bool   `yaml:"size_hint"`
}

func toSettingsView(snap schema.Snapshot, stored bool) settingsView {
	return settingsView{
		Stored:         stored,
		Font:           snap.Font.String(),
		CustomFont:     snap.CustomFont.String(),
		History:        snap.History().String(),
		Schema:         snap.SchemaPath,
		Keymap:         int(snap.Keymap),
		Bell:           int(snap.Bell),
		Scrollbar:      int(snap.Scrollbar),
		WordSeparators: snap.WordSeparators,
		LineSpacing:    snap.LineSpacing,
		BlinkingCursor: snap.BlinkingCursor,
		Frame:          snap.FrameVisible,
		SizeHint:       snap.TerminalSizeHint,
	}
}

func newSettingsShowCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored settings with defaults applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(*cfgPath)
			if err != nil {
				return err
			}
			store, err := settings.NewStore(cfg.SettingsDir, pslog.Ctx(cmd.Context()))
			if err != nil {
				return err
			}
			snap, stored := store.Load()
			data, err := yaml.Marshal(toSettingsView(snap, stored))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
