package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thealiamalia/nyami-bank-state/internal/config"
	"github.com/thealiamalia/nyami-bank-state/internal/host"
)

var widgetFile string

var widgetCmd = &cobra.Command{
	Use:       "widget <open|closed|absent>",
	Short:     "Set the bank widget state in the widget file",
	Long:      `Write the bank container's state to the widget file read by 'bankstate serve'.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"open", "closed", "absent"},
	RunE:      runWidget,
}

func init() {
	widgetCmd.Flags().StringVar(&widgetFile, "widgets", "", "Widget state file (default $XDG_STATE_HOME/bankstate/widgets.json)")
}

func runWidget(cmd *cobra.Command, args []string) error {
	path := widgetFile
	if path == "" {
		path = config.GetPaths().WidgetFile()
	}

	switch args[0] {
	case "open":
		return host.WriteFile(path, host.Widget{ID: host.BankContainer, Hidden: false})
	case "closed":
		return host.WriteFile(path, host.Widget{ID: host.BankContainer, Hidden: true})
	case "absent":
		return host.WriteFile(path)
	default:
		return fmt.Errorf("unknown widget state %q", args[0])
	}
}
