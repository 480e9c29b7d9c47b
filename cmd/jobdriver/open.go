package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"go-easyapply-automation/internal/browser"
	"go-easyapply-automation/internal/export"
	"go-easyapply-automation/internal/reporter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newOpenCmd(a *app) *cobra.Command {
	var printOnly bool
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open the URLs of the latest export in your default browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := export.NewStore(a.cfg.ExportDir).ReadLatest()
			if err != nil {
				return err
			}
			a.log.Info("📂 Opening latest batch", zap.String("path", batch.Path), zap.Int("count", len(batch.URLs)))

			for i, u := range batch.URLs {
				fmt.Fprintf(os.Stdout, "%3d. %s\n", i+1, reporter.Hyperlink(u.URL, u.URL))
				if printOnly {
					continue
				}
				if err := openURL(u.URL); err != nil {
					a.log.Warn("⚠️ Could not open URL", zap.String("url", u.URL), zap.Error(err))
				}
				browser.RandomDelay(200, 500)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "only print the URLs")
	return cmd
}

func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
