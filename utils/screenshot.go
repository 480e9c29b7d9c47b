package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// ScreenShotDebugger saves full-page screenshots when a run hits something a human
// should look at afterwards (navigation timeouts, aborted applications).
type ScreenShotDebugger struct {
	outputDir string
	log       *zap.Logger
}

func NewScreenShotDebugger(dir string, log *zap.Logger) *ScreenShotDebugger {
	if dir == "" {
		dir = filepath.Join(".", "logs", "screenshots")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ScreenShotDebugger{
		outputDir: dir,
		log:       log,
	}
}

// Filename is the file name used for a capture called name taken at ts.
func Filename(name string, ts time.Time) string {
	return fmt.Sprintf("%s_%s.png", name, ts.Format("2006-01-02_15-04-05"))
}

func (s *ScreenShotDebugger) CaptureAndLog(page playwright.Page, name, message string) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(s.outputDir, Filename(name, time.Now()))
	s.log.Info("📸 " + message)

	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		s.log.Warn("⚠️ Failed to capture screenshot", zap.Error(err))
		return "", err
	}

	s.log.Info("   Screenshot saved", zap.String("path", path))
	return path, nil
}
