package browser

import (
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// RandomDelay sleeps for a random number of milliseconds in [minMs, maxMs].
func RandomDelay(minMs, maxMs int) {
	d := minMs
	if maxMs > minMs {
		d += rand.Intn(maxMs - minMs + 1)
	}
	time.Sleep(time.Duration(d) * time.Millisecond)
}

// HumanScroll pages through the results the way a reader would: a few half-screen
// steps down, then a short step back.
func HumanScroll(page playwright.Page, steps int) error {
	for range steps {
		if _, err := page.Evaluate("window.scrollBy(0, window.innerHeight / 2)"); err != nil {
			return ClassifyNavigation(err)
		}
		RandomDelay(300, 900)
	}
	_, err := page.Evaluate("window.scrollBy(0, -200)")
	return ClassifyNavigation(err)
}

// MouseJiggle moves the pointer to a few random spots inside the viewport.
func MouseJiggle(page playwright.Page, moves int) error {
	vp := page.ViewportSize()
	if vp == nil || vp.Width <= 0 || vp.Height <= 0 {
		return nil
	}
	for range moves {
		x, y := rand.Intn(vp.Width), rand.Intn(vp.Height)
		if err := page.Mouse().Move(float64(x), float64(y)); err != nil {
			return ClassifyNavigation(err)
		}
		RandomDelay(100, 300)
	}
	return nil
}

// Linger is the pause between two result pages.
func Linger(page playwright.Page) {
	_ = HumanScroll(page, 2)
	_ = MouseJiggle(page, 2)
	RandomDelay(1000, 2500)
}
