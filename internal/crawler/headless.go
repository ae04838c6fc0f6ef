package crawler

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// thinContentWordFloor is the word count below which a fetched page is
// considered a client-rendered shell worth re-fetching with a headless
// browser, standing in for scrapy_playwright's PLAYWRIGHT_AVAILABLE path.
const thinContentWordFloor = 40

// IsThinContent reports whether a page's extracted text is too sparse to
// be the real content, signaling the caller should retry with
// RenderWithHeadlessBrowser.
func IsThinContent(text string) bool {
	return len(strings.Fields(text)) < thinContentWordFloor
}

// RenderWithHeadlessBrowser loads pageURL in a headless Chrome instance,
// waits a fixed 500ms after navigation and returns the DOM's outer HTML,
// used as a fallback for JS-rendered pages whose plain HTTP fetch yields
// thin content. It clicks no consent or continue button and does not wait
// for any amount of body text to appear.
func RenderWithHeadlessBrowser(ctx context.Context, pageURL string) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
	)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	renderCtx, cancelTimeout := context.WithTimeout(browserCtx, 20*time.Second)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(renderCtx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}
