// Package session obtains Instagram session credentials by driving a headless
// browser to the public landing page and harvesting the cookies it sets.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
)

const landingURL = "https://www.instagram.com/"

// Credentials is the flat cookie/token map used to authenticate profile API
// requests. No partial map is usable: acquisition either succeeds completely
// or fails.
type Credentials map[string]string

// CSRFToken returns the anti-forgery token for the x-csrftoken header.
func (c Credentials) CSRFToken() string { return c["csrftoken"] }

// UserID returns the value for the x-ig-user-id header. Anonymous sessions
// leave it empty.
func (c Credentials) UserID() string { return c["ds_user_id"] }

// Acquirer drives the browser-based credential capture.
type Acquirer struct {
	headless bool
	timeout  time.Duration
}

// NewAcquirer creates an Acquirer. timeout bounds the whole browser session;
// zero means a 2 minute default.
func NewAcquirer(headless bool, timeout time.Duration) *Acquirer {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Acquirer{headless: headless, timeout: timeout}
}

// Acquire launches a browser, loads the landing page, and merges all cookies
// plus the session token from local storage into a Credentials map.
func (a *Acquirer) Acquire(ctx context.Context) (Credentials, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, browserOptions(a.headless)...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	browserCtx, timeoutCancel := context.WithTimeout(browserCtx, a.timeout)
	defer timeoutCancel()

	var sessionToken string
	var cookies []*network.Cookie

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(landingURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		// Give the page's own scripts a moment to settle and write cookies.
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(`window.localStorage.getItem('Session') || ''`, &sessionToken),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			cookies, err = storage.GetCookies().Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire session: %w", err)
	}

	creds := make(Credentials, len(cookies)+1)
	for _, c := range cookies {
		creds[c.Name] = c.Value
	}
	if sessionToken != "" {
		creds["sessionid"] = sessionToken
	}

	return creds, nil
}
