package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"bandex/internal/model"
)

const (
	// DefaultBaseURL is the plaincall root of the USP DWR servlet.
	DefaultBaseURL = "https://uspdigital.usp.br/rucard/dwr/call/plaincall"

	scriptName      = "CardapioControleDWR"
	methodMenus     = "obterCardapioRestUSP"
	methodName      = "obterRestauranteUsp"
	scriptSessionID = "$$cHGUA$xN69qjKpKBPg$r4l5bn/pM7m5bn-HStgR4BS4"
)

// USPFetcher implements Fetcher against the USP DWR endpoint.
type USPFetcher struct {
	BaseURL string
	Client  *http.Client
	Logger  *zap.SugaredLogger
}

// NewUSPFetcher creates a new fetcher with optional proxy support.
func NewUSPFetcher(baseURL, proxyURL string, logger *zap.SugaredLogger) *USPFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		} else {
			logger.Warnw("ignoring invalid proxy url", "proxy", proxyURL, "error", err)
		}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &USPFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Logger: logger,
	}
}

func (f *USPFetcher) Name() string { return "usp-dwr" }

func (f *USPFetcher) FetchMenus(ctx context.Context, id model.RestaurantID) (string, error) {
	return f.call(ctx, methodMenus, id)
}

func (f *USPFetcher) FetchRestaurantName(ctx context.Context, id model.RestaurantID) (string, error) {
	return f.call(ctx, methodName, id)
}

// callForm builds the form of a single DWR plaincall.
func callForm(method string, id model.RestaurantID) url.Values {
	form := url.Values{}
	form.Set("page", "")
	form.Set("windowName", "")
	form.Set("c0-id", "a")
	form.Set("batchId", "0")
	form.Set("callCount", "1")
	form.Set("instanceId", "0")
	form.Set("c0-param0", "string:"+strconv.Itoa(int(id)))
	form.Set("c0-scriptName", scriptName)
	form.Set("c0-methodName", method)
	form.Set("scriptSessionId", scriptSessionID)
	return form
}

func (f *USPFetcher) call(ctx context.Context, method string, id model.RestaurantID) (string, error) {
	endpoint := fmt.Sprintf("%s/%s.%s.dwr", f.BaseURL, scriptName, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(callForm(method, id).Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: read body: %w", method, err)
	}
	// The servlet reports failures inside the script body; the status is only logged.
	if resp.StatusCode != http.StatusOK {
		f.Logger.Warnw("unexpected dwr status", "method", method, "restaurant", id, "status", resp.StatusCode)
	}
	f.Logger.Debugw("dwr call", "method", method, "restaurant", id, "bytes", len(body))
	return string(body), nil
}
