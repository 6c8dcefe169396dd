package analyze

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"

	"site-cloner/pkg/utils"
)

// robotsGate checks a site's robots.txt before analysis. Fetch or parse
// failures are treated as permission: the gate only blocks on an explicit
// disallow rule.
type robotsGate struct {
	client    *http.Client
	userAgent string
	log       *logrus.Entry
}

func newRobotsGate(userAgent string, logger *logrus.Entry) *robotsGate {
	return &robotsGate{
		client:    &http.Client{Timeout: 10 * time.Second},
		userAgent: userAgent,
		log:       logger.WithField("component", "robots"),
	}
}

// check returns ErrRobotsDisallowed if robots.txt forbids fetching the URL.
func (g *robotsGate) check(ctx context.Context, target *url.URL) error {
	robotsURL := target.Scheme + "://" + target.Host + "/robots.txt"
	log := g.log.WithField("url", target.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		log.WithError(err).Debug("Could not build robots.txt request, allowing")
		return nil
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		log.WithError(err).Debug("robots.txt fetch failed, allowing")
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		log.WithError(err).Debug("robots.txt parse failed, allowing")
		return nil
	}

	path := target.Path
	if path == "" {
		path = "/"
	}
	if !data.FindGroup(g.userAgent).Test(path) {
		return fmt.Errorf("%w: %s", utils.ErrRobotsDisallowed, target.String())
	}
	return nil
}
