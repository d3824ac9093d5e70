package helpers

import (
	"fmt"
	"net/url"
	"strings"
)

var allowedVideoHosts = []string{"youtube.com", "www.youtube.com", "youtu.be"}

// ValidateVideoLink accepts only YouTube links. Short links (youtu.be) must
// carry a video id in the path.
func ValidateVideoLink(link string) error {
	if link == "" {
		return nil
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("invalid video link")
	}

	host := parsed.Host
	allowed := false
	for _, allowedHost := range allowedVideoHosts {
		if host == allowedHost {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("only YouTube links are allowed")
	}

	if host == "youtu.be" && strings.Trim(parsed.Path, "/") == "" {
		return fmt.Errorf("invalid YouTube short link")
	}

	return nil
}
