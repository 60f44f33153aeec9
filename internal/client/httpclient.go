package client

import (
	"crypto/tls"
	"log/slog"
	"net/http"
)

// CreateHTTPClient initializes the HTTP client used to talk to the attendance API.
// No timeout is set: requests run until the server answers or the context ends.
// insecureTLS accepts self-signed certificates, as served by a local development API.
func CreateHTTPClient(log *slog.Logger, insecureTLS bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecureTLS {
		log.Warn("TLS certificate verification is disabled for the attendance API")
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for local dev APIs
	}

	return &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, _ []*http.Request) error {
			log.Debug("Redirected to URL", "URL", req.URL)

			return nil
		},
	}
}
