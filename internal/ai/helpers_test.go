package ai

import (
	"net/http"
	"net/url"
	"testing"
)

// redirectTransport sends every request to a test server, keeping the path.
type redirectTransport struct {
	serverURL string
}

func (t *redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base, _ := url.Parse(t.serverURL)
	req = req.Clone(req.Context())
	req.URL.Scheme = base.Scheme
	req.URL.Host = base.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newTestClient(serverURL string) *http.Client {
	return &http.Client{Transport: &redirectTransport{serverURL: serverURL}}
}

// isolateKeys points every key source at empty temp dirs.
func isolateKeys(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	for _, env := range envKeys {
		t.Setenv(env, "")
	}
	t.Setenv("LIFEOS_SECRETS_PASSPHRASE", "")
}
