package apiclient

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"todo/internal/auth"
	"todo/internal/storage"
)

// authTransport attaches the stored bearer credential to requests for the
// API host. A missing credential is not an error: login and register are
// sent bare. Requests to any other host, such as redirect targets, never
// carry the credential.
type authTransport struct {
	base   http.RoundTripper
	store  storage.Store
	host   string
	logger *zap.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !strings.EqualFold(req.URL.Host, t.host) {
		t.logger.Debug("not sending credential to foreign host", zap.String("host", req.URL.Host))
		return t.base.RoundTrip(req)
	}

	r := req.Clone(req.Context())

	tok, err := auth.LoadToken(req.Context(), t.store)
	switch {
	case err == nil:
		tok.SetAuthHeader(r)
	case errors.Is(err, auth.ErrNoCredential):
	default:
		t.logger.Warn("could not read credential; sending without it", zap.Error(err))
	}

	return t.base.RoundTrip(r)
}
