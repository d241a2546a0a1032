package powerbi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"fabmon/internal/config"
	"fabmon/params"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenProvider exchanges a tenant's client credentials for a bearer
// token. There is no caching: a run's extraction fits well inside one
// token lifetime, so tokens are acquired in-band per run.
type TokenProvider struct {
	loginBaseURL string
	httpClient   *http.Client
}

func NewTokenProvider(loginBaseURL string) *TokenProvider {
	if loginBaseURL == "" {
		loginBaseURL = params.LoginBaseURL
	}
	return &TokenProvider{
		loginBaseURL: loginBaseURL,
		httpClient:   &http.Client{Timeout: params.TokenRequestTimeout},
	}
}

// GetToken performs the client-credentials grant against the tenant's
// directory. A non-2xx response surfaces as *AuthError carrying the
// upstream status and body verbatim.
func (p *TokenProvider) GetToken(ctx context.Context, tenant config.TenantConfig, scope string) (string, error) {
	conf := &clientcredentials.Config{
		ClientID:     tenant.ClientID,
		ClientSecret: tenant.ClientSecret,
		TokenURL:     fmt.Sprintf("%s/%s/oauth2/v2.0/token", p.loginBaseURL, tenant.DirectoryID),
		Scopes:       []string{scope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := conf.Token(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return "", &AuthError{
				TenantID: tenant.ID,
				Status:   retrieveErr.Response.StatusCode,
				Body:     string(retrieveErr.Body),
				Err:      err,
			}
		}
		return "", &AuthError{TenantID: tenant.ID, Err: err}
	}
	return token.AccessToken, nil
}
