// Package auth runs the Google OAuth2 installed-app flow and caches the
// resulting token, producing authenticated Calendar API clients.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	// ClientSecretsFile is the downloaded Google API credentials.json,
	// expected in the app's config directory.
	ClientSecretsFile = "credentials.json"

	// TokenFile caches the obtained OAuth token (access + refresh token).
	TokenFile = "token.json"

	// LocalhostAuthPort is where the local web server listens to capture
	// the OAuth redirect.
	LocalhostAuthPort = "6789"

	xdgAppName = "daybook"
)

func GetXdgHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

// GetConfig builds an oauth2.Config from the client secrets file. The
// redirect URL is forced onto the localhost port the capture server binds,
// since the two must agree for the flow to complete.
func GetConfig(scopes []string) (*oauth2.Config, error) {
	xdgConfigBase, err := GetXdgHome()
	if err != nil {
		return nil, err
	}

	clientSecretsFile := filepath.Join(xdgConfigBase, ClientSecretsFile)
	b, err := os.ReadFile(clientSecretsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", clientSecretsFile, err)
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}

	parsedURL, parseErr := url.Parse(config.RedirectURL)
	switch {
	case parseErr != nil:
		log.Printf("Warning: could not parse RedirectURL '%s': %v. Using it as is.", config.RedirectURL, parseErr)
	case parsedURL.Hostname() == "localhost" || parsedURL.Hostname() == "127.0.0.1":
		if parsedURL.Port() != LocalhostAuthPort {
			parsedURL.Host = fmt.Sprintf("%s:%s", parsedURL.Hostname(), LocalhostAuthPort)
			config.RedirectURL = parsedURL.String()
		}
	case config.RedirectURL == "urn:ietf:wg:oauth:2.0:oob":
		config.RedirectURL = fmt.Sprintf("http://localhost:%s/oauth2callback", LocalhostAuthPort)
	default:
		log.Printf("Warning: RedirectURL in credentials.json is not a localhost callback: %s", config.RedirectURL)
	}

	return config, nil
}

// GetClient returns an authenticated *http.Client, loading the cached token
// or running the web authorization flow when none exists. Token refreshes
// happen transparently inside the client.
func GetClient(ctx context.Context, scopes []string) (*http.Client, error) {
	config, err := GetConfig(scopes)
	if err != nil {
		return nil, err
	}

	xdgConfigBase, err := GetXdgHome()
	if err != nil {
		return nil, err
	}

	tokenFile := filepath.Join(xdgConfigBase, TokenFile)
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		log.Printf("No existing token found at %s. Initiating web authorization flow...", tokenFile)
		tok, err = getTokenFromWeb(config)
		if err != nil {
			return nil, fmt.Errorf("failed to get token from web: %w", err)
		}
		saveToken(tokenFile, tok)
	}

	client := config.Client(ctx, tok)

	// Re-save the token when the client refreshed it, so the next run
	// starts from the newest refresh token.
	go func() {
		currentTok, err := config.TokenSource(ctx, tok).Token()
		if err != nil {
			log.Printf("Warning: could not get current token from source for re-saving: %v", err)
			return
		}
		if currentTok.AccessToken != tok.AccessToken || currentTok.RefreshToken != tok.RefreshToken {
			saveToken(tokenFile, currentTok)
		}
	}()

	return client, nil
}

// getTokenFromWeb runs the authorization code flow: it serves the redirect
// endpoint on localhost, prints the consent URL, and exchanges the captured
// code for a token.
func getTokenFromWeb(config *oauth2.Config) (*oauth2.Token, error) {
	codeCh := make(chan string)
	errCh := make(chan error)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", LocalhostAuthPort))
	if err != nil {
		return nil, fmt.Errorf("failed to start listener on port %s: %w", LocalhostAuthPort, err)
	}
	defer listener.Close()

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "Authorization code not found", http.StatusBadRequest)
				errCh <- fmt.Errorf("authorization code not found in redirect URL")
				return
			}
			fmt.Fprintf(w, "Authentication successful! You can close this window.")
			codeCh <- code
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// AccessTypeOffline is required to get a refresh token back.
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Printf("Please open the following URL in your browser to authorize daybook:\n%s\n", authURL)
	log.Println("Waiting for authorization code...")

	select {
	case authCode := <-codeCh:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		tok, err := config.Exchange(ctx, authCode)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token from Google: %w", err)
		}
		server.Shutdown(ctx)
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-time.After(5 * time.Minute):
		server.Shutdown(context.Background())
		return nil, fmt.Errorf("authorization timed out. Please try again")
	}
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", file, err)
	}
	return tok, nil
}

func saveToken(path string, token *oauth2.Token) {
	log.Printf("Saving authentication token to: %s", path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		log.Printf("Warning: could not create token directory: %v", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		log.Fatalf("Unable to cache OAuth token to %s: %v", path, err)
	}
	defer f.Close()
	json.NewEncoder(f).Encode(token)
}

// GetCalendarService returns an authenticated Google Calendar service with
// the scopes the sync needs.
func GetCalendarService(ctx context.Context) (*calendar.Service, error) {
	scopes := []string{
		calendar.CalendarEventsScope,
		calendar.CalendarReadonlyScope,
	}

	client, err := GetClient(ctx, scopes)
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated client for Calendar API: %w", err)
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Google Calendar service: %w", err)
	}
	return srv, nil
}
