package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/249ali/shelf/internal/models"
	"github.com/249ali/shelf/internal/server"
	"github.com/249ali/shelf/internal/shared"
	"github.com/urfave/cli/v3"
)

// authCommand handles authentication against the identity provider
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with email and password, or through the browser",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Account email",
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password",
					},
					&cli.BoolFlag{
						Name:  "browser",
						Usage: "Sign in through the browser instead",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "signup",
				Usage: "Register a new account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name",
					},
				},
				Action: r.AuthSignup,
			},
			{
				Name:   "logout",
				Usage:  "Revoke the current session and clear stored credentials",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the signed-in user and session expiry",
				Action: r.AuthStatus,
			},
			{
				Name:  "import",
				Usage: "Import a session token from a browser request (Copy as cURL)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
				},
				Action: r.AuthImport,
			},
		},
	}
}

// AuthLogin signs in with the password grant or, with --browser, the authorization code flow.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.identity == nil {
		return fmt.Errorf("%w: identity provider not configured, set identity.url and identity.api_key in config.toml", shared.ErrMissingConfig)
	}

	if cmd.Bool("browser") {
		session, err := r.doBrowserAuth(ctx)
		if err != nil {
			return err
		}
		if err := r.auth.Adopt(session); err != nil {
			return err
		}
		r.applyToken(session.AccessToken)

		r.writePlainln("✓ Signed in as %s", session.User.Email)
		return nil
	}

	email := cmd.String("email")
	password := cmd.String("password")
	if email == "" || password == "" {
		return fmt.Errorf("%w: --email and --password are required (or use --browser)", shared.ErrMissingCredentials)
	}

	r.logger.Info("signing in", "email", email)

	session, err := r.auth.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			return fmt.Errorf("%w: check email and password", shared.ErrInvalidCredentials)
		}
		return err
	}

	r.applyToken(session.AccessToken)

	r.writePlain("✓ Signed in as %s\n", session.User.Email)
	if session.ExpiresIn > 0 {
		r.writePlain("Session expires in %s\n", (time.Duration(session.ExpiresIn) * time.Second).String())
	}
	return nil
}

// AuthSignup registers a new account with the identity provider.
func (r *Runner) AuthSignup(ctx context.Context, cmd *cli.Command) error {
	if r.identity == nil {
		return fmt.Errorf("%w: identity provider not configured, set identity.url and identity.api_key in config.toml", shared.ErrMissingConfig)
	}

	email := cmd.String("email")
	password := cmd.String("password")
	name := cmd.String("name")

	r.logger.Info("registering account", "email", email)

	session, err := r.auth.SignUp(ctx, email, password, name)
	if err != nil {
		return err
	}

	r.applyToken(session.AccessToken)

	r.writePlain("✓ Account created for %s\n", session.User.Email)
	return nil
}

// AuthLogout revokes the session and clears stored credentials.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("signing out")

	err := r.auth.Logout(ctx)
	r.applyToken("")

	if err != nil {
		r.logger.Warn("session revocation failed, local state cleared anyway", "error", err)
	}

	return r.writePlain("✓ Signed out\n")
}

// AuthStatus shows the signed-in user, resolving the profile against the provider.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	session := r.auth.Current()
	if session == nil {
		r.writePlain("✗ Not signed in\n")
		r.writePlain("Run 'shelf auth login' to sign in\n")
		return nil
	}

	r.writePlain("✓ Signed in\n")
	r.writePlain("Email: %s\n", session.User.Email)
	if session.User.Name != "" {
		r.writePlain("Name: %s\n", session.User.Name)
	}
	if !session.ExpiresAt.IsZero() {
		r.writePlain("Expires: %s\n", session.ExpiresAt.Format(time.RFC3339))
	}

	if r.identity == nil {
		return nil
	}

	user, err := r.auth.Whoami(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) || errors.Is(err, shared.ErrSessionExpired) {
			r.writePlain("Provider check: ✗ token rejected, sign in again\n")
			return nil
		}
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlain("Provider check: ✓ token valid (user %s)\n", user.ID)
	return nil
}

// AuthImport lifts a bearer token out of a cURL command copied from the browser.
//
// Useful when the account was created in the web app and only the browser holds
// a live session.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	r.logger.Info("parsing cURL command for session token")

	var curlHeaders *shared.CurlHeaders
	var err error

	if curlFile != "" {
		curlHeaders, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		curlHeaders, err = shared.ParseCurlCommand([]byte(curlCmd))
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	token, err := curlHeaders.BearerToken()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	session := &models.Session{AccessToken: token, TokenType: "bearer"}

	// Resolve the user so the stored session has a profile attached.
	if r.identity != nil {
		user, err := r.identity.GetUser(ctx, token)
		if err != nil {
			return fmt.Errorf("%w: imported token rejected by provider: %v", shared.ErrInvalidCredentials, err)
		}
		session.User = *user
	}

	if err := r.auth.Adopt(session); err != nil {
		return err
	}
	r.applyToken(token)

	r.writePlain("✓ Session imported\n")
	if session.User.Email != "" {
		r.writePlain("Signed in as %s\n", session.User.Email)
	}
	return nil
}

// doBrowserAuth executes the authorization code flow with a local HTTP server.
func (r *Runner) doBrowserAuth(ctx context.Context) (*models.Session, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := r.identity.GetAuthURL(state)
	authHandler := server.NewAuthHandler(r.identity.Exchange, state)
	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(r.logger))
	router.Handler(authHandler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)

	// Serve shuts the loopback server down gracefully once the flow settles.
	srvCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting callback server at %v", serverAddr)
		if err := server.Serve(srvCtx, serverAddr, router); err != nil {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for sign-in...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.AuthResult

	select {
	case result = <-authHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	stopServer()

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Session == nil {
		return nil, fmt.Errorf("no session received")
	}

	return result.Session, nil
}
