package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/rogerio-castellano/catalog-manager/internal/client"
)

const (
	emailFlag    = "email"
	passwordFlag = "password"
	nameFlag     = "name"
)

// newAccountFlags is used by login and register; login ignores --name.
func newAccountFlags() flagMap {
	return flagMap{
		nameFlag: &cobraflags.StringFlag{
			Name:  nameFlag,
			Value: "",
			Usage: "Display name (register only)",
		},
		emailFlag: &cobraflags.StringFlag{
			Name:  emailFlag,
			Value: "",
			Usage: "Account email",
		},
		passwordFlag: &cobraflags.StringFlag{
			Name:  passwordFlag,
			Value: "",
			Usage: "Account password",
		},
	}
}

// session is what a client command needs: the controller and where the token lives.
type session struct {
	ctrl      *client.Controller
	api       *client.Client
	tokenFile string
}

func openSession(common flagMap) (*session, error) {
	cfg, v, err := loadConfig(common)
	if err != nil {
		return nil, err
	}

	tokenFile := v.GetString("token_file")
	token, err := readToken(tokenFile)
	if err != nil {
		return nil, err
	}

	apiClient := client.New(cfg.APIURL, client.WithToken(token))
	store := client.NewStore()
	if token != "" {
		store.Dispatch(client.LoggedIn{Token: token})
	}
	return &session{ctrl: client.NewController(apiClient, store), api: apiClient, tokenFile: tokenFile}, nil
}

func readToken(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func writeToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func newLoginCommand(common flagMap) *cobra.Command {
	flags := newAccountFlags()
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the API token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return loginCommand(cmd, common, flags)
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func loginCommand(cmd *cobra.Command, common, flags flagMap) error {
	s, err := openSession(common)
	if err != nil {
		return err
	}

	email := flags[emailFlag].GetString()
	if err := s.ctrl.Login(cmd.Context(), email, flags[passwordFlag].GetString()); err != nil {
		return err
	}
	if err := writeToken(s.tokenFile, s.api.Token()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", email)
	return nil
}

func newRegisterCommand(common flagMap) *cobra.Command {
	flags := newAccountFlags()
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and store the API token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return registerCommand(cmd, common, flags)
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func registerCommand(cmd *cobra.Command, common, flags flagMap) error {
	s, err := openSession(common)
	if err != nil {
		return err
	}

	email := flags[emailFlag].GetString()
	token, err := s.api.Register(cmd.Context(), flags[nameFlag].GetString(), email, flags[passwordFlag].GetString())
	if err != nil {
		return err
	}
	s.ctrl.Store().Dispatch(client.LoggedIn{Email: email, Token: token})
	if err := writeToken(s.tokenFile, token); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", email)
	return nil
}

func newLogoutCommand(common flagMap) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the stored API token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logoutCommand(cmd, common)
		},
	}
}

func logoutCommand(cmd *cobra.Command, common flagMap) error {
	s, err := openSession(common)
	if err != nil {
		return err
	}

	// The local token goes away even if the server refuses it.
	logoutErr := s.ctrl.Logout(cmd.Context())
	if err := os.Remove(s.tokenFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	if logoutErr != nil && !client.IsUnauthenticated(logoutErr) {
		return logoutErr
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}
