package gitstore

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/billxc/git-file-vault/pkg/logging"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// CredentialSource is one step of an authentication policy: a predicate
// deciding whether it can serve an endpoint and a resolver producing the
// credentials. Resolve returns an error when the source is unavailable
// (no agent running, no key file, nothing stored).
type CredentialSource struct {
	Name    string
	Applies func(ep *transport.Endpoint) bool
	Resolve func(ep *transport.Endpoint) (transport.AuthMethod, error)
}

// AuthPolicy is an ordered list of credential sources.
type AuthPolicy []CredentialSource

// DefaultAuthPolicy tries the git credential store, then the SSH agent, then
// the default private key under home.
func DefaultAuthPolicy(home string) AuthPolicy {
	return AuthPolicy{
		CredentialHelperSource(),
		SSHAgentSource(),
		KeyFileSource(
			filepath.Join(home, ".ssh", "id_ed25519"),
			filepath.Join(home, ".ssh", "id_rsa"),
		),
	}
}

// CredentialHelperSource asks `git credential fill` for a username and
// password. It only serves http(s) endpoints.
func CredentialHelperSource() CredentialSource {
	return CredentialSource{
		Name:    "credential-helper",
		Applies: isHTTP,
		Resolve: func(ep *transport.Endpoint) (transport.AuthMethod, error) {
			user, pass, err := credentialFill(ep)
			if err != nil {
				return nil, err
			}
			return &githttp.BasicAuth{Username: user, Password: pass}, nil
		},
	}
}

// SSHAgentSource authenticates through the running SSH agent.
func SSHAgentSource() CredentialSource {
	return CredentialSource{
		Name:    "ssh-agent",
		Applies: isSSH,
		Resolve: func(ep *transport.Endpoint) (transport.AuthMethod, error) {
			if os.Getenv("SSH_AUTH_SOCK") == "" {
				return nil, fmt.Errorf("SSH_AUTH_SOCK is not set")
			}
			return gitssh.NewSSHAgentAuth(sshUser(ep))
		},
	}
}

// KeyFileSource loads the first existing unencrypted private key of keyPaths.
func KeyFileSource(keyPaths ...string) CredentialSource {
	return CredentialSource{
		Name:    "key-file",
		Applies: isSSH,
		Resolve: func(ep *transport.Endpoint) (transport.AuthMethod, error) {
			for _, path := range keyPaths {
				if _, err := os.Stat(path); err != nil {
					continue
				}
				return gitssh.NewPublicKeysFromFile(sshUser(ep), path, "")
			}
			return nil, fmt.Errorf("no private key found in %s", strings.Join(keyPaths, ", "))
		},
	}
}

// run performs op against url. Non-SSH endpoints are first tried without
// credentials; when the transport asks for authentication every applicable
// source is tried once, in order.
func (p AuthPolicy) run(url string, op func(auth transport.AuthMethod) error) error {
	logger := logging.GetLogger("gitstore.auth")

	ep, epErr := transport.NewEndpoint(url)
	if epErr != nil {
		return errors.Wrapf(epErr, errors.ErrInvalidInput, "invalid remote url %s", url)
	}

	var lastErr error
	if !isSSH(ep) {
		lastErr = op(nil)
		if lastErr == nil || !isAuthError(lastErr) {
			return lastErr
		}
	}

	var tried []string
	for _, src := range p {
		if src.Applies != nil && !src.Applies(ep) {
			continue
		}
		auth, err := src.Resolve(ep)
		if err != nil {
			logger.Debug().Err(err).Str("source", src.Name).Msg("Credential source unavailable")
			continue
		}

		tried = append(tried, src.Name)
		lastErr = op(auth)
		if lastErr == nil {
			logger.Debug().Str("source", src.Name).Str("url", url).Msg("Authenticated")
			return nil
		}
		if !isAuthError(lastErr) {
			return lastErr
		}
		logger.Debug().Err(lastErr).Str("source", src.Name).Msg("Authentication rejected")
	}

	e := errors.Newf(errors.ErrAuthFailed, "authentication failed for %s", url).
		WithDetail("tried", tried).
		WithRemediation("configure a git credential helper, load a key into ssh-agent, or create ~/.ssh/id_ed25519")
	if lastErr != nil {
		e = e.WithCause(lastErr)
	}
	return e
}

func isAuthError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, transport.ErrAuthenticationRequired) || errors.Is(err, transport.ErrAuthorizationFailed) {
		return true
	}
	msg := err.Error()
	for _, marker := range []string{"unable to authenticate", "handshake failed", "no supported methods remain"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func isHTTP(ep *transport.Endpoint) bool {
	return ep.Protocol == "http" || ep.Protocol == "https"
}

func isSSH(ep *transport.Endpoint) bool {
	return ep.Protocol == "ssh"
}

func sshUser(ep *transport.Endpoint) string {
	if ep.User != "" {
		return ep.User
	}
	return "git"
}

// credentialFill runs the git credential protocol. Interactive prompting is
// disabled so a missing entry fails instead of blocking.
func credentialFill(ep *transport.Endpoint) (string, string, error) {
	var in bytes.Buffer
	fmt.Fprintf(&in, "protocol=%s\nhost=%s\n", ep.Protocol, hostWithPort(ep))
	if path := strings.TrimPrefix(ep.Path, "/"); path != "" {
		fmt.Fprintf(&in, "path=%s\n", path)
	}
	in.WriteString("\n")

	cmd := exec.CommandContext(context.Background(), "git", "credential", "fill")
	cmd.Stdin = &in
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "GCM_INTERACTIVE=never")
	out, err := cmd.Output()
	if err != nil {
		return "", "", fmt.Errorf("git credential fill: %w", err)
	}

	user, pass := parseCredentialOutput(out)
	if user == "" || pass == "" {
		return "", "", fmt.Errorf("no stored credential for %s", ep.Host)
	}
	return user, pass, nil
}

func parseCredentialOutput(out []byte) (user, pass string) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		switch key {
		case "username":
			user = value
		case "password":
			pass = value
		}
	}
	return user, pass
}

func hostWithPort(ep *transport.Endpoint) string {
	if ep.Port == 0 || (ep.Protocol == "https" && ep.Port == 443) || (ep.Protocol == "http" && ep.Port == 80) {
		return ep.Host
	}
	return fmt.Sprintf("%s:%d", ep.Host, ep.Port)
}
