package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// SSHConfig holds SSH jump host details for a connection.
type SSHConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	KeyPath  string
	UseAgent bool
}

// SSHTunnel is an established SSH client that dials the database host.
type SSHTunnel struct {
	client *ssh.Client
}

// expandHome turns a leading "~/" into the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// authMethods builds the auth chain: key file, agent, then password.
func authMethods(config *SSHConfig) []ssh.AuthMethod {
	var methods []ssh.AuthMethod

	if config.KeyPath != "" {
		keyPath := expandHome(config.KeyPath)
		if key, err := os.ReadFile(keyPath); err != nil {
			log.Printf("ssh: read key %s: %v", keyPath, err)
		} else {
			signer, err := ssh.ParsePrivateKey(key)
			var missing *ssh.PassphraseMissingError
			if errors.As(err, &missing) && config.Password != "" {
				signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(config.Password))
			}
			if err != nil {
				log.Printf("ssh: parse key %s: %v", keyPath, err)
			} else {
				methods = append(methods, ssh.PublicKeys(signer))
			}
		}
	}

	if socket := os.Getenv("SSH_AUTH_SOCK"); config.UseAgent && socket != "" {
		if conn, err := net.Dial("unix", socket); err != nil {
			log.Printf("ssh: agent: %v", err)
		} else {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	if config.Password != "" {
		methods = append(methods,
			ssh.Password(config.Password),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = config.Password
				}
				return answers, nil
			}),
		)
	}
	return methods
}

// hostKeyCallback verifies against ~/.ssh/known_hosts when it exists.
func hostKeyCallback() ssh.HostKeyCallback {
	path := expandHome("~/.ssh/known_hosts")
	cb, err := knownhosts.New(path)
	if err != nil {
		log.Printf("ssh: known_hosts unavailable (%v), host key not verified", err)
		return ssh.InsecureIgnoreHostKey()
	}
	return cb
}

// NewSSHTunnel establishes an SSH connection
func NewSSHTunnel(config *SSHConfig) (*SSHTunnel, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("SSH host is required")
	}
	methods := authMethods(config)
	if len(methods) == 0 {
		return nil, fmt.Errorf("no valid SSH authentication methods found")
	}

	port := config.Port
	if port == 0 {
		port = 22
	}
	address := net.JoinHostPort(config.Host, fmt.Sprint(port))
	log.Printf("ssh: dialing %s as %s (%d auth methods)", address, config.User, len(methods))

	client, err := ssh.Dial("tcp", address, &ssh.ClientConfig{
		User:            config.User,
		Auth:            methods,
		HostKeyCallback: hostKeyCallback(),
		Timeout:         15 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dial SSH: %w", err)
	}
	return &SSHTunnel{client: client}, nil
}

// DialContext connects to addr through the tunnel, giving up when ctx ends.
func (t *SSHTunnel) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	type result struct {
		conn net.Conn
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		conn, err := t.client.Dial(network, addr)
		ch <- result{conn, err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if res := <-ch; res.conn != nil {
				res.conn.Close()
			}
		}()
		return nil, ctx.Err()
	case res := <-ch:
		return res.conn, res.err
	}
}

// Close closes the SSH connection
func (t *SSHTunnel) Close() error {
	return t.client.Close()
}
