package platform

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// commandRunner executes a shell command on the monitored host.
type commandRunner interface {
	runCommand(cmd string) (string, error)
}

// sshPlatform implements Platform for remote Linux systems via SSH.
// It executes standard shell commands on the remote system and parses
// the output locally.
type sshPlatform struct {
	config     RemoteConfig
	client     *ssh.Client
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.RWMutex
	cmdTimeout time.Duration
	breaker    *circuitBreaker

	cpu     CPUProvider
	memory  MemoryProvider
	system  SystemProvider
	process ProcessProvider
}

// newSSHPlatform creates a new SSH-based remote platform.
func newSSHPlatform(config RemoteConfig) (*sshPlatform, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("host is required")
	}
	if config.User == "" {
		return nil, fmt.Errorf("user is required")
	}
	if config.AuthMethod == nil {
		return nil, fmt.Errorf("authentication method is required")
	}

	if config.Port == 0 {
		config.Port = 22
	}
	if config.CommandTimeout == 0 {
		config.CommandTimeout = 5 * time.Second
	}

	return &sshPlatform{
		config:     config,
		cmdTimeout: config.CommandTimeout,
		breaker:    newCircuitBreaker(config.FailureThreshold, config.ResetTimeout),
	}, nil
}

func (p *sshPlatform) Name() string {
	return "remote-linux"
}

func (p *sshPlatform) Initialize(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	sshConfig, err := p.buildSSHConfig()
	if err != nil {
		return fmt.Errorf("failed to build SSH config: %w", err)
	}

	addr := net.JoinHostPort(p.config.Host, strconv.Itoa(p.config.Port))
	client, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	p.mu.Lock()
	p.client = client
	p.mu.Unlock()

	if err := p.checkLinux(); err != nil {
		p.Close()
		return err
	}

	size, err := p.runCommand("getconf PAGESIZE")
	if err != nil {
		p.Close()
		return fmt.Errorf("reading remote page size: %w", err)
	}

	p.initProviders(p, parseUint64(size))
	return nil
}

// initProviders wires the remote providers to a command runner.
func (p *sshPlatform) initProviders(runner commandRunner, pageSize uint64) {
	cpu := &remoteCPUProvider{runner: runner}
	p.cpu = cpu
	p.memory = &remoteMemoryProvider{runner: runner, pageSize: pageSize}
	p.system = &remoteSystemProvider{runner: runner}
	p.process = &remoteProcessProvider{runner: runner}
}

func (p *sshPlatform) buildSSHConfig() (*ssh.ClientConfig, error) {
	var authMethods []ssh.AuthMethod

	switch auth := p.config.AuthMethod.(type) {
	case PasswordAuth:
		authMethods = append(authMethods, ssh.Password(auth.Password))
	case KeyAuth:
		key, err := os.ReadFile(auth.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read private key: %w", err)
		}
		var signer ssh.Signer
		if auth.Passphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(auth.Passphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(key)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		authMethods = append(authMethods, ssh.PublicKeys(signer))
	case AgentAuth:
		socket := os.Getenv("SSH_AUTH_SOCK")
		if socket == "" {
			return nil, fmt.Errorf("SSH_AUTH_SOCK not set")
		}
		authMethods = append(authMethods, ssh.PublicKeysCallback(func() ([]ssh.Signer, error) {
			agentConn, err := net.Dial("unix", socket)
			if err != nil {
				return nil, fmt.Errorf("failed to connect to SSH agent: %w", err)
			}
			defer agentConn.Close()

			signers, err := agent.NewClient(agentConn).Signers()
			if err != nil {
				return nil, fmt.Errorf("failed to get signers from SSH agent: %w", err)
			}
			return signers, nil
		}))
	default:
		return nil, fmt.Errorf("unsupported auth method type: %T", auth)
	}

	hostKeyCallback, err := p.hostKeyCallback()
	if err != nil {
		return nil, err
	}

	return &ssh.ClientConfig{
		User:            p.config.User,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         10 * time.Second,
	}, nil
}

// hostKeyCallback verifies server keys against a known_hosts file.
func (p *sshPlatform) hostKeyCallback() (ssh.HostKeyCallback, error) {
	path := p.config.KnownHostsPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locating known_hosts: %w", err)
		}
		path = filepath.Join(home, ".ssh", "known_hosts")
	}
	cb, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("loading known_hosts %s: %w", path, err)
	}
	return cb, nil
}

func (p *sshPlatform) checkLinux() error {
	output, err := p.runCommand("uname -s")
	if err != nil {
		return fmt.Errorf("failed to detect remote OS: %w", err)
	}
	if goos := strings.ToLower(strings.TrimSpace(output)); goos != "linux" {
		return fmt.Errorf("unsupported remote OS: %s", goos)
	}
	return nil
}

// runCommand executes a command on the remote system and returns the output.
// Commands are abandoned after the configured timeout, and fail immediately
// while the circuit breaker is open.
func (p *sshPlatform) runCommand(cmd string) (string, error) {
	var out string
	err := p.breaker.Execute(func() error {
		var err error
		out, err = p.execute(cmd)
		return err
	})
	return out, err
}

func (p *sshPlatform) execute(cmd string) (string, error) {
	p.mu.RLock()
	client := p.client
	p.mu.RUnlock()

	if client == nil {
		return "", fmt.Errorf("SSH client not connected")
	}

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() {
		done <- session.Run(cmd)
	}()

	select {
	case err := <-done:
		if err != nil {
			return "", remoteCommandError(err, stderr.String())
		}
		return stdout.String(), nil
	case <-time.After(p.cmdTimeout):
		_ = session.Signal(ssh.SIGKILL)
		_ = session.Close()
		return "", fmt.Errorf("command timed out after %v", p.cmdTimeout)
	case <-p.ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		_ = session.Close()
		return "", p.ctx.Err()
	}
}

// remoteCommandError maps a failed remote read of a missing file to ErrNotFound.
func remoteCommandError(err error, stderr string) error {
	stderr = strings.TrimSpace(stderr)
	if strings.Contains(stderr, "No such file or directory") {
		return fmt.Errorf("%s: %w", stderr, ErrNotFound)
	}
	return fmt.Errorf("command failed: %w (stderr: %s)", err, stderr)
}

func (p *sshPlatform) Close() error {
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		err := p.client.Close()
		p.client = nil
		return err
	}
	return nil
}

func (p *sshPlatform) CPU() CPUProvider {
	return p.cpu
}

func (p *sshPlatform) Memory() MemoryProvider {
	return p.memory
}

func (p *sshPlatform) System() SystemProvider {
	return p.system
}

func (p *sshPlatform) Process() ProcessProvider {
	return p.process
}

func (p *sshPlatform) Power() PowerSource {
	// Remote servers are not monitored for batteries.
	return nil
}
