package platform

import (
	"fmt"
	"runtime"
	"time"
)

// Provider names accepted by NewPlatformByName.
const (
	ProviderAuto     = "auto"
	ProviderLinux    = "linux"
	ProviderPortable = "portable"
	ProviderRemote   = "remote"
)

// Options selects and configures a Platform implementation.
type Options struct {
	// Provider is one of the Provider* names. Empty means ProviderAuto.
	Provider string

	// ProcRoot and SysRoot relocate procfs and sysfs for the linux provider.
	ProcRoot string
	SysRoot  string

	// Remote configures the remote provider.
	Remote RemoteConfig
}

// NewPlatform creates the appropriate Platform implementation for the current OS.
func NewPlatform() (Platform, error) {
	return NewPlatformForOS(runtime.GOOS)
}

// NewPlatformForOS creates a Platform implementation for the specified OS.
// Linux reads procfs directly; every other OS except Windows uses gopsutil.
func NewPlatformForOS(goos string) (Platform, error) {
	switch goos {
	case "linux", "android":
		return NewLinuxPlatform(), nil
	case "windows", "plan9", "js", "wasip1":
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	default:
		return NewPortablePlatform(), nil
	}
}

// NewPlatformByName creates the Platform named by opts.Provider.
func NewPlatformByName(opts Options) (Platform, error) {
	switch opts.Provider {
	case "", ProviderAuto:
		if runtime.GOOS == "linux" && (opts.ProcRoot != "" || opts.SysRoot != "") {
			return NewLinuxPlatformWithRoots(opts.ProcRoot, opts.SysRoot), nil
		}
		return NewPlatform()
	case ProviderLinux:
		return NewLinuxPlatformWithRoots(opts.ProcRoot, opts.SysRoot), nil
	case ProviderPortable:
		return NewPortablePlatform(), nil
	case ProviderRemote:
		return NewRemotePlatform(opts.Remote)
	default:
		return nil, fmt.Errorf("unknown provider %q", opts.Provider)
	}
}

// NewRemotePlatform creates a Platform that collects data from a remote Linux
// system via SSH. Nothing needs to be installed on the remote system; data is
// collected by reading procfs with standard shell commands and parsed locally.
func NewRemotePlatform(config RemoteConfig) (Platform, error) {
	p, err := newSSHPlatform(config)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// RemoteConfig specifies connection parameters for remote monitoring.
type RemoteConfig struct {
	// Host is the hostname or IP address of the remote system.
	Host string

	// Port is the SSH port (default: 22).
	Port int

	// User is the SSH username.
	User string

	// AuthMethod specifies how to authenticate.
	AuthMethod AuthMethod

	// KnownHostsPath is the known_hosts file used to verify the server key.
	// Empty means ~/.ssh/known_hosts.
	KnownHostsPath string

	// CommandTimeout is the timeout for individual commands (default: 5s).
	CommandTimeout time.Duration

	// FailureThreshold is the number of consecutive command failures after
	// which commands fail fast until ResetTimeout elapses (default: 3).
	FailureThreshold int

	// ResetTimeout is how long commands fail fast once the threshold is hit (default: 30s).
	ResetTimeout time.Duration
}

// AuthMethod defines SSH authentication methods.
type AuthMethod interface {
	isAuthMethod()
}

// PasswordAuth authenticates using a password.
type PasswordAuth struct {
	Password string
}

func (PasswordAuth) isAuthMethod() {}

// KeyAuth authenticates using an SSH private key.
type KeyAuth struct {
	PrivateKeyPath string
	Passphrase     string // optional, for encrypted keys
}

func (KeyAuth) isAuthMethod() {}

// AgentAuth authenticates using the SSH agent.
type AgentAuth struct{}

func (AgentAuth) isAuthMethod() {}
