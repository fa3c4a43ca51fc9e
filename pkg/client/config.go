package client

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aerolink/fsdpilot/pkg/fsd"
)

// TOMLConfig represents the structure of the client config file.
type TOMLConfig struct {
	Connection ConnectionSection `toml:"connection"`
	Identity   IdentitySection   `toml:"identity"`
	Client     ClientSection     `toml:"client"`
	Local      LocalSection      `toml:"local"`
	Metrics    MetricsSection    `toml:"metrics"`
}

type ConnectionSection struct {
	Server               string `toml:"server"`
	Port                 int    `toml:"port"`
	ProtocolRevision     int    `toml:"protocol_revision"`
	ServerTimeoutSeconds int    `toml:"server_timeout_seconds"`
	AutoReconnect        bool   `toml:"auto_reconnect"`
}

type IdentitySection struct {
	Callsign string `toml:"callsign"`
	RealName string `toml:"real_name"`
	CID      string `toml:"cid"`
	Password string `toml:"password"`
	Rating   int    `toml:"rating"`
	SimType  string `toml:"sim_type"`
	IsATC    bool   `toml:"is_atc"`
}

type ClientSection struct {
	ID           string `toml:"id"`  // hex client id
	Key          string `toml:"key"` // obfuscated auth key
	Name         string `toml:"name"`
	VersionMajor int    `toml:"version_major"`
	VersionMinor int    `toml:"version_minor"`
	SystemUID    string `toml:"system_uid"` // machine identifier, derived if empty
}

type LocalSection struct {
	StateDB      string `toml:"state_db"`
	LastCallsign string `toml:"last_callsign"`
}

type MetricsSection struct {
	Enabled    bool   `toml:"enabled"`
	ListenAddr string `toml:"listen_addr"`
}

// ConfigError represents a structured configuration error.
type ConfigError struct {
	Path       string
	Message    string
	LineNumber int // 0 if not a parse error
}

func (e *ConfigError) Error() string {
	if e.LineNumber > 0 {
		return fmt.Sprintf("%s (line %d)", e.Message, e.LineNumber)
	}
	return e.Message
}

// getXDGDataHome returns the XDG data directory.
func getXDGDataHome() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return xdg
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// DefaultTOMLConfig returns the default configuration.
func DefaultTOMLConfig() TOMLConfig {
	dataHome := getXDGDataHome()
	stateDB := filepath.Join(dataHome, "fsdpilot", "state.db")

	return TOMLConfig{
		Connection: ConnectionSection{
			Server:               "",
			Port:                 6809,
			ProtocolRevision:     ProtocolRevisionAuth,
			ServerTimeoutSeconds: int(DefaultServerTimeout.Seconds()),
			AutoReconnect:        false,
		},
		Identity: IdentitySection{
			Rating:  int(fsd.PilotRatingStudent),
			SimType: "xplane11",
		},
		Client: ClientSection{
			Name:         "fsdpilot",
			VersionMajor: 1,
			VersionMinor: 0,
		},
		Local: LocalSection{
			StateDB: stateDB,
		},
		Metrics: MetricsSection{
			Enabled:    false,
			ListenAddr: "127.0.0.1:9109",
		},
	}
}

// LoadClientConfig loads configuration from a TOML file, creating a default
// file if none exists.
func LoadClientConfig(path string) (TOMLConfig, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return TOMLConfig{}, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		config := DefaultTOMLConfig()
		// If we can't write, just return defaults without error.
		_ = writeDefaultConfig(path, config)
		return config, nil
	}

	var config TOMLConfig
	if _, err := toml.DecodeFile(path, &config); err != nil {
		lineNum := extractLineNumber(err.Error())
		return TOMLConfig{}, &ConfigError{
			Path:       path,
			Message:    cleanErrorMessage(err.Error()),
			LineNumber: lineNum,
		}
	}

	if err := validateConfig(&config); err != nil {
		return TOMLConfig{}, &ConfigError{
			Path:    path,
			Message: err.Error(),
		}
	}

	return config, nil
}

// extractLineNumber tries to extract a line number from a TOML parse error.
func extractLineNumber(errMsg string) int {
	re := regexp.MustCompile(`line (\d+)`)
	matches := re.FindStringSubmatch(errMsg)
	if len(matches) > 1 {
		if num, err := strconv.Atoi(matches[1]); err == nil {
			return num
		}
	}
	return 0
}

// cleanErrorMessage removes redundant parts from error messages.
func cleanErrorMessage(errMsg string) string {
	return strings.TrimPrefix(errMsg, "toml: ")
}

var simTypeNames = map[string]fsd.SimType{
	"msfs":       fsd.SimTypeMSFS,
	"msfs2024":   fsd.SimTypeMSFS2024,
	"fsx":        fsd.SimTypeMSFSX,
	"fs2004":     fsd.SimTypeMSFS2004,
	"xplane10":   fsd.SimTypeXPlane10,
	"xplane11":   fsd.SimTypeXPlane11,
	"xplane12":   fsd.SimTypeXPlane12,
	"p3d":        fsd.SimTypeP3Dv4,
	"p3dv5":      fsd.SimTypeP3Dv5,
	"flightgear": fsd.SimTypeFlightGear,
}

// validateConfig validates configuration values.
func validateConfig(config *TOMLConfig) error {
	var errs []string

	if config.Connection.Port < 1 || config.Connection.Port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port number: %d (must be 1-65535)", config.Connection.Port))
	}

	switch config.Connection.ProtocolRevision {
	case 0, ProtocolRevisionClassic, ProtocolRevisionAtc, ProtocolRevisionAuth, ProtocolRevisionVelocity:
	default:
		errs = append(errs, fmt.Sprintf("unsupported protocol revision: %d", config.Connection.ProtocolRevision))
	}

	if config.Connection.ServerTimeoutSeconds < 0 {
		errs = append(errs, "server timeout cannot be negative")
	}

	if config.Identity.SimType != "" {
		if _, ok := simTypeNames[strings.ToLower(config.Identity.SimType)]; !ok {
			errs = append(errs, fmt.Sprintf("unknown sim type: %q", config.Identity.SimType))
		}
	}

	if config.Client.ID != "" {
		if _, err := strconv.ParseUint(config.Client.ID, 16, 16); err != nil {
			errs = append(errs, fmt.Sprintf("client id must be 16-bit hex: %q", config.Client.ID))
		}
	}

	if strings.TrimSpace(config.Local.StateDB) == "" {
		errs = append(errs, "state database path cannot be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  • %s", strings.Join(errs, "\n  • "))
	}

	return nil
}

// writeDefaultConfig writes the default config to a file.
func writeDefaultConfig(path string, config TOMLConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	header := `# fsdpilot client configuration
# This file was auto-generated with default values
# Edit as needed - changes take effect on next start

`
	if _, err := f.WriteString(header); err != nil {
		return err
	}

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetStateDBPath returns the state database path with ~ expanded.
func (c *TOMLConfig) GetStateDBPath() (string, error) {
	path := c.Local.StateDB
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}
	return path, nil
}

// GetServerAddress returns the full server address (host:port), passing
// scheme-qualified addresses through untouched.
func (c *TOMLConfig) GetServerAddress() string {
	server := strings.TrimSpace(c.Connection.Server)
	if server == "" {
		return ""
	}

	if strings.Contains(server, "://") {
		return server
	}

	port := c.Connection.Port
	if port <= 0 {
		return server
	}

	return fmt.Sprintf("%s:%d", server, port)
}

// BuildIdentity builds a session identity from the configuration.
func (c *TOMLConfig) BuildIdentity() Identity {
	clientID, _ := strconv.ParseUint(c.Client.ID, 16, 16)

	revision := c.Connection.ProtocolRevision
	if revision == 0 {
		revision = ProtocolRevisionAuth
	}

	systemUID := c.Client.SystemUID
	if systemUID == "" {
		systemUID = defaultSystemUID()
	}

	identity := Identity{
		Callsign:         strings.ToUpper(strings.TrimSpace(c.Identity.Callsign)),
		RealName:         c.Identity.RealName,
		CID:              c.Identity.CID,
		Password:         c.Identity.Password,
		IsATC:            c.Identity.IsATC,
		SimType:          simTypeNames[strings.ToLower(c.Identity.SimType)],
		ProtocolRevision: revision,
		ClientID:         uint16(clientID),
		ClientKey:        c.Client.Key,
		ClientName:       c.Client.Name,
		VersionMajor:     c.Client.VersionMajor,
		VersionMinor:     c.Client.VersionMinor,
		SystemUID:        systemUID,
		Com1FrequencyKHz: defaultCom1KHz,
		Capabilities: []fsd.Capability{
			fsd.CapabilityAtcInfo,
			fsd.CapabilityModelDesc,
			fsd.CapabilityInterimPos,
			fsd.CapabilityVisualPos,
			fsd.CapabilityAircraftConfig,
		},
	}
	if c.Identity.IsATC {
		identity.AtcRating = fsd.AtcRating(c.Identity.Rating)
	} else {
		identity.PilotRating = fsd.PilotRating(c.Identity.Rating)
	}
	return identity
}

// defaultCom1KHz is the unicom frequency, reported until the simulator sets
// a real one.
const defaultCom1KHz = 122800

// defaultSystemUID derives a stable machine identifier from the hostname,
// matching the signed decimal form servers expect in the system UID token.
func defaultSystemUID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "0"
	}
	h := fnv.New32a()
	h.Write([]byte(host))
	return strconv.FormatInt(int64(int32(h.Sum32())), 10)
}
