// internal/config/connections.go
package config

import (
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/nhath/lazydata/internal/db"
)

// Connection is a saved database connection.
type Connection struct {
	Name     string `toml:"name"`
	Type     string `toml:"type"` // postgres, mysql, sqlite
	Host     string `toml:"host"` // file path for sqlite
	Port     int    `toml:"port,omitempty"`
	User     string `toml:"user,omitempty"`
	Database string `toml:"database,omitempty"`
	// Password is kept in memory only; EncryptedPassword is persisted.
	Password          string `toml:"-"`
	EncryptedPassword string `toml:"password,omitempty"`

	SSHHost              string `toml:"ssh_host,omitempty"`
	SSHPort              int    `toml:"ssh_port,omitempty"`
	SSHUser              string `toml:"ssh_user,omitempty"`
	SSHKeyPath           string `toml:"ssh_key_path,omitempty"`
	SSHUseAgent          bool   `toml:"ssh_use_agent,omitempty"`
	SSHPassword          string `toml:"-"`
	EncryptedSSHPassword string `toml:"ssh_password,omitempty"`
}

// Validate checks the fields a driver needs.
func (c *Connection) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("connection name is required")
	}
	t, err := db.ParseDriverType(c.Type)
	if err != nil {
		return err
	}
	if c.Host == "" {
		if t == db.SQLite {
			return fmt.Errorf("connection %s: sqlite file path is required", c.Name)
		}
		return fmt.Errorf("connection %s: host is required", c.Name)
	}
	return nil
}

// DriverType resolves the configured type string.
func (c *Connection) DriverType() (db.DriverType, error) {
	return db.ParseDriverType(c.Type)
}

// Params converts the record into driver connection parameters.
func (c *Connection) Params() db.ConnectParams {
	p := db.ConnectParams{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Database: c.Database,
	}
	if t, _ := c.DriverType(); t == db.SQLite {
		p.Database = c.Host
	}
	if c.SSHHost != "" {
		p.SSHConfig = &db.SSHConfig{
			Host:     c.SSHHost,
			Port:     c.SSHPort,
			User:     c.SSHUser,
			Password: c.SSHPassword,
			KeyPath:  c.SSHKeyPath,
			UseAgent: c.SSHUseAgent,
		}
	}
	return p
}

// Display is the one-line summary used by `connections list`. The password
// is never shown.
func (c *Connection) Display() string {
	t, err := c.DriverType()
	if err != nil {
		return fmt.Sprintf("%s (%s)", c.Name, c.Type)
	}
	if t == db.SQLite {
		return fmt.Sprintf("%s  %s  %s", c.Name, t, c.Host)
	}
	target := c.Host
	if c.Port != 0 {
		target += ":" + strconv.Itoa(c.Port)
	}
	if c.User != "" {
		target = c.User + "@" + target
	}
	if c.Database != "" {
		target += "/" + c.Database
	}
	if c.SSHHost != "" {
		target += " via " + c.SSHHost
	}
	return fmt.Sprintf("%s  %s  %s", c.Name, t, target)
}

func (c *Connection) encrypt(key []byte) error {
	if c.Password != "" {
		enc, err := Encrypt(c.Password, key)
		if err != nil {
			return err
		}
		c.EncryptedPassword = enc
	}
	if c.SSHPassword != "" {
		enc, err := Encrypt(c.SSHPassword, key)
		if err != nil {
			return err
		}
		c.EncryptedSSHPassword = enc
	}
	return nil
}

func (c *Connection) decrypt(key []byte) {
	if c.EncryptedPassword != "" {
		if p, err := Decrypt(c.EncryptedPassword, key); err == nil {
			c.Password = p
		} else {
			log.Printf("config: decrypt password for %s: %v", c.Name, err)
		}
	}
	if c.EncryptedSSHPassword != "" {
		if p, err := Decrypt(c.EncryptedSSHPassword, key); err == nil {
			c.SSHPassword = p
		} else {
			log.Printf("config: decrypt ssh password for %s: %v", c.Name, err)
		}
	}
}

// GetConnection retrieves a connection by name
func (c *Config) GetConnection(name string) (*Connection, error) {
	for i := range c.Connections {
		if c.Connections[i].Name == name {
			return &c.Connections[i], nil
		}
	}
	return nil, fmt.Errorf("connection not found: %s", name)
}

// AddConnection appends conn and saves the file.
func (c *Config) AddConnection(conn Connection) error {
	if err := conn.Validate(); err != nil {
		return err
	}
	for _, existing := range c.Connections {
		if existing.Name == conn.Name {
			return fmt.Errorf("connection already exists: %s", conn.Name)
		}
	}
	c.Connections = append(c.Connections, conn)
	return c.Save()
}

// RemoveConnection deletes a connection and saves the file.
func (c *Config) RemoveConnection(name string) error {
	for i := range c.Connections {
		if c.Connections[i].Name == name {
			c.Connections = append(c.Connections[:i], c.Connections[i+1:]...)
			if c.DefaultConnection == name {
				c.DefaultConnection = ""
			}
			return c.Save()
		}
	}
	return fmt.Errorf("connection not found: %s", name)
}

// ConnectionNames returns all connection names in file order.
func (c *Config) ConnectionNames() []string {
	names := make([]string, len(c.Connections))
	for i, conn := range c.Connections {
		names[i] = conn.Name
	}
	return names
}

// Resolve picks the connection to open: name if given, then the configured
// default, then the only saved connection.
func (c *Config) Resolve(name string) (*Connection, error) {
	switch {
	case name != "":
		return c.GetConnection(name)
	case c.DefaultConnection != "":
		return c.GetConnection(c.DefaultConnection)
	case len(c.Connections) == 1:
		return &c.Connections[0], nil
	case len(c.Connections) == 0:
		return nil, fmt.Errorf("no saved connections; add one with `lazydata connections add`")
	}
	return nil, fmt.Errorf("several connections saved; pick one with --connection (%s)",
		strings.Join(c.ConnectionNames(), ", "))
}

// ParseURL builds a Connection from a postgres://, mysql:// or sqlite://
// URL. Anything without a known scheme is taken as an SQLite file path.
func ParseURL(name, raw string) (Connection, error) {
	conn := Connection{Name: name}

	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"),
		strings.HasPrefix(raw, "mysql://"):
		u, err := url.Parse(raw)
		if err != nil {
			return conn, err
		}
		t, err := db.ParseDriverType(u.Scheme)
		if err != nil {
			return conn, err
		}
		conn.Type = string(t)
		conn.Host = u.Hostname()
		if port := u.Port(); port != "" {
			if conn.Port, err = strconv.Atoi(port); err != nil {
				return conn, fmt.Errorf("invalid port %q", port)
			}
		}
		conn.User = u.User.Username()
		conn.Password, _ = u.User.Password()
		conn.Database = strings.TrimPrefix(u.Path, "/")
	default:
		conn.Type = string(db.SQLite)
		path := strings.TrimPrefix(raw, "sqlite://")
		conn.Host = strings.TrimPrefix(path, "file:")
	}
	return conn, nil
}
