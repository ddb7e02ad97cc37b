package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// FlexString accepts both JSON strings and numbers. Registration exports
// write grade as either.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = FlexString(n.String())
	return nil
}

// Registration is one row of the external registration list.
type Registration struct {
	DiscordUsername string     `json:"discord_username"`
	School          string     `json:"school"`
	Grade           FlexString `json:"grade"`
	FullName        string     `json:"full_name"`
	SHSMSector      string     `json:"shsm_sector"`
}

// RegistrationDirectory is built once at startup and never mutated,
// so it is safe to share between request goroutines.
type RegistrationDirectory struct {
	entries map[string]Registration
}

// NormalizeUsername is the directory key for a Discord username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func NewRegistrationDirectory(registrations []Registration) *RegistrationDirectory {
	entries := make(map[string]Registration, len(registrations))
	for _, r := range registrations {
		key := NormalizeUsername(r.DiscordUsername)
		if key == "" {
			continue
		}
		entries[key] = r
	}
	return &RegistrationDirectory{entries: entries}
}

// LoadRegistrationDirectory reads the registrations JSON array at path.
func LoadRegistrationDirectory(path string) (*RegistrationDirectory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registrations %s: %w", path, err)
	}

	var registrations []Registration
	if err := json.Unmarshal(raw, &registrations); err != nil {
		return nil, fmt.Errorf("failed to parse registrations %s: %w", path, err)
	}

	return NewRegistrationDirectory(registrations), nil
}

func (d *RegistrationDirectory) Lookup(username string) (Registration, bool) {
	if d == nil {
		return Registration{}, false
	}
	r, ok := d.entries[NormalizeUsername(username)]
	return r, ok
}

func (d *RegistrationDirectory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}
