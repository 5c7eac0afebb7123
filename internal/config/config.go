package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables holding the five X API credentials. A config file
// passed with --config may define the same keys; the environment wins and
// the file fills the gaps.
const (
	EnvBearerToken    = "X_BEARER_TOKEN"
	EnvConsumerKey    = "X_CONSUMER_KEY"
	EnvConsumerSecret = "X_CONSUMER_SECRET"
	EnvAccessToken    = "X_ACCESS_TOKEN"
	EnvAccessSecret   = "X_ACCESS_SECRET"
)

// credentialKeys fixes the resolution and error-reporting order.
var credentialKeys = []string{
	EnvBearerToken,
	EnvConsumerKey,
	EnvConsumerSecret,
	EnvAccessToken,
	EnvAccessSecret,
}

// Credentials holds the credential set required for authenticated posting.
// It is built once at startup and read-only afterwards.
type Credentials struct {
	BearerToken    string
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

// MissingKeysError reports credential keys that resolved to empty values.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return fmt.Sprintf("missing X credentials: %s", strings.Join(e.Keys, ", "))
}

// Load resolves the credential set from the environment and an optional
// config file (KEY=VALUE lines or a flat JSON object, chosen by the .json
// extension). An empty path means environment only. Load has no side
// effects and never fails on missing keys; callers decide whether a partial
// set is acceptable via Validate. A file that cannot be read or parsed is
// an error, never a silent empty credential set.
func Load(path string) (*Credentials, error) {
	fileValues := map[string]string{}
	if path != "" {
		parsed, err := parseFile(path)
		if err != nil {
			return nil, err
		}
		fileValues = parsed
	}

	// Environment beats file; an empty environment value counts as unset.
	resolve := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fileValues[key]
	}

	return &Credentials{
		BearerToken:    resolve(EnvBearerToken),
		ConsumerKey:    resolve(EnvConsumerKey),
		ConsumerSecret: resolve(EnvConsumerSecret),
		AccessToken:    resolve(EnvAccessToken),
		AccessSecret:   resolve(EnvAccessSecret),
	}, nil
}

// Validate checks that all five credentials are present, returning a
// *MissingKeysError naming every empty key. A live post requires the full
// set; partial sets are valid only under --dry-run.
func (c *Credentials) Validate() error {
	values := map[string]string{
		EnvBearerToken:    c.BearerToken,
		EnvConsumerKey:    c.ConsumerKey,
		EnvConsumerSecret: c.ConsumerSecret,
		EnvAccessToken:    c.AccessToken,
		EnvAccessSecret:   c.AccessSecret,
	}

	var missing []string
	for _, key := range credentialKeys {
		if values[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &MissingKeysError{Keys: missing}
	}
	return nil
}

// parseFile reads credential values from a config file. Files ending in
// .json (case-insensitive) are decoded as a flat JSON object; everything
// else is parsed as KEY=VALUE lines with # comments and blank lines
// skipped. Unknown keys are carried through and ignored by Load.
func parseFile(path string) (map[string]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return parseJSONFile(path)
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return values, nil
}

// parseJSONFile decodes a flat JSON object. Scalar values are stringified;
// nested arrays or objects are rejected as malformed.
func parseJSONFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Numbers decode as json.Number so credential values above 2^53 keep
	// every digit; float64 would round them.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("parse config file %s: trailing data after the JSON object", path)
	}

	values := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			values[key] = v
		case json.Number:
			values[key] = v.String()
		case bool:
			values[key] = strconv.FormatBool(v)
		case nil:
			values[key] = ""
		default:
			return nil, fmt.Errorf("parse config file %s: key %q has a non-scalar value", path, key)
		}
	}
	return values, nil
}
