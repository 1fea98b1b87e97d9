package resolver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/pyproj-tools/pyproj/internal/manifest"
)

// Lock is the serialized form of an install set. Re-resolving an
// unchanged manifest against an unchanged index produces an identical
// lock document.
type Lock struct {
	Metadata LockMetadata  `toml:"metadata"`
	Package  []LockPackage `toml:"package,omitempty"`
}

// LockMetadata records provenance for staleness checks.
type LockMetadata struct {
	PythonVersion string `toml:"python-version,omitempty"`
	ContentHash   string `toml:"content-hash"`
}

// LockPackage is one pinned package.
type LockPackage struct {
	Name       string   `toml:"name"`
	Version    string   `toml:"version"`
	Source     string   `toml:"source,omitempty"`
	RequiredBy []string `toml:"required-by,omitempty"`
}

// NewLock builds a lock document from a resolved install set.
func NewLock(m *manifest.Manifest, set *InstallSet) (*Lock, error) {
	hash, err := ContentHash(m)
	if err != nil {
		return nil, err
	}

	lock := &Lock{
		Metadata: LockMetadata{ContentHash: hash},
	}
	if set.Python != nil {
		lock.Metadata.PythonVersion = set.Python.String()
	}
	for _, sel := range set.Packages {
		lock.Package = append(lock.Package, LockPackage{
			Name:       sel.Name,
			Version:    sel.Version.String(),
			Source:     sel.SourceName,
			RequiredBy: sel.RequiredBy,
		})
	}
	return lock, nil
}

// WriteLock resolves nothing itself; it serializes the lock to path.
func WriteLock(path string, lock *Lock) error {
	data, err := toml.Marshal(lock)
	if err != nil {
		return fmt.Errorf("encoding lock: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing lock %s: %w", path, err)
	}
	return nil
}

// ReadLock parses a lock file.
func ReadLock(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lock %s: %w", path, err)
	}
	var lock Lock
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("parsing lock %s: %w", path, err)
	}
	return &lock, nil
}

// Fresh reports whether the lock was produced from this exact manifest
// content.
func (l *Lock) Fresh(m *manifest.Manifest) (bool, error) {
	hash, err := ContentHash(m)
	if err != nil {
		return false, err
	}
	return l.Metadata.ContentHash == hash, nil
}

// ContentHash returns the hex SHA-256 of the manifest's canonical
// encoding. Canonical encoding makes the hash independent of key order
// and formatting in the source document.
func ContentHash(m *manifest.Manifest) (string, error) {
	data, err := manifest.Encode(m)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
