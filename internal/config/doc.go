// Package config manages the user-level CLI configuration stored in
// ~/.pyproj/config.yaml, with environment overrides under the PYPROJ_
// prefix. The manifest itself is never written here; this covers only
// tool preferences such as index source locations.
package config
