package buffdef

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// MaxFileSize is the maximum allowed size for a definition file.
	MaxFileSize = 1 * 1024 * 1024

	// MaxBuffCount is the maximum number of buff definitions per file.
	MaxBuffCount = 1000

	// MaxStackCap bounds a definition's max_stacks. The game itself caps
	// stack intensity well below this.
	MaxStackCap = 1500

	// SupportedVersion is the currently supported file format version.
	SupportedVersion = 1
)

// sanitizePathError strips the path from os.PathError so error messages do
// not leak file system paths.
func sanitizePathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%s: %w", pathErr.Op, pathErr.Err)
	}
	return err
}

// Load reads and parses a tracked-buff definition file. Non-regular files
// and files over MaxFileSize are rejected.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open buff definition file: %w", sanitizePathError(err))
	}
	defer f.Close()

	// Stat the descriptor, not the path, and reject non-regular files so
	// a FIFO or device node cannot wedge the read.
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat buff definition file: %w", sanitizePathError(err))
	}
	if !info.Mode().IsRegular() {
		return nil, errors.New("buff definition file must be a regular file")
	}
	if info.Size() == 0 {
		return nil, errors.New("buff definition file is empty")
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("buff definition file too large: %d bytes (max %d)", info.Size(), MaxFileSize)
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read buff definition file: %w", sanitizePathError(err))
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("buff definition file too large: %d bytes (max %d)", len(data), MaxFileSize)
	}
	return LoadBytes(data)
}

// LoadBytes parses a definition file from a byte slice.
func LoadBytes(data []byte) (*File, error) {
	if len(data) == 0 {
		return nil, errors.New("buff definition file is empty")
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("buff definition file too large: %d bytes (max %d)", len(data), MaxFileSize)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate performs schema-level validation: supported version, at least
// one buff, required fields, stack cap bounds, and unique buff ids.
func (f *File) Validate() error {
	if f.Version != SupportedVersion {
		return &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (only version %d is supported)", f.Version, SupportedVersion),
		}
	}
	if len(f.Buffs) == 0 {
		return &ValidationError{
			Field:   "buffs",
			Message: "at least one buff is required",
		}
	}
	if len(f.Buffs) > MaxBuffCount {
		return &ValidationError{
			Field:   "buffs",
			Message: fmt.Sprintf("too many buffs (%d), maximum allowed is %d", len(f.Buffs), MaxBuffCount),
		}
	}

	seen := make(map[int32]int, len(f.Buffs))
	for i, b := range f.Buffs {
		if b.ID == 0 {
			return &BuffError{Index: i, Field: "id", Message: "id is required"}
		}
		if b.MaxStacks <= 0 {
			return &BuffError{Index: i, ID: b.ID, Field: "max_stacks", Message: "max_stacks must be positive"}
		}
		if b.MaxStacks > MaxStackCap {
			return &BuffError{
				Index: i, ID: b.ID, Field: "max_stacks",
				Message: fmt.Sprintf("max_stacks too large: %d (max %d)", b.MaxStacks, MaxStackCap),
			}
		}
		if prev, exists := seen[b.ID]; exists {
			return &BuffError{
				Index: i, ID: b.ID, Field: "id",
				Message: fmt.Sprintf("duplicate id (previously defined at buff[%d])", prev),
			}
		}
		seen[b.ID] = i
	}
	return nil
}
