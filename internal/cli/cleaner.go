package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/toyz/routectl/internal/utils"
)

// GeneratedHeader opens every file routectl writes
const GeneratedHeader = "// Code generated by routectl. DO NOT EDIT."

// Cleaner handles cleaning up generated files
type Cleaner struct {
	scanner    *DirectoryScanner
	outputFile string
}

// NewCleaner creates a cleaner for the given generated file name
func NewCleaner(outputFile string) *Cleaner {
	return &Cleaner{
		scanner:    NewDirectoryScanner(),
		outputFile: outputFile,
	}
}

// CleanGeneratedFiles removes the generated files under the given patterns and
// returns their paths. Files without the generated header are left alone.
func (c *Cleaner) CleanGeneratedFiles(patterns []string) ([]string, error) {
	dirs, err := c.scanner.ScanDirectories(patterns)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, dir := range dirs {
		path := filepath.Join(dir, c.outputFile)
		ok, err := c.remove(path)
		if err != nil {
			return removed, fmt.Errorf("failed to clean directory %s: %w", dir, err)
		}
		if ok {
			removed = append(removed, path)
		}
	}
	return removed, nil
}

func (c *Cleaner) remove(path string) (bool, error) {
	generated, err := IsGenerated(path)
	if err != nil || !generated {
		return false, err
	}
	return utils.RemoveIfExists(path)
}

// IsGenerated reports whether path exists and carries the generated header
func IsGenerated(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return bytes.HasPrefix(data, []byte(GeneratedHeader)), nil
}
