// Package project manages the on-disk report folder hierarchy. Each project
// lives at {root}/{type}/{part}/{operation}/{serial}/ with a project.json
// metadata file.
package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/verimetric/dimtol/internal/domain"
)

const infoFileName = "project.json"

// Info is the persisted project metadata.
type Info struct {
	Type            string    `json:"type"`
	PartNumber      string    `json:"part_number"`
	OperationNumber string    `json:"operation_number"`
	SerialNumber    string    `json:"serial_number"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Key identifies a project in the folder hierarchy.
type Key struct {
	Type            string `json:"type"`
	PartNumber      string `json:"part_number"`
	OperationNumber string `json:"operation_number"`
	SerialNumber    string `json:"serial_number"`
}

// Validate checks that every key segment is present and free of path
// separators.
func (k Key) Validate() error {
	for _, seg := range []string{k.Type, k.PartNumber, k.OperationNumber, k.SerialNumber} {
		if strings.TrimSpace(seg) == "" {
			return fmt.Errorf("%w: all project fields are required", domain.ErrInvalidInput)
		}
		if strings.ContainsAny(seg, `/\`) || seg == "." || seg == ".." {
			return fmt.Errorf("%w: invalid project field %q", domain.ErrInvalidInput, seg)
		}
	}
	return nil
}

// Service creates and loads project folders under a configured root.
type Service struct {
	root   string
	logger *zap.Logger
}

// New creates a project service rooted at root.
func New(root string, logger *zap.Logger) *Service {
	return &Service{root: root, logger: logger}
}

// Dir returns the folder path for a key without touching the filesystem.
func (s *Service) Dir(key Key) string {
	return filepath.Join(s.root, key.Type, key.PartNumber, key.OperationNumber, key.SerialNumber)
}

// Create builds the project folder hierarchy and writes its metadata file.
// Creating a project that already exists returns domain.ErrProjectExists.
func (s *Service) Create(ctx context.Context, key Key) (Info, string, error) {
	if err := key.Validate(); err != nil {
		return Info{}, "", err
	}

	dir := s.Dir(key)
	if _, err := os.Stat(filepath.Join(dir, infoFileName)); err == nil {
		return Info{}, "", domain.ErrProjectExists
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Info{}, "", fmt.Errorf("create project folder: %w", err)
	}

	now := time.Now()
	info := Info{
		Type:            key.Type,
		PartNumber:      key.PartNumber,
		OperationNumber: key.OperationNumber,
		SerialNumber:    key.SerialNumber,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.writeInfo(dir, info); err != nil {
		return Info{}, "", err
	}

	s.logger.Info("project created", zap.String("dir", dir))
	return info, dir, nil
}

// Load reads an existing project's metadata. A missing folder or metadata
// file returns domain.ErrProjectNotFound.
func (s *Service) Load(ctx context.Context, key Key) (Info, string, error) {
	if err := key.Validate(); err != nil {
		return Info{}, "", err
	}

	dir := s.Dir(key)
	data, err := os.ReadFile(filepath.Join(dir, infoFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Info{}, "", domain.ErrProjectNotFound
		}
		return Info{}, "", fmt.Errorf("read project info: %w", err)
	}

	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return Info{}, "", fmt.Errorf("decode project info: %w", err)
	}

	s.logger.Debug("project loaded", zap.String("dir", dir))
	return info, dir, nil
}

// Touch bumps the project's updated-at timestamp.
func (s *Service) Touch(ctx context.Context, key Key) (Info, error) {
	info, dir, err := s.Load(ctx, key)
	if err != nil {
		return Info{}, err
	}
	info.UpdatedAt = time.Now()
	if err := s.writeInfo(dir, info); err != nil {
		return Info{}, err
	}
	return info, nil
}

// Files lists the regular files inside the project folder.
func (s *Service) Files(ctx context.Context, key Key) ([]string, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	dir := s.Dir(key)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("read project folder: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

func (s *Service) writeInfo(dir string, info Info) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("encode project info: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, infoFileName), data, 0o644); err != nil {
		return fmt.Errorf("write project info: %w", err)
	}
	return nil
}
