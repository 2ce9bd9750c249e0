package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LibraryTemplate is one directory of the seeded report library
type LibraryTemplate struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Children    []LibraryTemplate `yaml:"children,omitempty"`
}

// LibrarySeed is the YAML document given by LIBRARY_SEED_FILE
type LibrarySeed struct {
	Directories []LibraryTemplate `yaml:"directories"`
}

// LoadLibrarySeed reads report-library templates from a YAML file.
// An empty path yields the built-in default templates.
func LoadLibrarySeed(path string) (*LibrarySeed, error) {
	if path == "" {
		return DefaultLibrarySeed(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read library seed: %w", err)
	}

	var seed LibrarySeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse library seed %s: %w", path, err)
	}
	if err := seed.validate(); err != nil {
		return nil, fmt.Errorf("library seed %s: %w", path, err)
	}
	return &seed, nil
}

func (s *LibrarySeed) validate() error {
	var check func(dirs []LibraryTemplate, depth int) error
	check = func(dirs []LibraryTemplate, depth int) error {
		for i, d := range dirs {
			if d.Name == "" {
				return fmt.Errorf("directory %d at depth %d has no name", i, depth)
			}
			if err := check(d.Children, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return check(s.Directories, 0)
}

// DefaultLibrarySeed returns the templates a new user starts with
func DefaultLibrarySeed() *LibrarySeed {
	return &LibrarySeed{Directories: []LibraryTemplate{
		{Name: "第一章 概述", Children: []LibraryTemplate{
			{Name: "1.1 项目背景"},
			{Name: "1.2 项目目标"},
		}},
		{Name: "第二章 技术方案", Children: []LibraryTemplate{
			{Name: "2.1 总体架构"},
			{Name: "2.2 关键技术"},
		}},
		{Name: "第三章 实施计划"},
	}}
}
