package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/atlas/internal/log"
)

// SaveServices replaces catalog.services in the config file. Comments and
// formatting of every other section are preserved by editing the yaml.Node tree.
func SaveServices(configPath string, services []ServiceConfig) error {
	var node yaml.Node
	if err := node.Encode(services); err != nil {
		return fmt.Errorf("encoding services: %w", err)
	}
	if err := saveNode(configPath, []string{"catalog", "services"}, &node); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to save services", err, "path", configPath)
		return err
	}
	log.Info(log.CatConfig, "Saved services", "path", configPath, "count", len(services))
	return nil
}

// SaveSelectedService persists catalog.selected_service.
func SaveSelectedService(configPath, name string) error {
	node := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
	return saveNode(configPath, []string{"catalog", "selected_service"}, node)
}

// saveNode sets the value at keyPath, creating intermediate mappings.
func saveNode(configPath string, keyPath []string, value *yaml.Node) error {
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode}}}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("config root is not a mapping")
	}

	mapping := doc.Content[0]
	for i, key := range keyPath {
		last := i == len(keyPath)-1
		child := lookupKey(mapping, key)
		if last {
			if child != nil {
				*child = *value
			} else {
				mapping.Content = append(mapping.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, value)
			}
			break
		}
		if child == nil || child.Kind != yaml.MappingNode {
			next := &yaml.Node{Kind: yaml.MappingNode}
			if child != nil {
				*child = *next
				next = child
			} else {
				mapping.Content = append(mapping.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, next)
			}
			mapping = next
			continue
		}
		mapping = child
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

// lookupKey returns the value node for key in a mapping node.
func lookupKey(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// writeAtomic writes to a temp file in the same directory, then renames.
func writeAtomic(configPath string, data []byte) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".atlas.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
