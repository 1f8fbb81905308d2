/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package ops

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
)

// CommandGroup represents the operational classification of commands
type CommandGroup string

const (
	GroupGeneration CommandGroup = "generation" // preview, generate, plan
	GroupAnalysis   CommandGroup = "analysis"   // score, keywords
	GroupSupport    CommandGroup = "support"    // version
)

// Groups lists the command groups in help-screen order.
var Groups = []CommandGroup{GroupGeneration, GroupAnalysis, GroupSupport}

// Title returns the heading used for the group on the help screen.
func (g CommandGroup) Title() string {
	switch g {
	case GroupGeneration:
		return "Generation Commands"
	case GroupAnalysis:
		return "Analysis Commands"
	case GroupSupport:
		return "Support Commands"
	default:
		return string(g)
	}
}

// CommandRegistration represents a registered command with its classification
type CommandRegistration struct {
	Name        string
	Group       CommandGroup
	Command     *cobra.Command
	Description string
}

// Registry manages command classifications and registrations
type Registry struct {
	mu         sync.RWMutex
	commands   map[string]*CommandRegistration
	groupIndex map[CommandGroup][]*CommandRegistration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands:   make(map[string]*CommandRegistration),
		groupIndex: make(map[CommandGroup][]*CommandRegistration),
	}
}

// Register adds a command to the registry
func (r *Registry) Register(name string, group CommandGroup, cmd *cobra.Command, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("command %s already registered", name)
	}

	registration := &CommandRegistration{
		Name:        name,
		Group:       group,
		Command:     cmd,
		Description: description,
	}
	r.commands[name] = registration
	r.groupIndex[group] = append(r.groupIndex[group], registration)
	return nil
}

// GetCommand returns a registered command by name
func (r *Registry) GetCommand(name string) (*CommandRegistration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, exists := r.commands[name]
	return cmd, exists
}

// GetCommandsByGroup returns the commands of a group in registration order
func (r *Registry) GetCommandsByGroup(group CommandGroup) []*CommandRegistration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*CommandRegistration(nil), r.groupIndex[group]...)
}

// GetAllCommands returns all registered commands
func (r *Registry) GetAllCommands() map[string]*CommandRegistration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*CommandRegistration, len(r.commands))
	for k, v := range r.commands {
		result[k] = v
	}
	return result
}
