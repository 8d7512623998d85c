package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// EditRegistry provides a central registry for all available edits.
// It enables creation of edits from string parameters, used by the CLI
// --edit flag and by measure definitions in configuration files.
type EditRegistry struct {
	factories map[string]EditFactory
}

// EditFactory is a function that creates an edit from parameters.
type EditFactory func(params map[string]string) (ParameterEdit, error)

// NewEditRegistry creates a new registry with all built-in edits registered.
func NewEditRegistry() *EditRegistry {
	registry := &EditRegistry{
		factories: make(map[string]EditFactory),
	}

	registry.Register("set_price", scalarFactory(FieldPrice))
	registry.Register("set_redistribution", scalarFactory(FieldRedistribution))
	registry.Register("set_progressivity", scalarFactory(FieldProgressivity))
	registry.Register("set_rural_bonus", scalarFactory(FieldRural))
	registry.Register("set_subsidy", createSetSubsidy)
	registry.Register("set_territory_view", createSetTerritoryView)

	return registry
}

// Register adds an edit factory to the registry.
func (r *EditRegistry) Register(name string, factory EditFactory) {
	r.factories[name] = factory
}

// Create creates an edit by name with the given parameters.
func (r *EditRegistry) Create(name string, params map[string]string) (ParameterEdit, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown edit: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered edits, sorted.
func (r *EditRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseEditSpec parses an edit specification string.
// Format: "edit_name:param1=value1,param2=value2"
// Example: "set_subsidy:program=VAT reduction,value=60"
func (r *EditRegistry) ParseEditSpec(spec string) (ParameterEdit, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid edit spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// ParseEditSpecs parses every spec in order
func (r *EditRegistry) ParseEditSpecs(specs []string) ([]ParameterEdit, error) {
	edits := make([]ParameterEdit, 0, len(specs))
	for _, spec := range specs {
		edit, err := r.ParseEditSpec(spec)
		if err != nil {
			return nil, err
		}
		edits = append(edits, edit)
	}
	return edits, nil
}

// Factory functions for each edit

func scalarFactory(field string) EditFactory {
	return func(params map[string]string) (ParameterEdit, error) {
		valueStr, ok := params["value"]
		if !ok {
			return nil, fmt.Errorf("%s requires 'value' parameter", field)
		}
		value, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value: %w", field, err)
		}
		return NewScalarEdit(field, value)
	}
}

func createSetSubsidy(params map[string]string) (ParameterEdit, error) {
	valueStr, ok := params["value"]
	if !ok {
		return nil, fmt.Errorf("set_subsidy requires 'value' parameter")
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid subsidy value: %w", err)
	}

	edit := &SetSubsidy{Value: value, Program: params["program"]}
	if edit.Program != "" {
		return edit, nil
	}

	indexStr, ok := params["index"]
	if !ok {
		return nil, fmt.Errorf("set_subsidy requires 'program' or 'index' parameter")
	}
	edit.Index, err = strconv.Atoi(indexStr)
	if err != nil {
		return nil, fmt.Errorf("invalid subsidy index: %w", err)
	}
	return edit, nil
}

func createSetTerritoryView(params map[string]string) (ParameterEdit, error) {
	enabledStr, ok := params["enabled"]
	if !ok {
		return nil, fmt.Errorf("set_territory_view requires 'enabled' parameter")
	}
	enabled, err := strconv.ParseBool(enabledStr)
	if err != nil {
		return nil, fmt.Errorf("invalid enabled value: %w", err)
	}
	return &SetTerritoryView{Enabled: enabled}, nil
}
