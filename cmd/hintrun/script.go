package main

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/chunkproc/cairohints/felt"
	"github.com/chunkproc/cairohints/vm"
)

// Script is a dry run: a frame of variables laid out from fp, and the
// hints to execute against it in order.
type Script struct {
	Frame []Variable `yaml:"frame"`
	Steps []Step     `yaml:"steps"`
}

// Variable is one frame variable. A pointer gets a fresh segment, Values
// then fill the segment; otherwise Values fill the variable cells.
type Variable struct {
	Name    string   `yaml:"name"`
	Size    int      `yaml:"size"`
	Pointer bool     `yaml:"pointer"`
	Values  []string `yaml:"values"`
}

// Step names a registered hint or gives its code verbatim. Frame
// references are fp based, so steps carry no ap tracking.
type Step struct {
	Hint string `yaml:"hint"`
	Code string `yaml:"code"`
}

// ParseScript decodes a YAML script. Unknown keys are rejected.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	seen := make(map[string]bool, len(s.Frame))
	for i, v := range s.Frame {
		switch {
		case v.Name == "":
			return nil, fmt.Errorf("frame[%d]: missing name", i)
		case seen[v.Name]:
			return nil, fmt.Errorf("frame[%d]: duplicate variable %s", i, v.Name)
		case v.Size < 0:
			return nil, fmt.Errorf("frame[%d]: negative size", i)
		case v.Pointer && v.Size > 1:
			return nil, fmt.Errorf("frame[%d]: pointer %s has size %d", i, v.Name, v.Size)
		case !v.Pointer && len(v.Values) > v.size():
			return nil, fmt.Errorf("frame[%d]: %d values for %s of size %d", i, len(v.Values), v.Name, v.size())
		}
		seen[v.Name] = true
	}
	for i, st := range s.Steps {
		if (st.Hint == "") == (st.Code == "") {
			return nil, fmt.Errorf("steps[%d]: exactly one of hint and code is required", i)
		}
	}
	if len(s.Steps) == 0 {
		return nil, errors.New("script has no steps")
	}
	return &s, nil
}

func (v Variable) size() int {
	if v.Size == 0 {
		return 1
	}
	return v.Size
}

// Build lays the frame out from fp on v and returns the references a
// compiler would record for it. ap is left after the last variable.
func (s *Script) Build(v *vm.VirtualMachine) (map[string]vm.Reference, error) {
	refs := make(map[string]vm.Reference, len(s.Frame))
	next := 0
	for _, variable := range s.Frame {
		addr, err := v.RunContext.FP.Add(next)
		if err != nil {
			return nil, err
		}
		values, err := parseFelts(variable.Values)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", variable.Name, err)
		}

		target := addr
		if variable.Pointer {
			target = v.Memory.AddSegment()
			if err := v.Memory.Insert(addr, vm.RelocatableValue(target)); err != nil {
				return nil, err
			}
		}
		for i, f := range values {
			a, err := target.Add(i)
			if err != nil {
				return nil, err
			}
			if err := v.Memory.Insert(a, vm.FeltValue(f)); err != nil {
				return nil, err
			}
		}

		// structs denote their address, felts and pointers their value
		refs[variable.Name] = vm.Reference{
			Register:    vm.FP,
			Offset:      next,
			Dereference: variable.Pointer || variable.size() == 1,
		}
		next += variable.size()
	}
	ap, err := v.RunContext.FP.Add(next)
	if err != nil {
		return nil, err
	}
	v.RunContext.AP = ap
	return refs, nil
}

func parseFelts(texts []string) ([]felt.Felt, error) {
	res := make([]felt.Felt, len(texts))
	for i, t := range texts {
		f, err := felt.FromString(t)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		res[i] = f
	}
	return res, nil
}
