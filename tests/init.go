// Copyright 2022 The The 420Integrated Development Group
// This file is part of the go-tiervm library.
//
// The go-tiervm library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-tiervm library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-tiervm library. If not, see <http://www.gnu.org/licenses/>.

package tests

import (
	"fmt"
	"sort"

	"github.com/420integrated/go-tiervm/core/vm"
)

// Configs table defines the supported interpreter configurations vectors
// may be run against.
var Configs = map[string]vm.Config{
	"Emissions": {
		InstructionSet: "emissions",
	},
	"EmissionsWithContext": {
		InstructionSet:  "emissions",
		ExtraExtensions: []string{"context", "memory"},
	},
	"EmissionsWithSelectLte": {
		InstructionSet:  "emissions",
		ExtraExtensions: []string{"selectlte", "tierv2"},
	},
	"EmissionsWithSaturating": {
		InstructionSet:  "emissions",
		ExtraExtensions: []string{"saturating"},
	},
	"EmissionsWithLogic": {
		InstructionSet:  "emissions",
		ExtraExtensions: []string{"logic", "hash"},
	},
	"Standard": {
		InstructionSet: "standard",
	},
}

// Returns the set of defined configuration names
func AvailableConfigs() []string {
	var available []string
	for k := range Configs {
		available = append(available, k)
	}
	sort.Strings(available)
	return available
}

// UnsupportedConfigError is returned when a vector requests a configuration
// that isn't defined.
type UnsupportedConfigError struct {
	Name string
}

func (e UnsupportedConfigError) Error() string {
	return fmt.Sprintf("unsupported config %q", e.Name)
}
