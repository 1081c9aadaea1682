// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"github.com/vk/topogrid/internal/config"
	"github.com/vk/topogrid/internal/hcl"
	"github.com/vk/topogrid/internal/yamltable"
)

// DefaultFormats returns the table formats compiled into the binary.
func DefaultFormats() *config.Registry {
	return config.NewRegistry(
		config.Format{
			Name:       "hcl",
			Extensions: []string{hcl.Extension},
			Loader:     hcl.NewLoader(),
			Encode:     hcl.Encode,
		},
		config.Format{
			Name:       "yaml",
			Extensions: yamltable.Extensions,
			Loader:     yamltable.NewLoader(),
			Encode:     yamltable.Encode,
		},
	)
}
