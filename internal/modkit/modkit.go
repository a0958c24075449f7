// Package modkit wires API modules: shared deps, build options and the
// module contract every service package implements
package modkit

import "codg/internal/modkit/module"

// Module is the contract main mounts; see module.Module
type Module = module.Module

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module
