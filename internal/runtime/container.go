// Package runtime holds a process-wide dig dependency container. No other
// package in this module imports it: providers, embedders and rerankers
// are constructed directly by their callers.
package runtime

import (
	"sync"

	"go.uber.org/dig"
)

var (
	once      sync.Once
	container *dig.Container
)

// GetContainer returns the process-wide dig container, building it on
// first use.
func GetContainer() *dig.Container {
	once.Do(func() {
		container = dig.New()
	})
	return container
}

// Provide registers a constructor on the shared container. It panics if
// the constructor is malformed, matching dig's own fail-fast behavior at
// wiring time.
func Provide(constructor interface{}, opts ...dig.ProvideOption) {
	if err := GetContainer().Provide(constructor, opts...); err != nil {
		panic(err)
	}
}

// Invoke resolves and calls fn against the shared container.
func Invoke(fn interface{}, opts ...dig.InvokeOption) error {
	return GetContainer().Invoke(fn, opts...)
}

// Reset discards the current container and starts an empty one.
func Reset() {
	container = dig.New()
}
