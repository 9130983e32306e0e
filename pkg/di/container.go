// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/smbreplay/pkg/api" //nolint:depguard
	"github.com/ssargent/smbreplay/pkg/convert"
)

// ConverterFactory builds converters with the given options
type ConverterFactory func(opts ...convert.Option) *convert.Converter

// Container holds all the dependencies for the application
type Container struct {
	libraryFactory   api.LibraryFactory
	serverFactory    api.ServerFactory
	converterFactory ConverterFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		libraryFactory:   api.NewLibraryFactory(),
		serverFactory:    api.NewServerFactory(),
		converterFactory: convert.New,
	}
}

// GetLibraryFactory returns the library factory
func (c *Container) GetLibraryFactory() api.LibraryFactory {
	return c.libraryFactory
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// NewConverter builds a converter through the configured factory
func (c *Container) NewConverter(opts ...convert.Option) *convert.Converter {
	return c.converterFactory(opts...)
}

// SetLibraryFactory allows overriding the library factory (for testing)
func (c *Container) SetLibraryFactory(factory api.LibraryFactory) {
	c.libraryFactory = factory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}

// SetConverterFactory allows overriding how converters are built (for testing)
func (c *Container) SetConverterFactory(factory ConverterFactory) {
	c.converterFactory = factory
}
