package docker

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/pkg/errors"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DefaultPostgresPort is the port PostgreSQL listens on inside the container.
const DefaultPostgresPort = 5432

type (
	// DockerOptions represents options for running PostgreSQL in Docker
	DockerOptions struct {
		// Version is the PostgreSQL version to run (default: 17)
		Version string

		// SeedFile is an optional SQL file applied on first boot (relative
		// paths will be converted to absolute)
		SeedFile string
	}

	// Container manages a disposable PostgreSQL instance for trying out
	// anonymization rules against realistic data
	Container struct {
		options   DockerOptions
		container *postgres.PostgresContainer
	}
)

// New creates a new Docker container with default options
//
// Example:
//
//	container := docker.New()
//
//	// Start PostgreSQL container
//	if err := container.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer container.Stop(ctx)
func New() *Container {
	return &Container{
		options: DockerOptions{},
	}
}

// NewWithOptions creates a new Docker container with custom options
//
// Example:
//
//	opts := docker.DockerOptions{
//		Version:  "16",
//		SeedFile: "testdata/seed.sql",
//	}
//	container := docker.NewWithOptions(opts)
//
//	if err := container.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer container.Stop(ctx)
func NewWithOptions(opts DockerOptions) *Container {
	return &Container{
		options: opts,
	}
}

// Start starts a PostgreSQL Docker container with the configured version
func (c *Container) Start(ctx context.Context) error {
	if c.container != nil {
		return errors.New("container is already running")
	}

	version := c.options.Version
	if version == "" {
		version = "17"
	}

	customizers := []testcontainers.ContainerCustomizer{
		postgres.WithDatabase("veil"),
		postgres.WithUsername("veil"),
		postgres.WithPassword("veil"),
		testcontainers.WithWaitStrategyAndDeadline(
			5*time.Minute,
			wait.ForAll(
				wait.
					ForLog("database system is ready to accept connections").
					WithOccurrence(2),
				wait.ForListeningPort(nat.Port(fmt.Sprintf("%d/tcp", DefaultPostgresPort))),
			),
		),
	}

	if c.options.SeedFile != "" {
		// Convert to absolute path to ensure proper mounting
		absSeed, err := filepath.Abs(c.options.SeedFile)
		if err != nil {
			return errors.Wrapf(err, "failed to get absolute path for SeedFile: %s", c.options.SeedFile)
		}

		customizers = append(customizers, postgres.WithInitScripts(absSeed))
	}

	container, err := postgres.Run(ctx,
		fmt.Sprintf("postgres:%s-alpine", version),
		customizers...,
	)
	if err != nil {
		return errors.Wrap(err, "failed to start PostgreSQL container")
	}

	c.container = container
	return nil
}

// Stop stops and removes the PostgreSQL Docker container
func (c *Container) Stop(ctx context.Context) error {
	if c.container == nil {
		return nil // Already stopped
	}

	err := c.container.Terminate(ctx)
	c.container = nil

	if err != nil {
		return errors.Wrap(err, "failed to stop PostgreSQL container")
	}

	return nil
}

// GetDSN returns the DSN for connecting to the Docker PostgreSQL instance
func (c *Container) GetDSN(ctx context.Context) (string, error) {
	if c.container == nil {
		return "", errors.New("container is not running")
	}

	// Use the PostgreSQL container's built-in connection string method.
	// This handles authentication and the mapped port automatically.
	connectionString, err := c.container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", errors.Wrap(err, "failed to get connection string")
	}

	return connectionString, nil
}

// ID returns the Docker container ID of the running instance
func (c *Container) ID() (string, error) {
	if c.container == nil {
		return "", errors.New("container is not running")
	}

	return c.container.GetContainerID(), nil
}

// IsRunning returns true if the container is currently running
func (c *Container) IsRunning() bool {
	return c.container != nil
}
