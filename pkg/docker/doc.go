// Package docker provides Docker integration for running disposable PostgreSQL
// instances used to try out anonymization rules before pointing at real data.
//
// The package stands up PostgreSQL containers, optionally seeded with a SQL
// file, so the full anonymization run can be exercised end to end against a
// database that can simply be thrown away.
//
// # Key Features
//
//   - Disposable PostgreSQL containers with optional seed data
//   - Automatic container lifecycle management with cleanup
//   - Configurable PostgreSQL versions
//   - Management of sandbox containers that outlive the process
//
// # Usage Example
//
//	import (
//		"context"
//		"github.com/veildb/veil/pkg/docker"
//	)
//
//	container := docker.NewWithOptions(docker.DockerOptions{
//		Version:  "17",
//		SeedFile: "testdata/seed.sql",
//	})
//
//	ctx := context.Background()
//	defer container.Stop(ctx)
//
//	if err := container.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	// Get connection details
//	dsn, _ := container.GetDSN(ctx)
//
// The returned DSN can be fed straight into the connection layer, so the same
// configuration file drives both the sandbox and the real target.
package docker
