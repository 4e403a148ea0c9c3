package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/docker/client"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"github.com/veildb/veil/pkg/config"
	"github.com/veildb/veil/pkg/consts"
	"github.com/veildb/veil/pkg/docker"
	"go.uber.org/fx"
)

type devParams struct {
	fx.In

	Loader *config.Loader
}

func dev(p devParams) *cli.Command {
	return &cli.Command{
		Name:  "dev",
		Usage: "Manage a local PostgreSQL sandbox for trying out rules",
		Commands: []*cli.Command{
			devUp(p),
			devDown(),
			devStatus(),
		},
	}
}

func devUp(p devParams) *cli.Command {
	return &cli.Command{
		Name:  "up",
		Usage: "Start a PostgreSQL sandbox, optionally seeded from veil.yaml",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "pg-version",
				Usage: "PostgreSQL version to run",
				Value: "17",
			},
		},
		Before: requireConfig(p.Loader),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runDevUpCommand(ctx, cmd, p)
		},
	}
}

func devDown() *cli.Command {
	return &cli.Command{
		Name:   "down",
		Usage:  "Stop and remove the PostgreSQL sandbox",
		Action: runDevDownCommand,
	}
}

func devStatus() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show the state of the PostgreSQL sandbox",
		Action: runDevStatusCommand,
	}
}

func runDevUpCommand(ctx context.Context, cmd *cli.Command, p devParams) error {
	cfg, err := p.Loader.Load()
	if err != nil {
		return err
	}

	if id, _ := loadDevContainerInfo(); id != "" {
		if isDevContainerRunning(ctx, id) {
			fmt.Fprintln(cmd.Writer, "PostgreSQL sandbox is already running")
			fmt.Fprintln(cmd.Writer, "Use 'veil dev down' to stop it first")
			return nil
		}
	}

	fmt.Fprintf(cmd.Writer, "Starting PostgreSQL %s sandbox...\n", cmd.String("pg-version"))

	container := docker.NewWithOptions(docker.DockerOptions{
		Version:  cmd.String("pg-version"),
		SeedFile: cfg.Seed,
	})

	if err := container.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start PostgreSQL sandbox")
	}
	// Don't defer container.Stop() - it should keep running after we exit

	dsn, err := container.GetDSN(ctx)
	if err != nil {
		_ = container.Stop(ctx)
		return errors.Wrap(err, "failed to get sandbox DSN")
	}

	id, err := container.ID()
	if err != nil {
		_ = container.Stop(ctx)
		return err
	}

	if err := saveDevContainerInfo(id); err != nil {
		fmt.Fprintf(cmd.Writer, "Warning: failed to save container info: %v\n", err)
	}

	printConnectionDetails(cmd, dsn, cfg.Seed)
	return nil
}

func runDevDownCommand(ctx context.Context, cmd *cli.Command) error {
	id, err := loadDevContainerInfo()
	if err != nil {
		return err
	}

	if id == "" || !isDevContainerRunning(ctx, id) {
		fmt.Fprintln(cmd.Writer, "No PostgreSQL sandbox is currently running")
		return removeDevContainerInfo()
	}

	engine, err := newDockerEngine()
	if err != nil {
		return err
	}

	if err := engine.Stop(ctx, id); err != nil {
		fmt.Fprintf(cmd.Writer, "Warning: failed to stop container: %v\n", err)
		fmt.Fprintf(cmd.Writer, "You may need to stop it manually with: docker rm -f %s\n", id)
	} else {
		fmt.Fprintln(cmd.Writer, "PostgreSQL sandbox stopped")
	}

	return removeDevContainerInfo()
}

func runDevStatusCommand(ctx context.Context, cmd *cli.Command) error {
	id, err := loadDevContainerInfo()
	if err != nil {
		return err
	}

	if id == "" {
		fmt.Fprintln(cmd.Writer, "No PostgreSQL sandbox is currently running")
		return nil
	}

	engine, err := newDockerEngine()
	if err != nil {
		return err
	}

	info, err := engine.Get(ctx, id)
	if err != nil {
		fmt.Fprintln(cmd.Writer, "No PostgreSQL sandbox is currently running")
		return removeDevContainerInfo()
	}

	fmt.Fprintf(cmd.Writer, "Container: %s\n", strings.Join(info.Names, ", "))
	fmt.Fprintf(cmd.Writer, "Image:     %s\n", info.Image)
	fmt.Fprintf(cmd.Writer, "State:     %s\n", info.State)
	return nil
}

func printConnectionDetails(cmd *cli.Command, dsn, seed string) {
	fmt.Fprintln(cmd.Writer, "\n"+strings.Repeat("=", 60))
	fmt.Fprintln(cmd.Writer, "PostgreSQL Sandbox Started")
	fmt.Fprintln(cmd.Writer, strings.Repeat("=", 60))
	fmt.Fprintf(cmd.Writer, "DSN:  %s\n", dsn)
	if seed != "" {
		fmt.Fprintf(cmd.Writer, "Seed: %s\n", seed)
	}
	fmt.Fprintln(cmd.Writer, "\nTry it out with: veil anonymize --dsn "+dsn)
	fmt.Fprintln(cmd.Writer, "Use 'veil dev down' to stop the sandbox")
	fmt.Fprintln(cmd.Writer, strings.Repeat("=", 60))
}

// Container persistence functions
func getDevContainerInfoPath() string {
	return filepath.Join(os.TempDir(), "veil-dev-container.json")
}

type containerInfo struct {
	ID string `json:"id"`
}

func newDockerEngine() (*docker.Engine, error) {
	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Docker client")
	}

	return docker.NewEngine(dockerClient), nil
}

func isDevContainerRunning(ctx context.Context, id string) bool {
	engine, err := newDockerEngine()
	if err != nil {
		return false
	}

	info, err := engine.Get(ctx, id)
	return err == nil && info.State == "running"
}

func saveDevContainerInfo(id string) error {
	data, err := json.Marshal(containerInfo{ID: id})
	if err != nil {
		return errors.Wrap(err, "failed to marshal container info")
	}

	if err := os.WriteFile(getDevContainerInfoPath(), data, consts.ModeFile); err != nil {
		return errors.Wrap(err, "failed to write container info")
	}

	return nil
}

func loadDevContainerInfo() (string, error) {
	data, err := os.ReadFile(getDevContainerInfoPath())
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to read container info")
	}

	var info containerInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return "", errors.Wrap(err, "failed to parse container info")
	}

	return info.ID, nil
}

func removeDevContainerInfo() error {
	if err := os.Remove(getDevContainerInfoPath()); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove container info")
	}
	return nil
}
