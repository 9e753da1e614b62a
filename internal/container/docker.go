package container

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"go.uber.org/zap"
)

// ErrFileNotFound reports that the requested path does not exist inside the
// container. Callers treat a missing CHECKS file as "no specification", not
// as a deploy failure.
var ErrFileNotFound = errors.New("file not found in container")

// Runtime is the container-runtime collaborator: fetch a file out of a
// container, query process liveness, and tail logs for diagnostics.
type Runtime interface {
	FetchFile(ctx context.Context, containerID, path string) ([]byte, error)
	IsRunning(ctx context.Context, containerID string) (bool, error)
	Logs(ctx context.Context, containerID string, tail int) (string, error)
}

// Docker implements Runtime against the local Docker engine.
type Docker struct {
	cli    *client.Client
	logger *zap.Logger
}

func NewDocker(logger *zap.Logger) (*Docker, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	return &Docker{cli: cli, logger: logger}, nil
}

// FetchFile copies one file out of the container. The engine hands back a
// tar stream; it is unpacked into a scoped temp workdir that is removed on
// every exit path.
func (d *Docker) FetchFile(ctx context.Context, containerID, path string) ([]byte, error) {
	rc, _, err := d.cli.CopyFromContainer(ctx, containerID, path)
	if err != nil {
		if client.IsErrNotFound(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("copy %s from %s: %w", path, containerID, err)
	}
	defer rc.Close()

	workdir, err := os.MkdirTemp("", "deploycheck-")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.RemoveAll(workdir); err != nil {
			d.logger.Warn("workdir_cleanup_failed", zap.String("dir", workdir), zap.Error(err))
			return
		}
		d.logger.Debug("workdir_removed", zap.String("dir", workdir))
	}()

	local := filepath.Join(workdir, filepath.Base(path))
	if err := extractFirstFile(rc, local); err != nil {
		return nil, fmt.Errorf("unpack %s: %w", path, err)
	}
	return os.ReadFile(local)
}

func (d *Docker) IsRunning(ctx context.Context, containerID string) (bool, error) {
	info, err := d.cli.ContainerInspect(ctx, containerID)
	if err != nil {
		if client.IsErrNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("inspect %s: %w", containerID, err)
	}
	return info.State != nil && info.State.Running, nil
}

// Logs returns the last tail lines of the container's combined output,
// demultiplexed from the engine's stream framing.
func (d *Docker) Logs(ctx context.Context, containerID string, tail int) (string, error) {
	out, err := d.cli.ContainerLogs(ctx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       fmt.Sprintf("%d", tail),
	})
	if err != nil {
		return "", fmt.Errorf("logs %s: %w", containerID, err)
	}
	defer out.Close()

	var buf bytes.Buffer
	if _, err := stdcopy.StdCopy(&buf, &buf, out); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractFirstFile(r io.Reader, dst string) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return ErrFileNotFound
		}
		if err != nil {
			return err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return err
		}
		if _, err := io.Copy(f, tr); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
}
