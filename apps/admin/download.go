package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/KB1707/CramJam/core"
)

const defaultDownloadDir = "downloads"

// download copies a shared file into dir. A missing file is reported, not failed on.
func (cli *commandLine) download(name, dir string) error {
	data, err := cli.files.Read(context.Background(), name)
	if err != nil {
		if core.IsNotFound(err) {
			fmt.Fprintln(cli.out, err.Error())
			return nil
		}
		return errors.Wrap(err, "reading shared file")
	}

	if err = os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating download directory")
	}
	dest := filepath.Join(dir, filepath.Base(name))
	if err = os.WriteFile(dest, data, 0o644); err != nil {
		return errors.Wrap(err, "writing download")
	}
	fmt.Fprintf(cli.out, "Downloaded %s to %s\n", name, dest)
	return nil
}
