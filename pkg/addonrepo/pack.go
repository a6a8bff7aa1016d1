package addonrepo

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Target identifies the platform a packaged addon is built for.
type Target struct {
	Platform string // "linux", "android", "osx", "windows"
	Arch     string // "x86_64", "aarch64", "armv7"
}

func (t Target) String() string {
	return t.Platform + "-" + t.Arch
}

// Package zips the addon directory srcDir into outDir and returns the
// path of the created archive. The archive is named
// <id>-<version>.<platform>-<arch>.zip and contains all files under a
// single <id>/ root, which is the layout the host's installer expects.
func Package(srcDir, outDir string, target Target) (string, error) {
	addon, err := ReadAddonXML(srcDir)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%s.%s.zip", addon.Id, addon.Version, target)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}

	zipPath := filepath.Join(outDir, name)
	out, err := os.Create(zipPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	err = filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}

		w, err := zw.Create(path.Join(addon.Id, filepath.ToSlash(rel)))
		if err != nil {
			return err
		}
		in, err := os.Open(p)
		if err != nil {
			return err
		}
		defer in.Close()
		_, err = io.Copy(w, in)
		return err
	})
	if err != nil {
		zw.Close()
		os.Remove(zipPath)
		return "", fmt.Errorf("addonrepo: package %s: %w", addon.Id, err)
	}

	if err := zw.Close(); err != nil {
		os.Remove(zipPath)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(zipPath)
		return "", err
	}
	return zipPath, nil
}

// readZipManifest extracts and parses <id>/addon.xml from a packaged
// addon.
func readZipManifest(zipPath string) (*Addon, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if path.Base(f.Name) != "addon.xml" {
			continue
		}
		if strings.Count(f.Name, "/") != 1 {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		return parseManifest(data)
	}
	return nil, fmt.Errorf("addonrepo: %s contains no addon.xml", zipPath)
}
