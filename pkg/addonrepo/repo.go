package addonrepo

import (
	"crypto/md5"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/thesyncim/addonhost/pkg/hostver"
)

// Repo is a static addon repository tree. Each host release has its
// own branch because binary addons are not ABI-compatible across
// releases:
//
//	<root>/<host>/<platform>-<arch>/<id>/<id>-<version>.<platform>-<arch>.zip
//	<root>/<host>/<platform>-<arch>/<id>/addon.xml
//	<root>/<host>/<platform>-<arch>/addons.xml
//	<root>/<host>/<platform>-<arch>/addons.xml.md5
type Repo struct {
	Root string
	Log  zerolog.Logger
}

// New returns a Repo rooted at dir. Logger may be nil.
func New(dir string, log *zerolog.Logger) *Repo {
	l := zerolog.Nop()
	if log != nil {
		l = *log
	}
	return &Repo{Root: dir, Log: l}
}

func (r *Repo) branchDir(host hostver.Host, target Target) string {
	return filepath.Join(r.Root, host.String(), target.String())
}

// Publish copies a packaged addon into the repository branch for the
// given host release, replacing any previous version, and unpacks its
// manifest next to the zip for indexing.
func (r *Repo) Publish(zipPath string, host hostver.Host, target Target) error {
	addon, err := readZipManifest(zipPath)
	if err != nil {
		return err
	}

	dir := filepath.Join(r.branchDir(host, target), addon.Id)
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := copyFile(zipPath, filepath.Join(dir, filepath.Base(zipPath))); err != nil {
		return err
	}

	if err := WriteAddonXML(dir, addon); err != nil {
		return err
	}

	r.Log.Info().Str("addon", addon.Id).Str("version", addon.Version).
		Str("host", host.String()).Str("target", target.String()).
		Msg("published")
	return nil
}

// WriteIndex regenerates addons.xml and addons.xml.md5 for a branch
// from the manifests of its published addons.
func (r *Repo) WriteIndex(host hostver.Host, target Target) error {
	dir := r.branchDir(host, target)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("addonrepo: read branch %s: %w", dir, err)
	}

	list := &AddonList{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		addon, err := ReadAddonXML(filepath.Join(dir, e.Name()))
		if err != nil {
			return fmt.Errorf("addonrepo: index %s: %w", e.Name(), err)
		}
		list.Addons = append(list.Addons, addon)
	}
	sort.Slice(list.Addons, func(i, j int) bool {
		return list.Addons[i].Id < list.Addons[j].Id
	})

	index, err := os.Create(filepath.Join(dir, "addons.xml"))
	if err != nil {
		return err
	}
	defer index.Close()

	// The checksum file must hash the exact bytes of addons.xml; the
	// host verifies it before trusting the index.
	hash := md5.New()
	w := io.MultiWriter(index, hash)

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(list); err != nil {
		return err
	}

	sum := fmt.Sprintf("%x", hash.Sum(nil))
	if err := os.WriteFile(filepath.Join(dir, "addons.xml.md5"), []byte(sum+"\n"), 0o644); err != nil {
		return err
	}

	r.Log.Info().Str("host", host.String()).Str("target", target.String()).
		Int("addons", len(list.Addons)).Msg("index written")
	return nil
}

func copyFile(from, to string) error {
	input, err := os.Open(from)
	if err != nil {
		return err
	}
	defer input.Close()

	output, err := os.Create(to)
	if err != nil {
		return err
	}
	defer output.Close()

	if _, err := io.Copy(output, input); err != nil {
		return err
	}
	return output.Close()
}
