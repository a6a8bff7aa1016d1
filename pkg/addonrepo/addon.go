// Package addonrepo packages binary addons into installable zips and
// maintains the static repository tree the host application installs
// them from.
package addonrepo

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
)

// Addon is the addon.xml manifest shipped at the root of every addon.
type Addon struct {
	XMLName      xml.Name          `xml:"addon"`
	Id           string            `xml:"id,attr"`
	Name         string            `xml:"name,attr"`
	Version      string            `xml:"version,attr"`
	ProviderName string            `xml:"provider-name,attr"`
	Requires     []*AddonImport    `xml:"requires>import,omitempty"`
	Extensions   []*AddonExtension `xml:"extension"`
}

type AddonImport struct {
	XMLName  xml.Name `xml:"import"`
	Addon    string   `xml:"addon,attr"`
	Version  string   `xml:"version,attr"`
	Optional string   `xml:"optional,attr,omitempty"`
}

type AddonText struct {
	Text string `xml:",chardata"`
	Lang string `xml:"lang,attr"`
}

type AddonExtension struct {
	Point string `xml:"point,attr"`

	// binary extension points (inputstream, videocodec)
	Library string `xml:"library_linux,attr,omitempty"`

	// xbmc.addon.metadata
	Platform     string       `xml:"platform,omitempty"`
	License      string       `xml:"license,omitempty"`
	Source       string       `xml:"source,omitempty"`
	Summaries    []*AddonText `xml:"summary,omitempty"`
	Descriptions []*AddonText `xml:"description,omitempty"`
}

// AddonList is the repository index document (addons.xml).
type AddonList struct {
	XMLName xml.Name `xml:"addons"`
	Addons  []*Addon `xml:"addon"`
}

// ReadAddonXML parses the addon.xml manifest in dir.
func ReadAddonXML(dir string) (*Addon, error) {
	data, err := os.ReadFile(filepath.Join(dir, "addon.xml"))
	if err != nil {
		return nil, err
	}
	return parseManifest(data)
}

// WriteAddonXML writes the manifest to dir/addon.xml.
func WriteAddonXML(dir string, addon *Addon) error {
	f, err := os.Create(filepath.Join(dir, "addon.xml"))
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	if err := enc.Encode(addon); err != nil {
		return err
	}
	return f.Close()
}

func parseManifest(data []byte) (*Addon, error) {
	addon := &Addon{}
	if err := xml.Unmarshal(data, addon); err != nil {
		return nil, fmt.Errorf("addonrepo: parse addon.xml: %w", err)
	}
	if addon.Id == "" {
		return nil, fmt.Errorf("addonrepo: addon.xml has no id")
	}
	if addon.Version == "" {
		return nil, fmt.Errorf("addonrepo: addon %s has no version", addon.Id)
	}
	return addon, nil
}
