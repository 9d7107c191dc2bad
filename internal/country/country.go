// Package country defines the country record returned by the REST Countries API
// and the display helpers shared by the table, the detail overlay and the list
// command.
package country

import (
	"strings"
)

// FlagPlaceholder is shown when a record has no PNG flag.
const FlagPlaceholder = "N/A"

// pngOnlyLabel is shown in the flag cell when a PNG exists but no emoji does.
const pngOnlyLabel = "PNG"

// Country is one record from the source dataset. Only the fields the UI consumes
// are decoded.
type Country struct {
	Name         Name     `json:"name"                   yaml:"name"`
	CCA2         string   `json:"cca2"                   yaml:"cca2"`
	CCA3         string   `json:"cca3"                   yaml:"cca3"`
	AltSpellings []string `json:"altSpellings,omitempty" yaml:"altSpellings,omitempty"`
	IDD          IDD      `json:"idd"                    yaml:"idd"`
	Flags        Flags    `json:"flags"                  yaml:"flags"`
	Flag         string   `json:"flag,omitempty"         yaml:"flag,omitempty"`
}

// Name holds the official and common names plus native-language variants.
type Name struct {
	Common     string      `json:"common,omitempty"     yaml:"common,omitempty"`
	Official   string      `json:"official"             yaml:"official"`
	NativeName NativeNames `json:"nativeName,omitempty" yaml:"nativeName,omitempty"`
}

// IDD is the international dialling prefix.
type IDD struct {
	Root     string   `json:"root,omitempty"     yaml:"root,omitempty"`
	Suffixes []string `json:"suffixes,omitempty" yaml:"suffixes,omitempty"`
}

// Flags holds flag image URLs.
type Flags struct {
	PNG string `json:"png,omitempty" yaml:"png,omitempty"`
	SVG string `json:"svg,omitempty" yaml:"svg,omitempty"`
	Alt string `json:"alt,omitempty" yaml:"alt,omitempty"`
}

// Key returns the row identity key (the official name).
func (c Country) Key() string {
	return c.Name.Official
}

// HasFlag reports whether a PNG flag URL is present.
func (c Country) HasFlag() bool {
	return strings.TrimSpace(c.Flags.PNG) != ""
}

// FlagCell renders the table's flag column: the emoji when a PNG flag exists,
// "PNG" when only the image does, and N/A when there is no PNG.
func (c Country) FlagCell() string {
	if !c.HasFlag() {
		return FlagPlaceholder
	}
	if c.Flag != "" {
		return c.Flag
	}
	return pngOnlyLabel
}

// NativeNamesCell joins the native official names in source order. Records
// without native names render as "".
func (c Country) NativeNamesCell() string {
	return c.Name.NativeName.Joined()
}

// AltSpellingsCell joins the alternative spellings.
func (c Country) AltSpellingsCell() string {
	return strings.Join(c.AltSpellings, ", ")
}
