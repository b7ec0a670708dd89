// Package media defines the caller-owned media item and the manifest formats
// that deliver item lists to the layout engine.
//
// The layout engine never mutates an [Item]; it only reads its identity and
// aspect descriptor. Manifests are flat lists of items in TOML, YAML or JSON:
//
//	title = "Lisbon"
//
//	[[items]]
//	id = "tram-28"
//	aspect = "1600-1000"
//	caption = "Tram 28 at dusk"
//	href = "/posts/lisbon"
package media

import (
	"github.com/matzehuels/lightbox/pkg/aspect"
	"github.com/matzehuels/lightbox/pkg/errors"
)

// Item is a single photo or video as handed to the layout engine.
type Item struct {
	ID      string            `json:"id" toml:"id" yaml:"id"`
	Aspect  string            `json:"aspect" toml:"aspect" yaml:"aspect"`
	Video   bool              `json:"video,omitempty" toml:"video" yaml:"video,omitempty"`
	Src     string            `json:"src,omitempty" toml:"src" yaml:"src,omitempty"`
	Caption string            `json:"caption,omitempty" toml:"caption" yaml:"caption,omitempty"`
	Href    string            `json:"href,omitempty" toml:"href" yaml:"href,omitempty"`
	Extra   map[string]string `json:"extra,omitempty" toml:"extra" yaml:"extra,omitempty"`
}

// Normalized returns the item's aspect through m, falling back to
// aspect.Default for malformed descriptors.
func (it Item) Normalized(m *aspect.Model) aspect.Aspect {
	if m == nil {
		m = aspect.DefaultModel()
	}
	return m.Normalize(it.Aspect)
}

// Validate checks identity and link fields. Aspect descriptors are not
// validated here: malformed aspects degrade to the default aspect instead of
// rejecting the item.
func (it Item) Validate() error {
	if err := errors.ValidateItemID(it.ID); err != nil {
		return err
	}
	return errors.ValidateHref(it.Href)
}

// Validate checks every item and rejects duplicate IDs.
func Validate(items []Item) error {
	seen := make(map[string]int, len(items))
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "item %d", i)
		}
		if j, dup := seen[it.ID]; dup {
			return errors.New(errors.ErrCodeInvalidManifest, "duplicate item id %q (items %d and %d)", it.ID, j, i)
		}
		seen[it.ID] = i
	}
	return nil
}
