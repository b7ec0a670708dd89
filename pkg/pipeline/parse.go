package pipeline

import (
	"github.com/matzehuels/lightbox/pkg/errors"
	"github.com/matzehuels/lightbox/pkg/media"
)

// Parse returns the validated item list for opts. A manifest title fills
// opts.Title when it is empty.
func Parse(opts *Options) ([]media.Item, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}
	if len(opts.Items) > 0 {
		if err := media.Validate(opts.Items); err != nil {
			return nil, err
		}
		return opts.Items, nil
	}

	m, err := media.Decode([]byte(opts.Manifest), media.Format(opts.ManifestFormat))
	if err != nil {
		return nil, err
	}
	if len(m.Items) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "manifest has no items")
	}
	if opts.Title == "" {
		opts.Title = m.Title
	}
	return m.Items, nil
}
