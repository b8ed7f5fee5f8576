package assets

import "github.com/spaghettifunk/facet/engine/renderer/metadata"

type Loader interface {
	Load(path string) (*metadata.Resource, error)
	Unload(*metadata.Resource) error
}
