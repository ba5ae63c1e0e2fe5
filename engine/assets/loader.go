package assets

import "github.com/spaghettifunk/meshview/engine/renderer/metadata"

// Loader reads one asset from disk into a Resource whose Data field
// carries the decoded payload.
type Loader interface {
	Load(path string) (*metadata.Resource, error)
}
